package http

import (
	"net/http"

	domainUser "loanorigin/internal/domain/user"
	useruc "loanorigin/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type UserHandler struct{ uc *useruc.Usecase }

func NewUserHandler(uc *useruc.Usecase) *UserHandler { return &UserHandler{uc: uc} }

func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.uc.List(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users, "count": len(users)})
}

func (h *UserHandler) GetUser(c echo.Context) error {
	usr, err := h.uc.Get(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, usr)
}

type updateUserReq struct {
	Role      *string `json:"role" validate:"omitempty,oneof=customer loan-officer underwriter admin"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := useruc.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
	if req.Role != nil {
		r := domainUser.Role(*req.Role)
		in.Role = &r
	}
	usr, err := h.uc.Update(c.Request().Context(), actorID(c), c.Param("user_id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, usr)
}
