package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	domainLoan "loanorigin/internal/domain/loan"
	domainLT "loanorigin/internal/domain/loantype"
	domainUW "loanorigin/internal/domain/underwriting"
	domainUser "loanorigin/internal/domain/user"
	"loanorigin/internal/usecase/decision"
	loanuc "loanorigin/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// domainError maps domain sentinels to HTTP responses. Unknown errors become
// an opaque 500; their detail belongs in the server log, not the response.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domainLoan.ErrNotFound),
		errors.Is(err, domainUser.ErrNotFound),
		errors.Is(err, domainLT.ErrNotFound),
		errors.Is(err, domainUW.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, domainLoan.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "invalid status transition"})
	case errors.Is(err, domainUW.ErrAlreadyDecided):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "loan already decided"})
	case errors.Is(err, domainUser.ErrEmailTaken):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "email already registered"})
	case errors.Is(err, domainUser.ErrBadPassword):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, loanuc.ErrInvalidInput), errors.Is(err, decision.ErrInvalidDecision):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
