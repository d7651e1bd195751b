package http

import (
	"fmt"
	"net/http"
	"strings"

	domainType "loanorigin/internal/domain/loantype"
	audituc "loanorigin/internal/usecase/audit"
	"loanorigin/pkg/id"

	"github.com/labstack/echo/v4"
)

type LoanTypeHandler struct {
	repo  domainType.Repository
	audit *audituc.Recorder
}

func NewLoanTypeHandler(repo domainType.Repository, audit *audituc.Recorder) *LoanTypeHandler {
	return &LoanTypeHandler{repo: repo, audit: audit}
}

func (h *LoanTypeHandler) ListLoanTypes(c echo.Context) error {
	types, err := h.repo.List(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loan_types": types, "count": len(types)})
}

type loanTypeReq struct {
	Name           string   `json:"name" validate:"required,oneof=personal auto mortgage"`
	MinAmount      float64  `json:"min_amount" validate:"required,gt=0,dec2"`
	MaxAmount      float64  `json:"max_amount" validate:"required,gtfield=MinAmount,dec2"`
	MaxTermMonths  int      `json:"max_term_months" validate:"required,gt=0"`
	RequiredFields []string `json:"required_fields" validate:"dive,oneof=vehicle_info property_address"`
}

func (h *LoanTypeHandler) CreateLoanType(c echo.Context) error {
	var req loanTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	cfg := domainType.Config{
		ConfigID:       id.NewID32(),
		Name:           req.Name,
		MinAmount:      req.MinAmount,
		MaxAmount:      req.MaxAmount,
		MaxTermMonths:  req.MaxTermMonths,
		RequiredFields: strings.Join(req.RequiredFields, ","),
	}
	if err := h.repo.Create(c.Request().Context(), &cfg); err != nil {
		return domainError(c, err)
	}

	_ = h.audit.Record(c.Request().Context(), actorID(c), fmt.Sprintf("CREATE: LoanType %s", cfg.ConfigID))
	return c.JSON(http.StatusCreated, cfg)
}

func (h *LoanTypeHandler) UpdateLoanType(c echo.Context) error {
	var req loanTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	cfg, err := h.repo.GetByName(c.Request().Context(), req.Name)
	if err != nil {
		return domainError(c, err)
	}
	if cfg.ConfigID != c.Param("config_id") {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "loan type not found"})
	}
	cfg.MinAmount = req.MinAmount
	cfg.MaxAmount = req.MaxAmount
	cfg.MaxTermMonths = req.MaxTermMonths
	cfg.RequiredFields = strings.Join(req.RequiredFields, ",")
	if err := h.repo.Save(c.Request().Context(), cfg); err != nil {
		return domainError(c, err)
	}

	_ = h.audit.Record(c.Request().Context(), actorID(c), fmt.Sprintf("UPDATE: LoanType %s", cfg.ConfigID))
	return c.JSON(http.StatusOK, cfg)
}

func (h *LoanTypeHandler) DeleteLoanType(c echo.Context) error {
	configID := c.Param("config_id")
	if err := h.repo.Delete(c.Request().Context(), configID); err != nil {
		return domainError(c, err)
	}

	_ = h.audit.Record(c.Request().Context(), actorID(c), fmt.Sprintf("DELETE: LoanType %s", configID))
	return c.NoContent(http.StatusNoContent)
}
