package http

import (
	"time"

	"loanorigin/internal/adapter/middleware"
	domainUser "loanorigin/internal/domain/user"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Handlers bundles every route handler for registration.
type Handlers struct {
	Health       *Handler
	Auth         *AuthHandler
	Loans        *LoanHandler
	Applicants   *ApplicantHandler
	Users        *UserHandler
	Audit        *AuditHandler
	LoanTypes    *LoanTypeHandler
	Wizard       *WizardHandler
	Underwriting *UnderwritingHandler
	Admin        *AdminHandler
}

// RegisterRoutes wires the full route table. Everything under /api requires a
// valid token; mutating /api routes additionally pass the idempotency guard,
// which is why it is registered after auth (it scopes keys by user).
func RegisterRoutes(e *echo.Echo, h Handlers, verifier middleware.TokenVerifier, rdb *redis.Client, idempTTL time.Duration) {
	e.GET("/health", h.Health.Health)

	e.POST("/auth/register", h.Auth.Register)
	e.POST("/auth/login", h.Auth.Login)

	api := e.Group("/api", middleware.Auth(verifier), middleware.Idempotency(rdb, idempTTL))

	officerUp := middleware.RequireRole(domainUser.RoleLoanOfficer, domainUser.RoleUnderwriter, domainUser.RoleAdmin)
	underwriterUp := middleware.RequireRole(domainUser.RoleUnderwriter, domainUser.RoleAdmin)
	adminOnly := middleware.RequireRole(domainUser.RoleAdmin)

	loans := api.Group("/loans")
	loans.GET("", h.Loans.ListLoans, officerUp)
	loans.POST("", h.Loans.CreateLoan)
	loans.POST("/submit", h.Loans.SubmitLoan)
	loans.GET("/:loan_id", h.Loans.GetLoan)
	loans.PUT("/:loan_id", h.Loans.UpdateLoan, officerUp)
	loans.DELETE("/:loan_id", h.Loans.DeleteLoan, officerUp)
	loans.GET("/:loan_id/eligibility", h.Loans.CheckEligibility)
	loans.GET("/:loan_id/risk", h.Loans.AssessRisk, underwriterUp)

	applicants := api.Group("/applicants", officerUp)
	applicants.GET("", h.Applicants.ListApplicants)
	applicants.POST("", h.Applicants.CreateApplicant)
	applicants.GET("/:applicant_id", h.Applicants.GetApplicant)
	applicants.PUT("/:applicant_id", h.Applicants.UpdateApplicant)

	users := api.Group("/users", adminOnly)
	users.GET("", h.Users.ListUsers)
	users.GET("/:user_id", h.Users.GetUser)
	users.PUT("/:user_id", h.Users.UpdateUser)

	audit := api.Group("/audit-logs")
	audit.GET("", h.Audit.ListAuditLogs, adminOnly)
	audit.POST("", h.Audit.AppendAuditLog)

	types := api.Group("/loan-types")
	types.GET("", h.LoanTypes.ListLoanTypes)
	types.POST("", h.LoanTypes.CreateLoanType, adminOnly)
	types.PUT("/:config_id", h.LoanTypes.UpdateLoanType, adminOnly)
	types.DELETE("/:config_id", h.LoanTypes.DeleteLoanType, adminOnly)

	wizard := api.Group("/wizard")
	wizard.GET("/draft", h.Wizard.GetDraft)
	wizard.PUT("/draft", h.Wizard.PatchDraft)
	wizard.POST("/draft/save", h.Wizard.SaveDraft)
	wizard.POST("/step", h.Wizard.SetStep)
	wizard.POST("/submit", h.Wizard.SubmitDraft)
	wizard.POST("/reset", h.Wizard.ResetDraft)
	wizard.GET("/can-proceed", h.Wizard.CanProceed)
	wizard.GET("/loans", h.Wizard.ListMyLoans)

	console := api.Group("/admin", adminOnly)
	console.GET("/dashboard", h.Admin.GetDashboard)
	console.POST("/refresh", h.Admin.Refresh)
	console.POST("/filters", h.Admin.ApplyFilters)
	console.POST("/select/:user_id", h.Admin.SelectUser)
	console.POST("/actions", h.Admin.LogAction)

	uw := api.Group("/underwriting", underwriterUp)
	uw.GET("/queue", h.Underwriting.GetQueue)
	uw.POST("/queue/refresh", h.Underwriting.RefreshQueue)
	uw.POST("/queue/filters", h.Underwriting.ApplyFilters)
	uw.POST("/queue/select/:loan_id", h.Underwriting.SelectLoan)
	uw.POST("/queue/prioritize/:loan_id", h.Underwriting.PrioritizeLoan)
	uw.POST("/decisions", h.Underwriting.RecordDecision)
	uw.GET("/decisions", h.Underwriting.ListDecisions)
	uw.GET("/risk/:loan_id", h.Underwriting.GetRiskProfile)
}
