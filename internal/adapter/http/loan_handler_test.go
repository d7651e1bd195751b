package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domainLoan "loanorigin/internal/domain/loan"
	domainUser "loanorigin/internal/domain/user"
	"loanorigin/internal/testutil/auditmock"
	"loanorigin/internal/testutil/loanmock"
	audituc "loanorigin/internal/usecase/audit"
	loanuc "loanorigin/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func newLoanHandler(repo *loanmock.Repo, applicants *loanmock.ApplicantRepo, trail *auditmock.Repo) *LoanHandler {
	return NewLoanHandler(loanuc.NewUsecase(repo, applicants, audituc.NewRecorder(trail, zap.NewNop())))
}

func TestCreateLoan_Success(t *testing.T) {
	e := newEchoWithValidator()

	var created *domainLoan.Loan
	repo := &loanmock.Repo{
		CreateFn: func(_ context.Context, l *domainLoan.Loan) error { created = l; return nil },
	}
	applicants := &loanmock.ApplicantRepo{}
	trail := &auditmock.Repo{}
	h := newLoanHandler(repo, applicants, trail)

	body := map[string]any{
		"type":             "personal",
		"requested_amount": 12000.50,
		"term_months":      36,
		"applicant": map[string]any{
			"full_name":         "Jane Doe",
			"income":            48000,
			"employment_status": "full-time",
		},
	}
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/loans", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authed(c, "u-1", domainUser.RoleCustomer)

	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201; body=%s", rec.Code, rec.Body.String())
	}
	if created == nil {
		t.Fatal("loan never persisted")
	}
	if created.Status != domainLoan.StatusPending {
		t.Fatalf("status = %s, want pending", created.Status)
	}
	if created.Currency != "USD" {
		t.Fatalf("currency = %s, want USD default", created.Currency)
	}
	if len(trail.Entries) != 1 || !strings.HasPrefix(trail.Entries[0].Action, "CREATE: Loan ") {
		t.Fatalf("audit entries = %+v, want one CREATE", trail.Entries)
	}
	if trail.Entries[0].UserID != "u-1" {
		t.Fatalf("audit actor = %s, want the authenticated user", trail.Entries[0].UserID)
	}
}

func TestCreateLoan_ValidationErrors(t *testing.T) {
	e := newEchoWithValidator()
	h := newLoanHandler(&loanmock.Repo{}, &loanmock.ApplicantRepo{}, &auditmock.Repo{})

	body := map[string]any{
		"type":             "payday", // not a known product
		"requested_amount": 100.999,  // three decimals
		"term_months":      36,
		"applicant":        map[string]any{"full_name": "Jane Doe"},
	}
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/loans", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authed(c, "u-1", domainUser.RoleCustomer)

	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !containsFieldMsg(resp.Details, "Type", "must be one of") {
		t.Fatalf("missing Type detail: %+v", resp.Details)
	}
	if !containsFieldMsg(resp.Details, "RequestedAmount", "2 decimal places") {
		t.Fatalf("missing RequestedAmount detail: %+v", resp.Details)
	}
}

func TestGetLoan_NotFound(t *testing.T) {
	e := newEchoWithValidator()
	h := newLoanHandler(&loanmock.Repo{}, &loanmock.ApplicantRepo{}, &auditmock.Repo{})

	req := httptest.NewRequest(stdhttp.MethodGet, "/api/loans/loan-ghost", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues("loan-ghost")

	if err := h.GetLoan(c); err != nil {
		t.Fatalf("GetLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateLoan_ApproveAndConflict(t *testing.T) {
	e := newEchoWithValidator()

	now := time.Now().UTC()
	stored := &domainLoan.Loan{
		ID:              1,
		LoanID:          "loan-1",
		Type:            domainLoan.TypePersonal,
		RequestedAmount: 9000,
		TermMonths:      24,
		Status:          domainLoan.StatusPending,
		SubmittedAt:     &now,
	}
	repo := &loanmock.Repo{
		GetByLoanIDFn: func(_ context.Context, loanID string) (*domainLoan.Loan, error) {
			cp := *stored
			return &cp, nil
		},
		SaveFn: func(_ context.Context, l *domainLoan.Loan) error { stored = l; return nil },
	}
	h := newLoanHandler(repo, &loanmock.ApplicantRepo{}, &auditmock.Repo{})

	do := func(body map[string]any) *httptest.ResponseRecorder {
		req := httptest.NewRequest(stdhttp.MethodPut, "/api/loans/loan-1", mustJSON(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("loan_id")
		c.SetParamValues("loan-1")
		authed(c, "officer-1", domainUser.RoleLoanOfficer)
		if err := h.UpdateLoan(c); err != nil {
			t.Fatalf("UpdateLoan error: %v", err)
		}
		return rec
	}

	rec := do(map[string]any{"status": "approved", "approved_amount": 8500.00})
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	if stored.Status != domainLoan.StatusApproved {
		t.Fatalf("stored status = %s, want approved", stored.Status)
	}
	if stored.ApprovedAmount == nil || *stored.ApprovedAmount != 8500 {
		t.Fatalf("approved amount = %v, want 8500", stored.ApprovedAmount)
	}

	// Approved is terminal; a second transition must conflict.
	rec = do(map[string]any{"status": "rejected"})
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestCheckEligibility_FailingLoan(t *testing.T) {
	e := newEchoWithValidator()

	score := 550
	repo := &loanmock.Repo{
		GetByLoanIDFn: func(_ context.Context, loanID string) (*domainLoan.Loan, error) {
			return &domainLoan.Loan{
				LoanID:          loanID,
				RequestedAmount: 150000,
				Status:          domainLoan.StatusPending,
				Applicant: domainLoan.Applicant{
					FullName:         "Jane Doe",
					Income:           20000,
					EmploymentStatus: domainLoan.EmploymentUnemployed,
					CreditScore:      &score,
				},
			}, nil
		},
	}
	h := newLoanHandler(repo, &loanmock.ApplicantRepo{}, &auditmock.Repo{})

	req := httptest.NewRequest(stdhttp.MethodGet, "/api/loans/loan-1/eligibility", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues("loan-1")

	if err := h.CheckEligibility(c); err != nil {
		t.Fatalf("CheckEligibility error: %v", err)
	}
	var resp struct {
		IsEligible bool     `json:"is_eligible"`
		Reasons    []string `json:"reasons"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp.IsEligible {
		t.Fatal("loan should be ineligible")
	}
	if len(resp.Reasons) != 3 {
		t.Fatalf("reasons = %v, want all three rules failing", resp.Reasons)
	}

	// Same loan through the risk endpoint: both deductions apply.
	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(stdhttp.MethodGet, "/api/loans/loan-1/risk", nil), rec)
	c.SetParamNames("loan_id")
	c.SetParamValues("loan-1")
	if err := h.AssessRisk(c); err != nil {
		t.Fatalf("AssessRisk error: %v", err)
	}
	var profile struct {
		Score     int    `json:"score"`
		RiskLevel string `json:"risk_level"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if profile.Score != 55 || profile.RiskLevel != "high" {
		t.Fatalf("profile = %+v, want score 55 high", profile)
	}
}
