package loanapp

import (
	"time"

	"loanorigin/internal/domain/loan"
)

// StatusFilterAll disables status filtering in derived loan views.
const StatusFilterAll = "all"

// State is the loan-application snapshot. It is replaced wholesale on every
// action; derived views are pure functions over the latest value.
type State struct {
	// Current loan being worked on; nil until the wizard starts.
	CurrentLoan *loan.Draft

	// Last submitted loan, kept for the summary view.
	SubmittedLoan *loan.Loan

	// The user's loan applications.
	UserLoans []loan.Loan

	// UI state.
	IsLoading bool
	Error     string

	// Form state.
	SelectedLoanType loan.Type
	FormStep         int
	IsDraftSaved     bool

	// Application flow state.
	IsSubmitting bool
	LastSavedAt  *time.Time

	// Filters and search.
	StatusFilter string
	SearchQuery  string
}

func initialState() State {
	return State{
		SelectedLoanType: loan.TypePersonal,
		StatusFilter:     StatusFilterAll,
	}
}
