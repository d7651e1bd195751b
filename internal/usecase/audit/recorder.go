package audit

import (
	"context"
	"time"

	domainAudit "loanorigin/internal/domain/audit"
	"loanorigin/pkg/id"

	"go.uber.org/zap"
)

// Recorder appends entries to the audit trail. Audit writes must never block
// or fail the primary user action: callers that treat it as fire-and-forget
// ignore the returned error, which is already logged here.
type Recorder struct {
	repo domainAudit.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewRecorder(repo domainAudit.Repository, log *zap.Logger) *Recorder {
	return &Recorder{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Record appends one "<VERB>: <Entity> <id>" entry.
func (r *Recorder) Record(ctx context.Context, userID, action string) error {
	e := &domainAudit.Entry{
		EntryID:   id.NewID32(),
		UserID:    userID,
		Action:    action,
		Timestamp: r.now(),
	}
	if err := r.repo.Append(ctx, e); err != nil {
		r.log.Warn("audit append failed",
			zap.String("user_id", userID),
			zap.String("action", action),
			zap.Error(err))
		return err
	}
	return nil
}

func (r *Recorder) List(ctx context.Context, f domainAudit.ListFilter) ([]domainAudit.Entry, error) {
	return r.repo.List(ctx, f)
}
