package audit

import "context"

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	List(ctx context.Context, f ListFilter) ([]Entry, error)
}
