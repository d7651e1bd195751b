package audit

import "time"

// Entry is append-only: the application layer never mutates or deletes one.
// Action follows the "<VERB>: <Entity> <id>" convention.
type Entry struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	EntryID   string    `gorm:"size:32;uniqueIndex:ux_audit_entries_entry_id" json:"entry_id"`
	UserID    string    `gorm:"size:32;index" json:"user_id"`
	Action    string    `gorm:"type:text" json:"action"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

func (Entry) TableName() string { return "audit_entries" }

// ListFilter narrows queries over the audit trail. A zero Limit defaults at
// the repository.
type ListFilter struct {
	UserID string
	Action string // substring match
	Limit  int
}
