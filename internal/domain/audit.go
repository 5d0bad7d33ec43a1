package domain

import (
	"context"
	"time"
)

// AuditAction is the kind of mutation an audit record describes.
type AuditAction string

const (
	AuditActionCreate  AuditAction = "CREATE"
	AuditActionUpdate  AuditAction = "UPDATE"
	AuditActionDelete  AuditAction = "DELETE"
	AuditActionRestore AuditAction = "RESTORE"
)

// AuditRecord is one append-only row of the change history. Records are
// written once per mutation attempt and never updated or deleted by normal
// flow. A record is revertible only when OldSnapshot is present; a record
// carrying only a field-level diff is informational.
type AuditRecord struct {
	ID          int64       `json:"id"`
	EntityType  string      `json:"entity_type"`
	EntityID    int64       `json:"entity_id"`
	Action      AuditAction `json:"action"`
	ActorID     *int64      `json:"actor_id,omitempty"`
	ActorName   *string     `json:"actor_name,omitempty"`
	OldSnapshot *string     `json:"old_snapshot,omitempty"` // serialized JSON bag
	NewSnapshot *string     `json:"new_snapshot,omitempty"` // serialized JSON bag
	FieldName   *string     `json:"field_name,omitempty"`
	OldValue    *string     `json:"old_value,omitempty"`
	NewValue    *string     `json:"new_value,omitempty"`
	SourceAddr  *string     `json:"source_addr,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// AuditFilter narrows List results. Zero values mean "no filter".
type AuditFilter struct {
	EntityType string
	EntityID   int64
	Limit      int
}

type AuditRepository interface {
	// Insert appends one record and fills in its generated ID.
	Insert(ctx context.Context, rec *AuditRecord) error
	GetByID(ctx context.Context, id int64) (*AuditRecord, error)
	// List returns records newest-first.
	List(ctx context.Context, f AuditFilter) ([]*AuditRecord, error)
}
