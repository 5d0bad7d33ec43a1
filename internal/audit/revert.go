package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/staffhub/staffhub/internal/domain"
)

// SnapshotApplier writes a snapshot bag back onto a live entity. Fields
// present in the bag overwrite the current state; fields absent are left
// untouched.
type SnapshotApplier interface {
	ApplySnapshot(ctx context.Context, id int64, fields map[string]any) error
}

// Engine restores entities to previously recorded snapshots. Only entity
// types with a registered applier are revertible; reverting anything else
// fails with domain.ErrNotRevertible rather than silently no-opping.
//
// Revert holds no lock on the target entity between loading the record and
// applying it, and the apply-back plus the compensating RESTORE record are
// two sequential writes, not one transaction.
type Engine struct {
	audit    domain.AuditRepository
	recorder *Recorder
	appliers map[string]SnapshotApplier
}

func NewEngine(audit domain.AuditRepository, recorder *Recorder) *Engine {
	return &Engine{
		audit:    audit,
		recorder: recorder,
		appliers: make(map[string]SnapshotApplier),
	}
}

// RegisterApplier makes entityType revertible through the given applier.
func (e *Engine) RegisterApplier(entityType string, a SnapshotApplier) {
	e.appliers[entityType] = a
}

// Revert restores the entity referenced by the audit record to the record's
// old snapshot and appends a new RESTORE record describing the restoration.
// Reverting the same record twice succeeds twice: each run reapplies the
// same snapshot and appends a distinct RESTORE record.
func (e *Engine) Revert(ctx context.Context, recordID int64, actor *domain.Principal, sourceAddr string) error {
	rec, err := e.audit.GetByID(ctx, recordID)
	if err != nil {
		return fmt.Errorf("audit.Engine.Revert: load record %d: %w", recordID, err)
	}

	if rec.OldSnapshot == nil {
		return fmt.Errorf("audit.Engine.Revert: record %d has no old snapshot: %w", recordID, domain.ErrNotRevertible)
	}

	applier, ok := e.appliers[rec.EntityType]
	if !ok {
		return fmt.Errorf("audit.Engine.Revert: entity type %q: %w", rec.EntityType, domain.ErrNotRevertible)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(*rec.OldSnapshot), &fields); err != nil {
		return fmt.Errorf("audit.Engine.Revert: decode snapshot of record %d: %w", recordID, err)
	}

	if err := applier.ApplySnapshot(ctx, rec.EntityID, fields); err != nil {
		return fmt.Errorf("audit.Engine.Revert: apply snapshot of record %d: %w", recordID, err)
	}

	// The compensating record flips the snapshots: what the entity looked
	// like before this revert (the record's new state, when known) becomes
	// the old side, the just-applied snapshot becomes the new side.
	var prior map[string]any
	if rec.NewSnapshot != nil {
		if err := json.Unmarshal([]byte(*rec.NewSnapshot), &prior); err != nil {
			prior = nil
		}
	}

	e.recorder.Record(ctx, Entry{
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		Action:     domain.AuditActionRestore,
		Actor:      actor,
		OldData:    prior,
		NewData:    fields,
		SourceAddr: sourceAddr,
	})

	return nil
}
