package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/staffhub/staffhub/internal/domain"
)

// Entry is one mutation to be recorded. OldData/NewData are full-entity
// snapshot bags; nil means "no snapshot", which is preserved as NULL in
// storage rather than becoming an empty string. FieldName/OldValue/NewValue
// carry an optional single-field diff alongside the snapshots.
type Entry struct {
	EntityType string
	EntityID   int64
	Action     domain.AuditAction
	Actor      *domain.Principal
	OldData    map[string]any
	NewData    map[string]any
	FieldName  string
	OldValue   string
	NewValue   string
	SourceAddr string
}

// Recorder appends audit records on a best-effort basis. Persistence
// failures are logged and swallowed so that a caller that already completed
// the primary mutation never sees it fail because of audit logging.
type Recorder struct {
	repo domain.AuditRepository
}

func NewRecorder(repo domain.AuditRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record serializes the entry and appends one audit row. Returns the stored
// record, or nil when recording failed. Never returns an error.
func (r *Recorder) Record(ctx context.Context, e Entry) *domain.AuditRecord {
	rec := &domain.AuditRecord{
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     e.Action,
		CreatedAt:  time.Now(),
	}

	if e.Actor != nil {
		id := e.Actor.ID
		rec.ActorID = &id
		name := actorName(e.Actor)
		rec.ActorName = &name
	}
	if e.FieldName != "" {
		rec.FieldName = &e.FieldName
		rec.OldValue = &e.OldValue
		rec.NewValue = &e.NewValue
	}
	if e.SourceAddr != "" {
		rec.SourceAddr = &e.SourceAddr
	}

	var err error
	if rec.OldSnapshot, err = marshalSnapshot(e.OldData); err != nil {
		log.Error().Err(err).Str("entity_type", e.EntityType).Int64("entity_id", e.EntityID).
			Msg("audit: marshal old snapshot")
		return nil
	}
	if rec.NewSnapshot, err = marshalSnapshot(e.NewData); err != nil {
		log.Error().Err(err).Str("entity_type", e.EntityType).Int64("entity_id", e.EntityID).
			Msg("audit: marshal new snapshot")
		return nil
	}

	if err := r.repo.Insert(ctx, rec); err != nil {
		log.Error().Err(err).
			Str("entity_type", e.EntityType).
			Int64("entity_id", e.EntityID).
			Str("action", string(e.Action)).
			Msg("audit: record insert failed")
		return nil
	}

	return rec
}

// actorName carries the branch through so the log shows which office acted.
func actorName(p *domain.Principal) string {
	name := p.DisplayName
	if name == "" {
		name = p.Username
	}
	if p.Branch != "" {
		return name + " (" + p.Branch + ")"
	}
	return name
}

func marshalSnapshot(data map[string]any) (*string, error) {
	if data == nil {
		return nil, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	s := string(b)
	return &s, nil
}

// FieldChange is one changed field between two snapshot bags, with both
// sides rendered in canonical string form.
type FieldChange struct {
	Name string
	Old  string
	New  string
}

// Diff compares two snapshot bags field by field and returns the fields
// whose canonical value actually changed, in key order. Both sides are
// normalized before comparing so that numeric and string forms of the same
// value do not produce spurious entries.
func Diff(oldData, newData map[string]any) []FieldChange {
	keys := make(map[string]struct{}, len(oldData)+len(newData))
	for k := range oldData {
		keys[k] = struct{}{}
	}
	for k := range newData {
		keys[k] = struct{}{}
	}

	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)

	var changes []FieldChange
	for _, name := range names {
		oldVal := Canonical(oldData[name])
		newVal := Canonical(newData[name])
		if oldVal != newVal {
			changes = append(changes, FieldChange{Name: name, Old: oldVal, New: newVal})
		}
	}

	return changes
}

// Canonical renders a snapshot value as a stable string: nil is empty,
// integral floats lose their fraction, and everything else stringifies the
// obvious way. JSON round-trips turn int64 into float64, so without this
// the same value would compare unequal across the boundary.
func Canonical(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
