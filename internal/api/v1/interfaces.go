package v1

import (
	"context"

	"github.com/staffhub/staffhub/internal/audit"
	"github.com/staffhub/staffhub/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Users() domain.UserRepository
	Candidates() domain.CandidateRepository
	Contacts() domain.ContactRepository
	Deals() domain.DealRepository
	Payments() domain.PaymentRepository
	Vacancies() domain.VacancyRepository
	Audit() domain.AuditRepository
	Stats() domain.StatsRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// AuditRecorder appends best-effort audit records. *audit.Recorder
// satisfies this interface.
type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry) *domain.AuditRecord
}

// Reverter restores an entity from an audit record. *audit.Engine
// satisfies this interface.
type Reverter interface {
	Revert(ctx context.Context, recordID int64, actor *domain.Principal, sourceAddr string) error
}

// EventPublisher fans out entity-change events to live listeners.
// *ws.Hub satisfies this interface.
type EventPublisher interface {
	PublishChange(ctx context.Context, entityType string, entityID int64, action domain.AuditAction)
}

// ListCache caches serialized list responses keyed by query shape.
// *redis.Cache satisfies this interface.
type ListCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
	Invalidate(ctx context.Context) error
}

// Notifier pushes business-event messages to a back-office channel.
type Notifier interface {
	Send(ctx context.Context, message string) error
}
