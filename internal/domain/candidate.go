package domain

import (
	"context"
	"time"
)

// Candidate payment statuses as used by the front office.
const (
	PaymentStatusPending  = "Очікується"
	PaymentStatusReceived = "Отримано"
)

type Candidate struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Branch        string    `json:"branch"`
	VacancyID     *int64    `json:"vacancy_id,omitempty"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	PaymentAmount float64   `json:"payment_amount"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Snapshot returns the candidate state as a schema-less key-value bag. The
// revert engine round-trips these bags without knowing the entity schema, so
// keys must match the column names accepted by ApplySnapshot.
func (c *Candidate) Snapshot() map[string]any {
	snap := map[string]any{
		"id":             c.ID,
		"full_name":      c.FullName,
		"phone":          c.Phone,
		"email":          c.Email,
		"branch":         c.Branch,
		"status":         c.Status,
		"payment_status": c.PaymentStatus,
		"payment_amount": c.PaymentAmount,
		"comment":        c.Comment,
	}
	if c.VacancyID != nil {
		snap["vacancy_id"] = *c.VacancyID
	}
	return snap
}

// CandidateFilter narrows List results. Zero values mean "no filter".
type CandidateFilter struct {
	Branch string
	Status string
	Search string // matches full name or phone
	Limit  int
	Offset int
}

type CandidateRepository interface {
	Create(ctx context.Context, c *Candidate) error
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	List(ctx context.Context, f CandidateFilter) ([]*Candidate, error)
	Count(ctx context.Context, f CandidateFilter) (int64, error)
	Update(ctx context.Context, c *Candidate) error
	// ApplySnapshot overwrites the fields present in the bag and leaves the
	// rest untouched. Unknown keys are ignored.
	ApplySnapshot(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
}
