package domain

import (
	"context"
	"time"
)

type Payment struct {
	ID          int64      `json:"id"`
	DealID      *int64     `json:"deal_id,omitempty"`
	CandidateID *int64     `json:"candidate_id,omitempty"`
	Amount      float64    `json:"amount"`
	Status      string     `json:"status"`
	Branch      string     `json:"branch"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	Comment     string     `json:"comment"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Snapshot returns the payment state as a key-value bag for audit records.
func (p *Payment) Snapshot() map[string]any {
	snap := map[string]any{
		"id":      p.ID,
		"amount":  p.Amount,
		"status":  p.Status,
		"branch":  p.Branch,
		"comment": p.Comment,
	}
	if p.DealID != nil {
		snap["deal_id"] = *p.DealID
	}
	if p.CandidateID != nil {
		snap["candidate_id"] = *p.CandidateID
	}
	if p.PaidAt != nil {
		snap["paid_at"] = p.PaidAt.Format(time.RFC3339)
	}
	return snap
}

type PaymentFilter struct {
	Branch string
	Status string
	Limit  int
	Offset int
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id int64) (*Payment, error)
	List(ctx context.Context, f PaymentFilter) ([]*Payment, error)
	Update(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, id int64) error
}
