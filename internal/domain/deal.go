package domain

import (
	"context"
	"time"
)

type DealStage string

const (
	DealStageNew         DealStage = "new"
	DealStageNegotiation DealStage = "negotiation"
	DealStageWon         DealStage = "won"
	DealStageLost        DealStage = "lost"
)

type Deal struct {
	ID          int64     `json:"id"`
	CandidateID *int64    `json:"candidate_id,omitempty"`
	Title       string    `json:"title"`
	Amount      float64   `json:"amount"`
	Stage       DealStage `json:"stage"`
	Branch      string    `json:"branch"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns the deal state as a key-value bag for audit records.
func (d *Deal) Snapshot() map[string]any {
	snap := map[string]any{
		"id":      d.ID,
		"title":   d.Title,
		"amount":  d.Amount,
		"stage":   string(d.Stage),
		"branch":  d.Branch,
		"comment": d.Comment,
	}
	if d.CandidateID != nil {
		snap["candidate_id"] = *d.CandidateID
	}
	return snap
}

type DealFilter struct {
	Branch string
	Stage  string
	Limit  int
	Offset int
}

type DealRepository interface {
	Create(ctx context.Context, d *Deal) error
	GetByID(ctx context.Context, id int64) (*Deal, error)
	List(ctx context.Context, f DealFilter) ([]*Deal, error)
	Update(ctx context.Context, d *Deal) error
	Delete(ctx context.Context, id int64) error
}
