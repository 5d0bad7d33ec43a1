package domain

import (
	"context"
	"time"
)

type Vacancy struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Branch      string    `json:"branch"`
	City        string    `json:"city"`
	SalaryFrom  float64   `json:"salary_from"`
	SalaryTo    float64   `json:"salary_to"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns the vacancy state as a key-value bag for audit records.
func (v *Vacancy) Snapshot() map[string]any {
	return map[string]any{
		"id":          v.ID,
		"title":       v.Title,
		"branch":      v.Branch,
		"city":        v.City,
		"salary_from": v.SalaryFrom,
		"salary_to":   v.SalaryTo,
		"description": v.Description,
		"active":      v.Active,
	}
}

type VacancyFilter struct {
	Branch     string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type VacancyRepository interface {
	Create(ctx context.Context, v *Vacancy) error
	GetByID(ctx context.Context, id int64) (*Vacancy, error)
	List(ctx context.Context, f VacancyFilter) ([]*Vacancy, error)
	Update(ctx context.Context, v *Vacancy) error
	Delete(ctx context.Context, id int64) error
}
