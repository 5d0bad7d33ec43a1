package domain

import (
	"context"
	"time"
)

type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Branch    string    `json:"branch"`
	Position  string    `json:"position"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns the contact state as a key-value bag for audit records.
func (c *Contact) Snapshot() map[string]any {
	return map[string]any{
		"id":       c.ID,
		"name":     c.Name,
		"phone":    c.Phone,
		"email":    c.Email,
		"branch":   c.Branch,
		"position": c.Position,
		"comment":  c.Comment,
	}
}

type ContactFilter struct {
	Branch string
	Search string
	Limit  int
	Offset int
}

type ContactRepository interface {
	Create(ctx context.Context, c *Contact) error
	GetByID(ctx context.Context, id int64) (*Contact, error)
	List(ctx context.Context, f ContactFilter) ([]*Contact, error)
	Update(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, id int64) error
}
