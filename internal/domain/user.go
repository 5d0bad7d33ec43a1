package domain

import (
	"context"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // argon2id
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	Branch       string    `json:"branch"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal derives the request principal for this account.
func (u *User) Principal() *Principal {
	return &Principal{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		Branch:      u.Branch,
		DisplayName: u.DisplayName,
	}
}

// Snapshot returns the user state as a key-value bag for audit records.
// The password hash is deliberately excluded.
func (u *User) Snapshot() map[string]any {
	return map[string]any{
		"id":           u.ID,
		"username":     u.Username,
		"display_name": u.DisplayName,
		"role":         string(u.Role),
		"branch":       u.Branch,
	}
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
}
