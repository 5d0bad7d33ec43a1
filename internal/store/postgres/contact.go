package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffhub/staffhub/internal/domain"
)

type ContactRepo struct {
	pool *pgxpool.Pool
}

func NewContactRepo(pool *pgxpool.Pool) *ContactRepo {
	return &ContactRepo{pool: pool}
}

func (r *ContactRepo) Create(ctx context.Context, c *domain.Contact) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO contacts (name, phone, email, branch, position, comment, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		c.Name, c.Phone, c.Email, c.Branch, c.Position, c.Comment, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("contactRepo.Create: %w", err)
	}

	return nil
}

func (r *ContactRepo) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	var c domain.Contact

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, phone, email, branch, position, comment, created_at, updated_at
		 FROM contacts WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Branch, &c.Position, &c.Comment, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("contactRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("contactRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *ContactRepo) List(ctx context.Context, f domain.ContactFilter) ([]*domain.Contact, error) {
	builder := sq.Select("id", "name", "phone", "email", "branch", "position", "comment", "created_at", "updated_at").
		From("contacts").
		PlaceholderFormat(sq.Dollar).
		OrderBy("created_at DESC")

	if f.Branch != "" {
		builder = builder.Where(sq.Eq{"branch": f.Branch})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"phone": pattern},
		})
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	builder = builder.Limit(uint64(limit))
	if f.Offset > 0 {
		builder = builder.Offset(uint64(f.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("contactRepo.List: build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("contactRepo.List: %w", err)
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Branch, &c.Position, &c.Comment, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("contactRepo.List: scan: %w", err)
		}
		contacts = append(contacts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("contactRepo.List: rows: %w", err)
	}

	return contacts, nil
}

func (r *ContactRepo) Update(ctx context.Context, c *domain.Contact) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE contacts SET name = $1, phone = $2, email = $3, branch = $4,
		        position = $5, comment = $6, updated_at = now()
		 WHERE id = $7`,
		c.Name, c.Phone, c.Email, c.Branch, c.Position, c.Comment, c.ID,
	)
	if err != nil {
		return fmt.Errorf("contactRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contactRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ContactRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("contactRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contactRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
