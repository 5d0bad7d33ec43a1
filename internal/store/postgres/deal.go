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

type DealRepo struct {
	pool *pgxpool.Pool
}

func NewDealRepo(pool *pgxpool.Pool) *DealRepo {
	return &DealRepo{pool: pool}
}

func (r *DealRepo) Create(ctx context.Context, d *domain.Deal) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO deals (candidate_id, title, amount, stage, branch, comment, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		d.CandidateID, d.Title, d.Amount, d.Stage, d.Branch, d.Comment, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("dealRepo.Create: %w", err)
	}

	return nil
}

func (r *DealRepo) GetByID(ctx context.Context, id int64) (*domain.Deal, error) {
	var d domain.Deal

	err := r.pool.QueryRow(ctx,
		`SELECT id, candidate_id, title, amount, stage, branch, comment, created_at, updated_at
		 FROM deals WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.CandidateID, &d.Title, &d.Amount, &d.Stage, &d.Branch, &d.Comment, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("dealRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("dealRepo.GetByID: %w", err)
	}

	return &d, nil
}

func (r *DealRepo) List(ctx context.Context, f domain.DealFilter) ([]*domain.Deal, error) {
	builder := sq.Select("id", "candidate_id", "title", "amount", "stage", "branch", "comment", "created_at", "updated_at").
		From("deals").
		PlaceholderFormat(sq.Dollar).
		OrderBy("created_at DESC")

	if f.Branch != "" {
		builder = builder.Where(sq.Eq{"branch": f.Branch})
	}
	if f.Stage != "" {
		builder = builder.Where(sq.Eq{"stage": f.Stage})
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
		return nil, fmt.Errorf("dealRepo.List: build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dealRepo.List: %w", err)
	}
	defer rows.Close()

	var deals []*domain.Deal
	for rows.Next() {
		var d domain.Deal
		if err := rows.Scan(&d.ID, &d.CandidateID, &d.Title, &d.Amount, &d.Stage, &d.Branch, &d.Comment, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("dealRepo.List: scan: %w", err)
		}
		deals = append(deals, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dealRepo.List: rows: %w", err)
	}

	return deals, nil
}

func (r *DealRepo) Update(ctx context.Context, d *domain.Deal) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE deals SET candidate_id = $1, title = $2, amount = $3, stage = $4,
		        branch = $5, comment = $6, updated_at = now()
		 WHERE id = $7`,
		d.CandidateID, d.Title, d.Amount, d.Stage, d.Branch, d.Comment, d.ID,
	)
	if err != nil {
		return fmt.Errorf("dealRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dealRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *DealRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("dealRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dealRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
