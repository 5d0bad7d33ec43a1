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

type PaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO payments (deal_id, candidate_id, amount, status, branch, paid_at, comment, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		p.DealID, p.CandidateID, p.Amount, p.Status, p.Branch, p.PaidAt, p.Comment, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("paymentRepo.Create: %w", err)
	}

	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	var p domain.Payment

	err := r.pool.QueryRow(ctx,
		`SELECT id, deal_id, candidate_id, amount, status, branch, paid_at, comment, created_at, updated_at
		 FROM payments WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.DealID, &p.CandidateID, &p.Amount, &p.Status, &p.Branch, &p.PaidAt, &p.Comment, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("paymentRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.GetByID: %w", err)
	}

	return &p, nil
}

func (r *PaymentRepo) List(ctx context.Context, f domain.PaymentFilter) ([]*domain.Payment, error) {
	builder := sq.Select("id", "deal_id", "candidate_id", "amount", "status", "branch", "paid_at", "comment", "created_at", "updated_at").
		From("payments").
		PlaceholderFormat(sq.Dollar).
		OrderBy("created_at DESC")

	if f.Branch != "" {
		builder = builder.Where(sq.Eq{"branch": f.Branch})
	}
	if f.Status != "" {
		builder = builder.Where(sq.Eq{"status": f.Status})
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
		return nil, fmt.Errorf("paymentRepo.List: build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.List: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.DealID, &p.CandidateID, &p.Amount, &p.Status, &p.Branch, &p.PaidAt, &p.Comment, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("paymentRepo.List: scan: %w", err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("paymentRepo.List: rows: %w", err)
	}

	return payments, nil
}

func (r *PaymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET deal_id = $1, candidate_id = $2, amount = $3, status = $4,
		        branch = $5, paid_at = $6, comment = $7, updated_at = now()
		 WHERE id = $8`,
		p.DealID, p.CandidateID, p.Amount, p.Status, p.Branch, p.PaidAt, p.Comment, p.ID,
	)
	if err != nil {
		return fmt.Errorf("paymentRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("paymentRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *PaymentRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("paymentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("paymentRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
