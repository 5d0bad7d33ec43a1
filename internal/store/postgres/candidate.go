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

const candidateColumns = `id, full_name, phone, email, branch, vacancy_id, status,
       payment_status, payment_amount, comment, created_at, updated_at`

// snapshotColumns whitelists the candidate columns a snapshot bag may write
// back. Keys match the bag keys produced by Candidate.Snapshot.
var snapshotColumns = map[string]struct{}{
	"full_name":      {},
	"phone":          {},
	"email":          {},
	"branch":         {},
	"vacancy_id":     {},
	"status":         {},
	"payment_status": {},
	"payment_amount": {},
	"comment":        {},
}

type CandidateRepo struct {
	pool *pgxpool.Pool
}

func NewCandidateRepo(pool *pgxpool.Pool) *CandidateRepo {
	return &CandidateRepo{pool: pool}
}

func (r *CandidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO candidates (full_name, phone, email, branch, vacancy_id, status,
		                         payment_status, payment_amount, comment, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		c.FullName, c.Phone, c.Email, c.Branch, c.VacancyID, c.Status,
		c.PaymentStatus, c.PaymentAmount, c.Comment, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("candidateRepo.Create: %w", err)
	}

	return nil
}

func (r *CandidateRepo) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	var c domain.Candidate

	err := r.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`,
		id,
	).Scan(
		&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Branch, &c.VacancyID, &c.Status,
		&c.PaymentStatus, &c.PaymentAmount, &c.Comment, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("candidateRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("candidateRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *CandidateRepo) List(ctx context.Context, f domain.CandidateFilter) ([]*domain.Candidate, error) {
	builder := sq.Select(
		"id", "full_name", "phone", "email", "branch", "vacancy_id", "status",
		"payment_status", "payment_amount", "comment", "created_at", "updated_at",
	).
		From("candidates").
		PlaceholderFormat(sq.Dollar).
		OrderBy("created_at DESC")

	builder = applyCandidateFilter(builder, f)

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
		return nil, fmt.Errorf("candidateRepo.List: build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("candidateRepo.List: %w", err)
	}
	defer rows.Close()

	return scanCandidates(rows, "candidateRepo.List")
}

func (r *CandidateRepo) Count(ctx context.Context, f domain.CandidateFilter) (int64, error) {
	builder := sq.Select("count(*)").From("candidates").PlaceholderFormat(sq.Dollar)
	builder = applyCandidateFilter(builder, f)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("candidateRepo.Count: build query: %w", err)
	}

	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("candidateRepo.Count: %w", err)
	}

	return n, nil
}

func applyCandidateFilter(builder sq.SelectBuilder, f domain.CandidateFilter) sq.SelectBuilder {
	if f.Branch != "" {
		builder = builder.Where(sq.Eq{"branch": f.Branch})
	}
	if f.Status != "" {
		builder = builder.Where(sq.Eq{"status": f.Status})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"full_name": pattern},
			sq.ILike{"phone": pattern},
		})
	}
	return builder
}

func (r *CandidateRepo) Update(ctx context.Context, c *domain.Candidate) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE candidates SET full_name = $1, phone = $2, email = $3, branch = $4,
		        vacancy_id = $5, status = $6, payment_status = $7, payment_amount = $8,
		        comment = $9, updated_at = now()
		 WHERE id = $10`,
		c.FullName, c.Phone, c.Email, c.Branch, c.VacancyID, c.Status,
		c.PaymentStatus, c.PaymentAmount, c.Comment, c.ID,
	)
	if err != nil {
		return fmt.Errorf("candidateRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("candidateRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// ApplySnapshot writes the whitelisted fields of a snapshot bag back onto
// the candidate row. Unknown keys and the id are ignored; fields absent
// from the bag keep their current value.
func (r *CandidateRepo) ApplySnapshot(ctx context.Context, id int64, fields map[string]any) error {
	builder := sq.Update("candidates").PlaceholderFormat(sq.Dollar)

	applied := 0
	for key, value := range fields {
		if _, ok := snapshotColumns[key]; !ok {
			continue
		}
		if key == "vacancy_id" {
			// JSON decodes numeric ids as float64.
			if f, ok := value.(float64); ok {
				value = int64(f)
			}
		}
		builder = builder.Set(key, value)
		applied++
	}

	if applied == 0 {
		return nil
	}

	builder = builder.Set("updated_at", sq.Expr("now()")).Where(sq.Eq{"id": id})

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("candidateRepo.ApplySnapshot: build query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("candidateRepo.ApplySnapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("candidateRepo.ApplySnapshot: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CandidateRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("candidateRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("candidateRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func scanCandidates(rows pgx.Rows, caller string) ([]*domain.Candidate, error) {
	var candidates []*domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(
			&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Branch, &c.VacancyID, &c.Status,
			&c.PaymentStatus, &c.PaymentAmount, &c.Comment, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		candidates = append(candidates, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return candidates, nil
}
