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

type VacancyRepo struct {
	pool *pgxpool.Pool
}

func NewVacancyRepo(pool *pgxpool.Pool) *VacancyRepo {
	return &VacancyRepo{pool: pool}
}

func (r *VacancyRepo) Create(ctx context.Context, v *domain.Vacancy) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO vacancies (title, branch, city, salary_from, salary_to, description, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		v.Title, v.Branch, v.City, v.SalaryFrom, v.SalaryTo, v.Description, v.Active, v.CreatedAt, v.UpdatedAt,
	).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("vacancyRepo.Create: %w", err)
	}

	return nil
}

func (r *VacancyRepo) GetByID(ctx context.Context, id int64) (*domain.Vacancy, error) {
	var v domain.Vacancy

	err := r.pool.QueryRow(ctx,
		`SELECT id, title, branch, city, salary_from, salary_to, description, active, created_at, updated_at
		 FROM vacancies WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Title, &v.Branch, &v.City, &v.SalaryFrom, &v.SalaryTo, &v.Description, &v.Active, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("vacancyRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("vacancyRepo.GetByID: %w", err)
	}

	return &v, nil
}

func (r *VacancyRepo) List(ctx context.Context, f domain.VacancyFilter) ([]*domain.Vacancy, error) {
	builder := sq.Select("id", "title", "branch", "city", "salary_from", "salary_to", "description", "active", "created_at", "updated_at").
		From("vacancies").
		PlaceholderFormat(sq.Dollar).
		OrderBy("created_at DESC")

	if f.Branch != "" {
		builder = builder.Where(sq.Eq{"branch": f.Branch})
	}
	if f.ActiveOnly {
		builder = builder.Where(sq.Eq{"active": true})
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
		return nil, fmt.Errorf("vacancyRepo.List: build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("vacancyRepo.List: %w", err)
	}
	defer rows.Close()

	var vacancies []*domain.Vacancy
	for rows.Next() {
		var v domain.Vacancy
		if err := rows.Scan(&v.ID, &v.Title, &v.Branch, &v.City, &v.SalaryFrom, &v.SalaryTo, &v.Description, &v.Active, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("vacancyRepo.List: scan: %w", err)
		}
		vacancies = append(vacancies, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vacancyRepo.List: rows: %w", err)
	}

	return vacancies, nil
}

func (r *VacancyRepo) Update(ctx context.Context, v *domain.Vacancy) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE vacancies SET title = $1, branch = $2, city = $3, salary_from = $4,
		        salary_to = $5, description = $6, active = $7, updated_at = now()
		 WHERE id = $8`,
		v.Title, v.Branch, v.City, v.SalaryFrom, v.SalaryTo, v.Description, v.Active, v.ID,
	)
	if err != nil {
		return fmt.Errorf("vacancyRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vacancyRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *VacancyRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vacancies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("vacancyRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vacancyRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
