package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffhub/staffhub/internal/domain"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

func (r *StatsRepo) Summary(ctx context.Context, branch string) (*domain.Statistics, error) {
	stats := &domain.Statistics{
		CandidatesByStatus: make(map[string]int64),
		DealsByStage:       make(map[string]int64),
	}

	candidatesByStatus, err := r.groupCount(ctx, "candidates", "status", branch)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.Summary: candidates: %w", err)
	}
	for status, n := range candidatesByStatus {
		stats.CandidatesByStatus[status] = n
		stats.TotalCandidates += n
	}

	dealsByStage, err := r.groupCount(ctx, "deals", "stage", branch)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.Summary: deals: %w", err)
	}
	for stage, n := range dealsByStage {
		stats.DealsByStage[stage] = n
		stats.TotalDeals += n
	}

	paymentsByStatus, err := r.paymentSums(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.Summary: payments: %w", err)
	}
	stats.PaymentsPending = paymentsByStatus[domain.PaymentStatusPending]
	stats.PaymentsReceived = paymentsByStatus[domain.PaymentStatusReceived]

	stats.ActiveVacancies, err = r.activeVacancies(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.Summary: vacancies: %w", err)
	}

	return stats, nil
}

func (r *StatsRepo) groupCount(ctx context.Context, table, column, branch string) (map[string]int64, error) {
	builder := sq.Select(column, "count(*)").
		From(table).
		PlaceholderFormat(sq.Dollar).
		GroupBy(column)

	if branch != "" {
		builder = builder.Where(sq.Eq{"branch": branch})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		counts[key] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return counts, nil
}

func (r *StatsRepo) paymentSums(ctx context.Context, branch string) (map[string]float64, error) {
	builder := sq.Select("status", "coalesce(sum(amount), 0)").
		From("payments").
		PlaceholderFormat(sq.Dollar).
		GroupBy("status")

	if branch != "" {
		builder = builder.Where(sq.Eq{"branch": branch})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[string]float64)
	for rows.Next() {
		var status string
		var total float64
		if err := rows.Scan(&status, &total); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		sums[status] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return sums, nil
}

func (r *StatsRepo) activeVacancies(ctx context.Context, branch string) (int64, error) {
	builder := sq.Select("count(*)").
		From("vacancies").
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"active": true})

	if branch != "" {
		builder = builder.Where(sq.Eq{"branch": branch})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}
