package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffhub/staffhub/internal/domain"
)

type Store struct {
	pool       *pgxpool.Pool
	users      *UserRepo
	candidates *CandidateRepo
	contacts   *ContactRepo
	deals      *DealRepo
	payments   *PaymentRepo
	vacancies  *VacancyRepo
	audit      *AuditRepo
	stats      *StatsRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:       pool,
		users:      NewUserRepo(pool),
		candidates: NewCandidateRepo(pool),
		contacts:   NewContactRepo(pool),
		deals:      NewDealRepo(pool),
		payments:   NewPaymentRepo(pool),
		vacancies:  NewVacancyRepo(pool),
		audit:      NewAuditRepo(pool),
		stats:      NewStatsRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Users() domain.UserRepository           { return s.users }
func (s *Store) Candidates() domain.CandidateRepository { return s.candidates }
func (s *Store) Contacts() domain.ContactRepository     { return s.contacts }
func (s *Store) Deals() domain.DealRepository           { return s.deals }
func (s *Store) Payments() domain.PaymentRepository     { return s.payments }
func (s *Store) Vacancies() domain.VacancyRepository    { return s.vacancies }
func (s *Store) Audit() domain.AuditRepository          { return s.audit }
func (s *Store) Stats() domain.StatsRepository          { return s.stats }
