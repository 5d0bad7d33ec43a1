package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/staffhub/staffhub/internal/auth"
	"github.com/staffhub/staffhub/internal/domain"
	"github.com/staffhub/staffhub/internal/store/postgres"
)

// DefaultPassword is assigned to every seeded account. Development only.
const DefaultPassword = "staffhub-dev"

type seedUser struct {
	username    string
	displayName string
	role        domain.Role
	branch      string
}

var users = []seedUser{
	{"admin", "Admin", domain.RoleAdmin, ""},
	{"director", "Director", domain.RoleDirector, ""},
	{"accountant", "Accountant", domain.RoleAccountant, ""},
	{"rec_director", "Recruitment Director", domain.RoleRecruitmentDirector, ""},
	{"kyiv_manager", "Branch Manager Kyiv", domain.RoleBranchManager, "Kyiv"},
	{"administrator", "Administrator", domain.RoleAdministrator, "Kyiv"},
	{"lviv_manager", "Manager Lviv", domain.RoleManager, "Lviv"},
}

// Run populates an empty database with one account per role plus a small
// set of vacancies, candidates, deals and payments across two branches.
// Existing usernames are skipped so repeated runs are safe.
func Run(ctx context.Context, store *postgres.Store) error {
	if err := seedUsers(ctx, store); err != nil {
		return err
	}

	vacancyIDs, err := seedVacancies(ctx, store)
	if err != nil {
		return err
	}

	candidateIDs, err := seedCandidates(ctx, store, vacancyIDs)
	if err != nil {
		return err
	}

	if err := seedDealsAndPayments(ctx, store, candidateIDs); err != nil {
		return err
	}

	return seedContacts(ctx, store)
}

func seedUsers(ctx context.Context, store *postgres.Store) error {
	for _, su := range users {
		if _, err := store.Users().GetByUsername(ctx, su.username); err == nil {
			log.Info().Str("username", su.username).Msg("seed: user exists, skipping")
			continue
		}

		hash, err := auth.HashPassword(DefaultPassword)
		if err != nil {
			return fmt.Errorf("seed: hash password: %w", err)
		}

		now := time.Now()
		u := &domain.User{
			Username:     su.username,
			PasswordHash: hash,
			DisplayName:  su.displayName,
			Role:         su.role,
			Branch:       su.branch,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := store.Users().Create(ctx, u); err != nil {
			return fmt.Errorf("seed: create user %s: %w", su.username, err)
		}
		log.Info().Str("username", su.username).Str("role", string(su.role)).Msg("seed: user created")
	}
	return nil
}

func seedVacancies(ctx context.Context, store *postgres.Store) ([]int64, error) {
	fixtures := []*domain.Vacancy{
		{Title: "Warehouse Operator", Branch: "Kyiv", City: "Kyiv", SalaryFrom: 18000, SalaryTo: 24000, Active: true},
		{Title: "Forklift Driver", Branch: "Kyiv", City: "Kyiv", SalaryFrom: 22000, SalaryTo: 30000, Active: true},
		{Title: "Production Line Worker", Branch: "Lviv", City: "Lviv", SalaryFrom: 17000, SalaryTo: 21000, Active: true},
		{Title: "Night Shift Packer", Branch: "Lviv", City: "Lviv", SalaryFrom: 16000, SalaryTo: 19000, Active: false},
	}

	ids := make([]int64, 0, len(fixtures))
	now := time.Now()
	for _, v := range fixtures {
		v.CreatedAt = now
		v.UpdatedAt = now
		if err := store.Vacancies().Create(ctx, v); err != nil {
			return nil, fmt.Errorf("seed: create vacancy %q: %w", v.Title, err)
		}
		ids = append(ids, v.ID)
	}
	return ids, nil
}

func seedCandidates(ctx context.Context, store *postgres.Store, vacancyIDs []int64) ([]int64, error) {
	fixtures := []*domain.Candidate{
		{FullName: "Олена Петренко", Phone: "+380501112233", Branch: "Kyiv", Status: "interview", PaymentStatus: domain.PaymentStatusPending, PaymentAmount: 4000},
		{FullName: "Іван Коваль", Phone: "+380671234567", Branch: "Kyiv", Status: "hired", PaymentStatus: domain.PaymentStatusReceived, PaymentAmount: 5000},
		{FullName: "Марія Шевченко", Phone: "+380931119988", Branch: "Lviv", Status: "new", PaymentStatus: domain.PaymentStatusPending, PaymentAmount: 3500},
		{FullName: "Петро Бондаренко", Phone: "+380631002030", Branch: "Lviv", Status: "interview", PaymentStatus: domain.PaymentStatusPending, PaymentAmount: 3800},
	}

	ids := make([]int64, 0, len(fixtures))
	now := time.Now()
	for i, c := range fixtures {
		if len(vacancyIDs) > 0 {
			id := vacancyIDs[i%len(vacancyIDs)]
			c.VacancyID = &id
		}
		c.CreatedAt = now
		c.UpdatedAt = now
		if err := store.Candidates().Create(ctx, c); err != nil {
			return nil, fmt.Errorf("seed: create candidate %q: %w", c.FullName, err)
		}
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func seedDealsAndPayments(ctx context.Context, store *postgres.Store, candidateIDs []int64) error {
	now := time.Now()
	for i, candID := range candidateIDs {
		id := candID
		d := &domain.Deal{
			CandidateID: &id,
			Title:       fmt.Sprintf("Placement #%d", i+1),
			Amount:      4000 + float64(i)*500,
			Stage:       domain.DealStageNew,
			Branch:      branchFor(i),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if i%2 == 1 {
			d.Stage = domain.DealStageWon
		}
		if err := store.Deals().Create(ctx, d); err != nil {
			return fmt.Errorf("seed: create deal: %w", err)
		}

		status := domain.PaymentStatusPending
		var paidAt *time.Time
		if d.Stage == domain.DealStageWon {
			status = domain.PaymentStatusReceived
			paid := now
			paidAt = &paid
		}
		dealID := d.ID
		p := &domain.Payment{
			DealID:      &dealID,
			CandidateID: &id,
			Amount:      d.Amount,
			Status:      status,
			Branch:      d.Branch,
			PaidAt:      paidAt,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := store.Payments().Create(ctx, p); err != nil {
			return fmt.Errorf("seed: create payment: %w", err)
		}
	}
	return nil
}

func seedContacts(ctx context.Context, store *postgres.Store) error {
	now := time.Now()
	fixtures := []*domain.Contact{
		{Name: "Андрій Мельник", Phone: "+380441234567", Branch: "Kyiv", Position: "HR Lead, Metalex"},
		{Name: "Софія Ткаченко", Phone: "+380322001122", Branch: "Lviv", Position: "Plant Manager, Halychyna Foods"},
	}
	for _, c := range fixtures {
		c.CreatedAt = now
		c.UpdatedAt = now
		if err := store.Contacts().Create(ctx, c); err != nil {
			return fmt.Errorf("seed: create contact %q: %w", c.Name, err)
		}
	}
	return nil
}

func branchFor(i int) string {
	if i%2 == 0 {
		return "Kyiv"
	}
	return "Lviv"
}
