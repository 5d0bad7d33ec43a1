package v1_test

import (
	"context"
	"sync"

	"github.com/staffhub/staffhub/internal/audit"
	"github.com/staffhub/staffhub/internal/domain"
	"github.com/staffhub/staffhub/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject a principal into context for DoCtx
// ---------------------------------------------------------------------------

func principalCtx(role domain.Role, branch string) context.Context {
	return middleware.WithPrincipal(context.Background(), &domain.Principal{
		ID:          1,
		Username:    "tester",
		Role:        role,
		Branch:      branch,
		DisplayName: "Test User",
	})
}

func adminCtx() context.Context {
	return principalCtx(domain.RoleAdmin, "")
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	users      domain.UserRepository
	candidates domain.CandidateRepository
	contacts   domain.ContactRepository
	deals      domain.DealRepository
	payments   domain.PaymentRepository
	vacancies  domain.VacancyRepository
	audit      domain.AuditRepository
	stats      domain.StatsRepository
}

func (m *mockDataStore) Users() domain.UserRepository           { return m.users }
func (m *mockDataStore) Candidates() domain.CandidateRepository { return m.candidates }
func (m *mockDataStore) Contacts() domain.ContactRepository     { return m.contacts }
func (m *mockDataStore) Deals() domain.DealRepository           { return m.deals }
func (m *mockDataStore) Payments() domain.PaymentRepository     { return m.payments }
func (m *mockDataStore) Vacancies() domain.VacancyRepository    { return m.vacancies }
func (m *mockDataStore) Audit() domain.AuditRepository          { return m.audit }
func (m *mockDataStore) Stats() domain.StatsRepository          { return m.stats }

// ---------------------------------------------------------------------------
// Mock CandidateRepository
// ---------------------------------------------------------------------------

type mockCandidateRepo struct {
	createFunc        func(ctx context.Context, c *domain.Candidate) error
	getByIDFunc       func(ctx context.Context, id int64) (*domain.Candidate, error)
	listFunc          func(ctx context.Context, f domain.CandidateFilter) ([]*domain.Candidate, error)
	countFunc         func(ctx context.Context, f domain.CandidateFilter) (int64, error)
	updateFunc        func(ctx context.Context, c *domain.Candidate) error
	applySnapshotFunc func(ctx context.Context, id int64, fields map[string]any) error
	deleteFunc        func(ctx context.Context, id int64) error
}

func (m *mockCandidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	return m.createFunc(ctx, c)
}

func (m *mockCandidateRepo) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockCandidateRepo) List(ctx context.Context, f domain.CandidateFilter) ([]*domain.Candidate, error) {
	return m.listFunc(ctx, f)
}

func (m *mockCandidateRepo) Count(ctx context.Context, f domain.CandidateFilter) (int64, error) {
	return m.countFunc(ctx, f)
}

func (m *mockCandidateRepo) Update(ctx context.Context, c *domain.Candidate) error {
	return m.updateFunc(ctx, c)
}

func (m *mockCandidateRepo) ApplySnapshot(ctx context.Context, id int64, fields map[string]any) error {
	return m.applySnapshotFunc(ctx, id, fields)
}

func (m *mockCandidateRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock ContactRepository
// ---------------------------------------------------------------------------

type mockContactRepo struct {
	createFunc  func(ctx context.Context, c *domain.Contact) error
	getByIDFunc func(ctx context.Context, id int64) (*domain.Contact, error)
	listFunc    func(ctx context.Context, f domain.ContactFilter) ([]*domain.Contact, error)
	updateFunc  func(ctx context.Context, c *domain.Contact) error
	deleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockContactRepo) Create(ctx context.Context, c *domain.Contact) error {
	return m.createFunc(ctx, c)
}

func (m *mockContactRepo) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockContactRepo) List(ctx context.Context, f domain.ContactFilter) ([]*domain.Contact, error) {
	return m.listFunc(ctx, f)
}

func (m *mockContactRepo) Update(ctx context.Context, c *domain.Contact) error {
	return m.updateFunc(ctx, c)
}

func (m *mockContactRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock DealRepository
// ---------------------------------------------------------------------------

type mockDealRepo struct {
	createFunc  func(ctx context.Context, d *domain.Deal) error
	getByIDFunc func(ctx context.Context, id int64) (*domain.Deal, error)
	listFunc    func(ctx context.Context, f domain.DealFilter) ([]*domain.Deal, error)
	updateFunc  func(ctx context.Context, d *domain.Deal) error
	deleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockDealRepo) Create(ctx context.Context, d *domain.Deal) error {
	return m.createFunc(ctx, d)
}

func (m *mockDealRepo) GetByID(ctx context.Context, id int64) (*domain.Deal, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockDealRepo) List(ctx context.Context, f domain.DealFilter) ([]*domain.Deal, error) {
	return m.listFunc(ctx, f)
}

func (m *mockDealRepo) Update(ctx context.Context, d *domain.Deal) error {
	return m.updateFunc(ctx, d)
}

func (m *mockDealRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock PaymentRepository
// ---------------------------------------------------------------------------

type mockPaymentRepo struct {
	createFunc  func(ctx context.Context, p *domain.Payment) error
	getByIDFunc func(ctx context.Context, id int64) (*domain.Payment, error)
	listFunc    func(ctx context.Context, f domain.PaymentFilter) ([]*domain.Payment, error)
	updateFunc  func(ctx context.Context, p *domain.Payment) error
	deleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	return m.createFunc(ctx, p)
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockPaymentRepo) List(ctx context.Context, f domain.PaymentFilter) ([]*domain.Payment, error) {
	return m.listFunc(ctx, f)
}

func (m *mockPaymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	return m.updateFunc(ctx, p)
}

func (m *mockPaymentRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock VacancyRepository
// ---------------------------------------------------------------------------

type mockVacancyRepo struct {
	createFunc  func(ctx context.Context, v *domain.Vacancy) error
	getByIDFunc func(ctx context.Context, id int64) (*domain.Vacancy, error)
	listFunc    func(ctx context.Context, f domain.VacancyFilter) ([]*domain.Vacancy, error)
	updateFunc  func(ctx context.Context, v *domain.Vacancy) error
	deleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockVacancyRepo) Create(ctx context.Context, v *domain.Vacancy) error {
	return m.createFunc(ctx, v)
}

func (m *mockVacancyRepo) GetByID(ctx context.Context, id int64) (*domain.Vacancy, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockVacancyRepo) List(ctx context.Context, f domain.VacancyFilter) ([]*domain.Vacancy, error) {
	return m.listFunc(ctx, f)
}

func (m *mockVacancyRepo) Update(ctx context.Context, v *domain.Vacancy) error {
	return m.updateFunc(ctx, v)
}

func (m *mockVacancyRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc        func(ctx context.Context, u *domain.User) error
	getByIDFunc       func(ctx context.Context, id int64) (*domain.User, error)
	getByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	listFunc          func(ctx context.Context) ([]*domain.User, error)
	updateFunc        func(ctx context.Context, u *domain.User) error
	deleteFunc        func(ctx context.Context, id int64) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.getByUsernameFunc(ctx, username)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return m.listFunc(ctx)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock AuditRepository
// ---------------------------------------------------------------------------

type mockAuditRepo struct {
	insertFunc  func(ctx context.Context, rec *domain.AuditRecord) error
	getByIDFunc func(ctx context.Context, id int64) (*domain.AuditRecord, error)
	listFunc    func(ctx context.Context, f domain.AuditFilter) ([]*domain.AuditRecord, error)
}

func (m *mockAuditRepo) Insert(ctx context.Context, rec *domain.AuditRecord) error {
	return m.insertFunc(ctx, rec)
}

func (m *mockAuditRepo) GetByID(ctx context.Context, id int64) (*domain.AuditRecord, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockAuditRepo) List(ctx context.Context, f domain.AuditFilter) ([]*domain.AuditRecord, error) {
	return m.listFunc(ctx, f)
}

// ---------------------------------------------------------------------------
// Mock StatsRepository
// ---------------------------------------------------------------------------

type mockStatsRepo struct {
	summaryFunc func(ctx context.Context, branch string) (*domain.Statistics, error)
}

func (m *mockStatsRepo) Summary(ctx context.Context, branch string) (*domain.Statistics, error) {
	return m.summaryFunc(ctx, branch)
}

// ---------------------------------------------------------------------------
// Capturing recorder, no-op events, in-memory cache, capturing notifier
// ---------------------------------------------------------------------------

// captureRecorder records every entry it receives so tests can assert on
// what the handlers logged.
type captureRecorder struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *captureRecorder) Record(_ context.Context, e audit.Entry) *domain.AuditRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return &domain.AuditRecord{ID: int64(len(r.entries))}
}

func (r *captureRecorder) all() []audit.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]audit.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

type nopEvents struct{}

func (nopEvents) PublishChange(context.Context, string, int64, domain.AuditAction) {}

type capturedEvent struct {
	entityType string
	entityID   int64
	action     domain.AuditAction
}

// captureEvents records every published change event.
type captureEvents struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (e *captureEvents) PublishChange(_ context.Context, entityType string, entityID int64, action domain.AuditAction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, capturedEvent{entityType, entityID, action})
}

func (e *captureEvents) all() []capturedEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]capturedEvent, len(e.events))
	copy(out, e.events)
	return out
}

// memCache is a map-backed ListCache for handler tests.
type memCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	invalidated int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = payload
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.invalidated++
	return nil
}

type captureNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *captureNotifier) Send(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *captureNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}
