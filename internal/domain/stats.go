package domain

import "context"

// Statistics is the dashboard summary. All figures respect the branch filter
// the caller passed in.
type Statistics struct {
	TotalCandidates    int64            `json:"total_candidates"`
	CandidatesByStatus map[string]int64 `json:"candidates_by_status"`
	TotalDeals         int64            `json:"total_deals"`
	DealsByStage       map[string]int64 `json:"deals_by_stage"`
	PaymentsPending    float64          `json:"payments_pending"`
	PaymentsReceived   float64          `json:"payments_received"`
	ActiveVacancies    int64            `json:"active_vacancies"`
}

type StatsRepository interface {
	// Summary aggregates the dashboard figures. An empty branch means all
	// branches.
	Summary(ctx context.Context, branch string) (*Statistics, error)
}
