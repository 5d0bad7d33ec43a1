package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/staffhub/staffhub/internal/api/v1"
	"github.com/staffhub/staffhub/internal/api/ws"
)

func registerAuthRoutes(api huma.API, deps Deps) {
	v1.RegisterAuthRoutes(api, deps.Auth)
}

func registerAPIRoutes(api huma.API, deps Deps) {
	v1.RegisterCandidateRoutes(api, deps.Store, deps.Recorder, deps.Cache, deps.Hub)
	v1.RegisterContactRoutes(api, deps.Store, deps.Recorder, deps.Hub)
	v1.RegisterDealRoutes(api, deps.Store, deps.Recorder, deps.Hub, deps.Notifier)
	v1.RegisterPaymentRoutes(api, deps.Store, deps.Recorder, deps.Hub, deps.Notifier)
	v1.RegisterVacancyRoutes(api, deps.Store, deps.Recorder, deps.Hub)
	v1.RegisterUserRoutes(api, deps.Store, deps.Recorder)
	v1.RegisterAuditRoutes(api, deps.Store, deps.Reverter, deps.Cache, deps.Hub)
	v1.RegisterStatisticsRoutes(api, deps.Store)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/events", hub.ServeEvents)
}
