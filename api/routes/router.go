package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/he2-ai/backoffice-backend/api/controllers"
	analyticscontrollers "github.com/he2-ai/backoffice-backend/api/controllers/analytics"
	"github.com/he2-ai/backoffice-backend/api/middleware"
	"github.com/he2-ai/backoffice-backend/internal/analytics"
	"github.com/he2-ai/backoffice-backend/internal/auth"
	"github.com/he2-ai/backoffice-backend/internal/campaigns"
	"github.com/he2-ai/backoffice-backend/internal/credits"
	"github.com/he2-ai/backoffice-backend/internal/invites"
	"github.com/he2-ai/backoffice-backend/internal/users"
	"github.com/he2-ai/backoffice-backend/pkg/auth/session"
	"github.com/he2-ai/backoffice-backend/pkg/config"
	"github.com/he2-ai/backoffice-backend/pkg/db"
	"github.com/he2-ai/backoffice-backend/pkg/enums"
	"github.com/he2-ai/backoffice-backend/pkg/logger"
	"github.com/he2-ai/backoffice-backend/pkg/redis"
)

// Params bundles everything the router needs so main stays a wiring script.
type Params struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        db.Pinger
	Redis     *redis.Client
	Sessions  session.AccessSessionChecker
	Auth      auth.Service
	Users     users.Service
	Credits   credits.Service
	Invites   invites.Service
	Campaigns campaigns.Service
	Analytics analytics.Service
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Post("/invites/redeem", controllers.RedeemInvite(p.Invites, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(p.Auth, logg))
		r.Post("/refresh", controllers.Refresh(p.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, p.Sessions, logg)).Post("/logout", controllers.Logout(p.Auth, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
		r.Use(middleware.Idempotency(p.Redis, logg))

		r.Get("/ping", controllers.AdminPing())

		// Reads are open to any authenticated back-office account. Writes
		// require the admin role; viewers are read-only.
		admin := middleware.RequireRole(logg, string(enums.AdminRoleAdmin))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.ListUsers(p.Users, logg))
			r.Get("/{userId}", controllers.GetUser(p.Users, logg))
			r.With(admin).Patch("/{userId}", controllers.UpdateUser(p.Users, logg))
			r.With(admin).Delete("/{userId}", controllers.DeleteUser(p.Users, logg))
			r.With(admin).Post("/bulk-delete", controllers.BulkDeleteUsers(p.Users, logg))

			r.Route("/{userId}/credits", func(r chi.Router) {
				r.Get("/", controllers.CreditHistory(p.Credits, logg))
				r.Get("/balance", controllers.CreditBalance(p.Credits, logg))
				r.With(admin).Post("/", controllers.RecordCreditEntry(p.Credits, logg))
			})
		})

		r.With(admin).Post("/credits/bulk-grant", controllers.BulkGrantCredits(p.Credits, logg))

		r.Route("/invites", func(r chi.Router) {
			r.Get("/", controllers.ListInvites(p.Invites, logg))
			r.With(admin).Post("/", controllers.CreateInvite(p.Invites, logg))
			r.With(admin).Post("/{inviteId}/revoke", controllers.RevokeInvite(p.Invites, logg))
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", controllers.ListCampaigns(p.Campaigns, logg))
			r.Get("/{campaignId}", controllers.GetCampaign(p.Campaigns, logg))
			r.With(admin).Post("/", controllers.CreateCampaign(p.Campaigns, logg))
			r.With(admin).Post("/{campaignId}/send", controllers.SendCampaign(p.Campaigns, logg))
		})

		r.Get("/analytics/demographics", analyticscontrollers.Demographics(p.Analytics, logg))
	})

	return r
}
