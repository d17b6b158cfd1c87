package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/he2-ai/backoffice-backend/api/routes"
	"github.com/he2-ai/backoffice-backend/internal/analytics"
	"github.com/he2-ai/backoffice-backend/internal/auth"
	"github.com/he2-ai/backoffice-backend/internal/campaigns"
	"github.com/he2-ai/backoffice-backend/internal/credits"
	"github.com/he2-ai/backoffice-backend/internal/demographics"
	"github.com/he2-ai/backoffice-backend/internal/invites"
	subscriptionsvc "github.com/he2-ai/backoffice-backend/internal/subscriptions"
	"github.com/he2-ai/backoffice-backend/internal/users"
	"github.com/he2-ai/backoffice-backend/pkg/auth/session"
	"github.com/he2-ai/backoffice-backend/pkg/config"
	"github.com/he2-ai/backoffice-backend/pkg/db"
	"github.com/he2-ai/backoffice-backend/pkg/logger"
	"github.com/he2-ai/backoffice-backend/pkg/metrics"
	"github.com/he2-ai/backoffice-backend/pkg/migrate"
	"github.com/he2-ai/backoffice-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	apiMetrics := metrics.NewAPIMetrics(prometheus.DefaultRegisterer)
	engine := demographics.NewEngine(cfg.Demographics.InternalDomains, nil)

	usersRepo := users.NewRepository(dbClient.DB())
	subsRepo := subscriptionsvc.NewRepository(dbClient.DB())
	creditsRepo := credits.NewRepository(dbClient.DB())
	invitesRepo := invites.NewRepository(dbClient.DB())
	campaignsRepo := campaigns.NewRepository(dbClient.DB())
	adminRepo := auth.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		AdminRepo:      adminRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo, apiMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	subsService, err := subscriptionsvc.NewService(subsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create subscriptions service", err)
		os.Exit(1)
	}

	creditsService, err := credits.NewService(creditsRepo, apiMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create credits service", err)
		os.Exit(1)
	}

	invitesService, err := invites.NewService(invitesRepo, dbClient, cfg.Invites)
	if err != nil {
		logg.Error(context.Background(), "failed to create invites service", err)
		os.Exit(1)
	}

	campaignsService, err := campaigns.NewService(campaigns.ServiceParams{
		Repo:          campaignsRepo,
		Mailer:        campaigns.NewMailer(cfg.SMTP, logg),
		Profiles:      usersRepo,
		Subscriptions: subsService,
		Engine:        engine,
		Metrics:       apiMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create campaigns service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(usersRepo, subsService, engine, apiMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting backoffice api")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Sessions:  sessionManager,
			Auth:      authService,
			Users:     usersService,
			Credits:   creditsService,
			Invites:   invitesService,
			Campaigns: campaignsService,
			Analytics: analyticsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
