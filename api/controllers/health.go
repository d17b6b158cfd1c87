package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/he2-ai/backoffice-backend/api/responses"
	"github.com/he2-ai/backoffice-backend/pkg/config"
	pkgerrors "github.com/he2-ai/backoffice-backend/pkg/errors"
	"github.com/he2-ai/backoffice-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-HE2-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores so the platform only routes traffic
// once both are reachable.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP pinger, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-HE2-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := []struct {
			name   string
			target pinger
		}{
			{name: "database", target: dbP},
			{name: "redis", target: redisP},
		}
		for _, check := range checks {
			if check.target == nil {
				continue
			}
			if err := check.target.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
