package controllers

import (
	"net/http"

	"github.com/ventaflow/ventaflow-backend/api/responses"
	"github.com/ventaflow/ventaflow-backend/pkg/config"
	"github.com/ventaflow/ventaflow-backend/pkg/db"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
	"github.com/ventaflow/ventaflow-backend/pkg/logger"
	pkgredis "github.com/ventaflow/ventaflow-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VentaFlow-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores. Redis being down degrades
// idempotency and rate limiting but the API still serves, so it is
// reported without failing the probe.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VentaFlow-Env", cfg.App.Env)

		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}

		redisStatus := "ok"
		if redisP == nil {
			redisStatus = "disabled"
		} else if err := redisP.Ping(r.Context()); err != nil {
			redisStatus = "degraded"
			if logg != nil {
				logg.Error(r.Context(), "health.redis_unreachable", err)
			}
		}

		responses.WriteSuccess(w, map[string]string{
			"status": "ready",
			"db":     "ok",
			"redis":  redisStatus,
		})
	}
}
