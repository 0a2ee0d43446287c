package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/ghartak/ghartak-backend/api/responses"
	"github.com/ghartak/ghartak-backend/pkg/config"
	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
	"github.com/ghartak/ghartak-backend/pkg/logger"
)

// Pinger is anything that can report connectivity for readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Ghartak-Env", cfg.App.Env)
		responses.WriteSuccess(w, responses.M{"status": "ok"})
	}
}

// HealthReady verifies the KV store answers before declaring readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if store != nil {
			if err := store.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "kv store unreachable"))
				return
			}
		}
		w.Header().Set("X-Ghartak-Env", cfg.App.Env)
		responses.WriteSuccess(w, responses.M{"status": "ready"})
	}
}
