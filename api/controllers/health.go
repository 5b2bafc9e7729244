package controllers

import (
	"context"
	"net/http"

	"github.com/simpleshop/storefront-core/api/responses"
	"github.com/simpleshop/storefront-core/pkg/config"
	pkgerrors "github.com/simpleshop/storefront-core/pkg/errors"
	"github.com/simpleshop/storefront-core/pkg/logger"
)

// Pinger is anything whose connectivity gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SimpleShop-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the snapshot backend answers a ping.
// A nil pinger means the in-memory driver is active and readiness is trivial.
func HealthReady(cfg *config.Config, store Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SimpleShop-Env", cfg.App.Env)

		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "snapshot store unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
