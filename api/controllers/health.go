package controllers

import (
	"context"
	"net/http"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/api/responses"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/config"
	pkgerrors "github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/errors"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/logger"
)

const envHeader = "X-MFG-Env"

// Pinger reports the health of a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the cart storage backend.
func HealthReady(cfg *config.Config, logg *logger.Logger, storage Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if storage != nil {
			if err := storage.Ping(r.Context()); err != nil {
				ctx := logg.WithField(r.Context(), "storage", cfg.Cart.Storage)
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart storage unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready", "storage": cfg.Cart.Storage})
	}
}
