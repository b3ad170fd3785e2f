package controllers

import (
	"context"
	"net/http"

	"github.com/tiendalink/backend/api/responses"
	"github.com/tiendalink/backend/pkg/config"
	pkgerrors "github.com/tiendalink/backend/pkg/errors"
	"github.com/tiendalink/backend/pkg/logger"
)

// Pinger is implemented by backing stores that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TiendaLink-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the backing stores respond before reporting
// ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, kvP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TiendaLink-Env", cfg.App.Env)

		deps := []struct {
			name string
			dep  Pinger
		}{
			{"database", dbP},
			{"redis", kvP},
		}
		for _, d := range deps {
			if d.dep == nil {
				continue
			}
			if err := d.dep.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, d.name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
