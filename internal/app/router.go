package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cantera-ops/cantera/internal/consumption"
	"github.com/cantera-ops/cantera/internal/costs"
	"github.com/cantera-ops/cantera/internal/fleet"
	"github.com/cantera-ops/cantera/internal/fuel"
	"github.com/cantera-ops/cantera/internal/materials"
	"github.com/cantera-ops/cantera/internal/observability"
	"github.com/cantera-ops/cantera/internal/report"
	reporthttp "github.com/cantera-ops/cantera/internal/report/http"
	"github.com/cantera-ops/cantera/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	FleetHandler       *fleet.Handler
	ConsumptionHandler *consumption.Handler
	CostsHandler       *costs.Handler
	FuelHandler        *fuel.Handler
	MaterialsHandler   *materials.Handler
	ReportHandler      *reporthttp.Handler
	JobHandler         *jobs.Handler
	Reports            *report.Service
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Cantera defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		if params.Reports != nil {
			api.Use(invalidateOnWrite(params.Reports, params.Logger))
		}
		if params.FleetHandler != nil {
			params.FleetHandler.MountRoutes(api)
		}
		if params.ConsumptionHandler != nil {
			params.ConsumptionHandler.MountRoutes(api)
		}
		if params.CostsHandler != nil {
			params.CostsHandler.MountRoutes(api)
		}
		if params.FuelHandler != nil {
			params.FuelHandler.MountRoutes(api)
		}
		if params.MaterialsHandler != nil {
			params.MaterialsHandler.MountRoutes(api)
		}
		if params.ReportHandler != nil {
			params.ReportHandler.MountRoutes(api)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", func(jr chi.Router) {
			params.JobHandler.MountRoutes(jr)
		})
	}

	return r
}

// invalidateOnWrite bumps the report cache version after any successful
// mutating request, so reports never serve data older than the collections.
func invalidateOnWrite(reports *report.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if ww.Status() < 400 {
				if err := reports.InvalidateCache(r.Context()); err != nil && logger != nil {
					logger.Warn("invalidate report cache", slog.Any("error", err))
				}
			}
		})
	}
}
