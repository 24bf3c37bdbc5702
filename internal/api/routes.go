package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/pkg/httputil"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// Registrar runs the subscription pipeline for one submission.
type Registrar interface {
	Register(ctx context.Context, raw subscription.RawSubmission) (*domain.Subscriber, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps are the collaborators wired into the router. Gatherer may be nil
// to disable GET /metrics.
type RouterDeps struct {
	Logger        logrus.FieldLogger
	Subscriptions Registrar
	DB            Pinger
	Gatherer      prometheus.Gatherer
	CORS          config.CORSSettings
	Version       string
}

// SetupRoutes configures all routes and middleware.
func SetupRoutes(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)

	if len(deps.CORS.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.CORS.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	rs := httputil.NewResponder(deps.Logger)
	health := NewHealthChecker(deps.DB, deps.Version, rs)
	subs := NewSubscriptionHandler(deps.Subscriptions, rs)

	// Health checks
	r.Get("/health_check", health.HandleHealthCheck)
	r.Get("/health", health.HandleHealth)
	r.Get("/health/ready", health.HandleReadiness)

	r.Post("/subscriptions", subs.HandleSubscribe)

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}
