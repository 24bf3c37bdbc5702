package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/ignite/newsletter/internal/api"
	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/emailclient"
	"github.com/ignite/newsletter/internal/mailing"
	"github.com/ignite/newsletter/internal/metrics"
	"github.com/ignite/newsletter/internal/pkg/logger"
	"github.com/ignite/newsletter/internal/pkg/telemetry"
	"github.com/ignite/newsletter/internal/repository/postgres"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "newsletter: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flagSet := pflag.NewFlagSet("newsletter", pflag.ContinueOnError)
	configPath := flagSet.StringP("config", "c", "configuration.yaml", "path to the YAML configuration file")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(cfg.Log, os.Stdout)
	log.WithFields(logrus.Fields{
		"version":  version,
		"config":   *configPath,
		"provider": cfg.EmailClient.Provider,
	}).Info("Starting newsletter server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.WithError(err).Warn("Tracer shutdown error")
		}
	}()

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	log.WithFields(logrus.Fields{
		"host":     cfg.Database.Host,
		"database": cfg.Database.DatabaseName,
	}).Info("Connected to PostgreSQL")

	repo := postgres.NewSubscriptionRepo(db, cfg.Database.QueryTimeout())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := []subscription.Option{
		subscription.WithMetrics(metrics.New(reg)),
		subscription.WithTracerProvider(tp),
	}

	notifier, err := newNotifier(ctx, cfg.EmailClient)
	if err != nil {
		return err
	}
	if notifier != nil && cfg.Welcome.Enabled {
		renderer, err := mailing.NewWelcomeRenderer(cfg.Welcome.Subject)
		if err != nil {
			return err
		}
		opts = append(opts, subscription.WithNotifier(notifier, renderer))
		log.Info("Welcome email enabled")
	}

	svc := subscription.NewService(repo, log, opts...)

	server := api.NewServer(api.SetupRoutes(api.RouterDeps{
		Logger:        log,
		Subscriptions: svc,
		DB:            repo,
		Gatherer:      reg,
		CORS:          cfg.CORS,
		Version:       version,
	}))

	serveErr := make(chan error, 1)
	go func() {
		addr := cfg.Application.Address()
		log.WithField("addr", addr).Info("Listening")
		if err := server.ListenAndServe(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down...")
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown error")
	}

	log.Info("Server stopped")
	return nil
}

// newNotifier builds the configured email provider. It returns nil for
// provider "none".
func newNotifier(ctx context.Context, cfg config.EmailClientSettings) (subscription.Notifier, error) {
	if cfg.Provider == config.ProviderNone {
		return nil, nil
	}

	sender, err := cfg.Sender()
	if err != nil {
		return nil, fmt.Errorf("invalid sender email: %w", err)
	}

	switch cfg.Provider {
	case config.ProviderSES:
		c, err := emailclient.NewSESClient(ctx, cfg, sender)
		if err != nil {
			return nil, fmt.Errorf("create ses client: %w", err)
		}
		return c, nil
	default:
		return emailclient.NewClient(cfg.BaseURL, sender, cfg.AuthorizationToken, cfg.Timeout()), nil
	}
}
