package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sharpline/barberbook/internal/api"
	"github.com/sharpline/barberbook/internal/cli"
	"github.com/sharpline/barberbook/internal/config"
	"github.com/sharpline/barberbook/internal/session"
	"github.com/sharpline/barberbook/pkg/logging"
)

func main() {
	// Load .env if present; real env vars win.
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting barberbook client",
		"env", cfg.Env,
		"api_base_url", cfg.APIBaseURL,
	)

	metrics := api.NewMetrics(prometheus.DefaultRegisterer)
	client := api.NewClient(cfg.APIBaseURL, logger).
		WithMetrics(metrics).
		WithTimeout(cfg.HTTPTimeout)

	ctx := context.Background()
	resolver := session.NewResolver(cfg.SessionSecret, client, logger)
	sess, err := resolver.Resolve(ctx, cfg.SessionToken, cfg.UserEmail)
	if err != nil {
		logger.Error("could not resolve session", "error", err)
		os.Exit(1)
	}

	app := cli.New(client, sess, cfg.DepositRate, cfg.Currency, os.Stdin, os.Stdout, logger)
	if err := app.Run(ctx); err != nil {
		logger.Error("client exited with error", "error", err)
		os.Exit(1)
	}
}
