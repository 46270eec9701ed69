package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/array/applications-console/internal/config"
	"github.com/array/applications-console/internal/integrations/accountapi"
	"github.com/array/applications-console/internal/seed"
	"github.com/array/applications-console/internal/validation"
)

func main() {
	n := flag.Int("n", 25, "number of applications to create")
	seedValue := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	flag.Parse()

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	client := accountapi.NewClient(cfg.Upstream.BaseURL,
		accountapi.WithAPIKey(cfg.Upstream.APIKey),
		accountapi.WithTimeout(cfg.Upstream.Timeout),
		accountapi.WithRetry(cfg.Upstream.MaxRetries, cfg.Upstream.RetryInitialBackoffMs),
		accountapi.WithValidator(validation.GetValidator().GetValidate()),
	)

	ctx := context.Background()
	if _, err := client.GetStatus(ctx); err != nil {
		logger.Error("Account application API is unreachable", "url", cfg.Upstream.BaseURL, "error", err)
		os.Exit(1)
	}

	gen := seed.NewGenerator(*seedValue)
	created, failed := 0, 0
	for i := 0; i < *n; i++ {
		app, err := client.Create(ctx, gen.Payload())
		if err != nil {
			failed++
			logger.Warn("Failed to create application", "error", err)
			continue
		}
		created++
		logger.Info("Created application", "id", app.ID, "account_no", app.AccountNo)
	}

	logger.Info("Seeding finished", "created", created, "failed", failed)
	if created == 0 && *n > 0 {
		os.Exit(1)
	}
}
