package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/ordercheck/internal/browser"
	"github.com/JonMunkholm/ordercheck/internal/config"
	"github.com/JonMunkholm/ordercheck/internal/core"
	"github.com/JonMunkholm/ordercheck/internal/logging"
	"github.com/JonMunkholm/ordercheck/internal/reference"
	"github.com/JonMunkholm/ordercheck/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"reference_source", config.MaskSource(cfg.Reference.Source),
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"upload_max_file_size", cfg.Upload.MaxFileSize,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// run serves until SIGINT or SIGTERM, then drains uploads and shuts down.
// The reference load, the session sweeper and the server share one errgroup.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	holder := reference.NewHolder()
	service := core.NewService(holder, cfg)
	server := web.NewServer(service, cfg)

	ln, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr(), err)
	}

	g, gctx := errgroup.WithContext(ctx)

	// Uploads are accepted while this runs; they classify against whatever
	// index the holder has at that moment.
	g.Go(func() error {
		loadCtx, cancel := context.WithTimeout(gctx, cfg.Reference.Timeout)
		defer cancel()
		src := reference.NewSource(cfg.Reference.Source, cfg.Reference.Query)
		reference.LoadInto(loadCtx, holder, src)
		return nil
	})

	g.Go(func() error {
		return service.Sessions().Run(gctx, cfg.Session.SweepInterval)
	})

	g.Go(func() error {
		if err := server.Serve(ln); !web.IsClosed(err) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.UploadLimiterStatus(); status.Active > 0 {
			slog.Info("waiting for uploads to complete", "active", status.Active)
			if err := service.WaitForUploads(shutdownCtx); err != nil {
				slog.Warn("uploads did not complete in time", "error", err)
			} else {
				slog.Info("all uploads completed")
			}
		}

		return server.Shutdown(shutdownCtx)
	})

	if cfg.Server.OpenBrowser {
		url := cfg.Server.URL()
		if err := browser.Open(url); err != nil {
			slog.Warn("could not open browser", "url", url, "error", err)
		}
	}

	return g.Wait()
}
