package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/news-cli/app/api"
	"github.com/lysyi3m/news-cli/app/cfg"
	"github.com/lysyi3m/news-cli/app/news"
	"github.com/lysyi3m/news-cli/app/tasks"
)

type ServeCommand struct {
	Port            string `short:"p" long:"port" env:"NEWSCLI_PORT" default:"8080" description:"HTTP server port"`
	RefreshInterval int    `long:"refresh-interval" env:"NEWSCLI_REFRESH_INTERVAL" value-name:"minutes" description:"Background refresh interval in minutes (default: cache TTL)"`
	Limit           string `short:"l" long:"limit" value-name:"number" description:"Default number of items per feed (default: 3)"`
}

func (a *App) runServe(ctx context.Context, c *cfg.Cfg, loader *news.Loader, cmd *ServeCommand) error {
	limit := c.DefaultLimit
	if cmd.Limit != "" {
		parsed, err := ParsePositiveInteger(cmd.Limit, "--limit")
		if err != nil {
			return err
		}
		limit = parsed
	}

	if cmd.RefreshInterval < 0 {
		return errors.New("--refresh-interval must not be negative")
	}
	interval := c.CacheTTL
	if cmd.RefreshInterval > 0 {
		interval = time.Duration(cmd.RefreshInterval) * time.Minute
	}

	refresh := news.Options{
		OPMLPath:     c.OPMLPath,
		LimitPerFeed: limit,
		CacheTTL:     c.CacheTTL,
	}
	scheduler := tasks.NewScheduler(func() tasks.TaskInterface {
		return tasks.NewRefreshNewsTask(loader, refresh)
	}, interval, 1)

	slog.Info("Starting background refresh", "interval", interval.String())
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(loader, scheduler, api.Defaults{
		OPMLPath:     c.OPMLPath,
		CacheTTL:     c.CacheTTL,
		LimitPerFeed: limit,
		Version:      c.Version,
	})

	httpServer := &http.Server{
		Addr:         ":" + cmd.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", cmd.Port, "opml", c.OPMLPath, "cache_dir", c.CacheDir)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("Shutting down server gracefully")
	case serveErr = <-serverErrChan:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	return serveErr
}
