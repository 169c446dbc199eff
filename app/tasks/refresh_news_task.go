package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/news-cli/app/news"
)

// NewsLoader is satisfied by *news.Loader.
type NewsLoader interface {
	Load(ctx context.Context, opts news.Options) (*news.Loaded, error)
	Today() string
}

// RefreshNewsTask loads today's news. Without ForceSync it only hits the
// feeds when today's snapshot is missing or stale.
type RefreshNewsTask struct {
	Task
	Options news.Options
	loader  NewsLoader
}

func NewRefreshNewsTask(loader NewsLoader, opts news.Options) *RefreshNewsTask {
	taskType := TaskTypeRefreshNews
	if opts.ForceSync {
		taskType = TaskTypeSyncNews
	}

	return &RefreshNewsTask{
		Task:    NewTask(taskType),
		Options: opts,
		loader:  loader,
	}
}

func (t *RefreshNewsTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	opts := t.Options
	opts.DateKey = t.loader.Today()

	loaded, err := t.loader.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to load news for %s: %w", opts.DateKey, err)
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"id", t.ID,
		"date", opts.DateKey,
		"from_cache", loaded.FromCache,
		"articles", len(loaded.Articles),
		"warnings", len(loaded.Warnings),
		"duration", t.GetDuration())

	for _, warning := range loaded.Warnings {
		slog.Warn("Feed failed", "category", warning.Category, "source", warning.Source, "url", warning.URL, "error", warning.Message)
	}

	return nil
}
