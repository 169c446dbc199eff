package cli

import (
	"context"
	"math"

	"github.com/lysyi3m/news-cli/app/cfg"
	"github.com/lysyi3m/news-cli/app/news"
)

// unlimited is the per-feed cap used by sync when --limit is not given.
const unlimited = math.MaxInt32

type SyncCommand struct {
	Limit string `short:"l" long:"limit" value-name:"number" description:"Optional per-feed cap for sync (default: all items)"`
	JSON  bool   `short:"j" long:"json" description:"Output as JSON"`
}

func (a *App) runSync(ctx context.Context, c *cfg.Cfg, loader *news.Loader, cmd *SyncCommand) error {
	limit := unlimited
	if cmd.Limit != "" {
		parsed, err := ParsePositiveInteger(cmd.Limit, "--limit")
		if err != nil {
			return err
		}
		limit = parsed
	}

	today := loader.Today()
	loaded, err := loader.Load(ctx, news.Options{
		DateKey:      today,
		OPMLPath:     c.OPMLPath,
		ForceSync:    true,
		LimitPerFeed: limit,
		CacheTTL:     c.CacheTTL,
	})
	if err != nil {
		return err
	}

	summary := syncSummary{
		Date:         today,
		UpdatedAt:    loaded.UpdatedAt,
		Categories:   loaded.Categories,
		ArticleCount: loaded.FetchedCount,
		WarningCount: len(loaded.Warnings),
		Partitions:   loaded.Partitions,
		CacheDir:     c.CacheDir,
	}

	if cmd.JSON {
		return writeJSON(a.Stdout, summary)
	}

	renderSyncSummary(a.Stdout, summary)
	if len(loaded.Warnings) > 0 {
		renderWarnings(a.Stderr, loaded.Warnings)
	}

	return nil
}
