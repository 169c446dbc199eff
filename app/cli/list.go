package cli

import (
	"context"

	"github.com/lysyi3m/news-cli/app/cfg"
	"github.com/lysyi3m/news-cli/app/news"
)

type ListCommand struct {
	Sync          bool   `long:"sync" description:"Force refresh and ignore fresh cache"`
	Date          string `short:"d" long:"date" value-name:"yyyy-mm-dd" description:"Read cache snapshot for a specific date"`
	Category      string `short:"c" long:"category" value-name:"category" description:"Filter categories (comma separated)"`
	Japan         bool   `long:"japan" description:"Shortcut for --category Japan"`
	International bool   `long:"international" description:"Shortcut for --category International"`
	Others        bool   `long:"others" description:"Shortcut for --category Others"`
	Limit         string `short:"l" long:"limit" value-name:"number" description:"Number of items per feed (default: 3)"`
	JSON          bool   `short:"j" long:"json" description:"Output as JSON"`
}

func (a *App) runList(ctx context.Context, c *cfg.Cfg, loader *news.Loader, cmd *ListCommand) error {
	limit := c.DefaultLimit
	if cmd.Limit != "" {
		parsed, err := ParsePositiveInteger(cmd.Limit, "--limit")
		if err != nil {
			return err
		}
		limit = parsed
	}

	query := news.Query{
		OPMLPath:     c.OPMLPath,
		ForceSync:    cmd.Sync,
		LimitPerFeed: limit,
		CacheTTL:     c.CacheTTL,
		Categories:   ResolveCategoryFilters(cmd.Category, cmd.Japan, cmd.International, cmd.Others),
	}

	if cmd.Date != "" {
		dateKey, _, err := ParseDateOption(cmd.Date, loader.Now())
		if err != nil {
			return err
		}
		query.DateKey = dateKey
	}

	view, err := loader.LoadView(ctx, query)
	if err != nil {
		return err
	}

	if cmd.JSON {
		return writeJSON(a.Stdout, view)
	}

	renderText(a.Stdout, a.Stderr, view)
	return nil
}
