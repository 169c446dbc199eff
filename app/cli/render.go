package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lysyi3m/news-cli/app/feed"
	"github.com/lysyi3m/news-cli/app/news"
)

type syncSummary struct {
	Date         string   `json:"date"`
	UpdatedAt    string   `json:"updatedAt"`
	Categories   []string `json:"categories"`
	ArticleCount int      `json:"articleCount"`
	WarningCount int      `json:"warningCount"`
	Partitions   []string `json:"partitions"`
	CacheDir     string   `json:"cacheDir"`
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func renderText(stdout, stderr io.Writer, view *news.View) {
	source := "Fresh"
	if view.FromCache {
		source = "Cache"
	}

	fmt.Fprintf(stdout, "news (%s)\n", source)
	fmt.Fprintf(stdout, "Date: %s\n", view.Date)
	fmt.Fprintf(stdout, "Updated: %s\n", view.UpdatedAt)

	if len(view.Filters) > 0 {
		fmt.Fprintf(stdout, "Filter: %s\n", strings.Join(view.Filters, ", "))
	}

	if len(view.Categories) == 0 {
		fmt.Fprintln(stdout, "No matching categories.")
	} else {
		for _, category := range view.Categories {
			renderCategory(stdout, category, view.Articles)
		}

		if len(view.Articles) == 0 {
			fmt.Fprintln(stdout, "No articles found for the selected categories.")
		}
	}

	if len(view.Warnings) > 0 {
		fmt.Fprintln(stderr)
		renderWarnings(stderr, view.Warnings)
	}
}

func renderCategory(w io.Writer, category string, articles []feed.Article) {
	header := false

	for _, article := range articles {
		if article.Category != category {
			continue
		}
		if !header {
			fmt.Fprintf(w, "\n>>> %s <<<\n", category)
			header = true
		}
		fmt.Fprintf(w, "- [%s] [%s] %s\n", FormatPublishedAtLabel(article.PublishedAt), article.Source, article.Title)
		fmt.Fprintf(w, "  %s\n", article.Link)
	}
}

func renderWarnings(w io.Writer, warnings []feed.Warning) {
	fmt.Fprintf(w, "Warnings: %d feeds failed.\n", len(warnings))
	for _, warning := range warnings {
		fmt.Fprintf(w, "- %s: %s\n", warning.Source, warning.Message)
	}
}

func renderSyncSummary(w io.Writer, summary syncSummary) {
	fmt.Fprintln(w, "Sync completed.")
	fmt.Fprintf(w, "Date: %s\n", summary.Date)
	fmt.Fprintf(w, "Updated: %s\n", summary.UpdatedAt)
	fmt.Fprintf(w, "Categories: %d\n", len(summary.Categories))
	fmt.Fprintf(w, "Articles: %d\n", summary.ArticleCount)
	fmt.Fprintf(w, "Partitions: %s\n", strings.Join(summary.Partitions, ", "))
	fmt.Fprintf(w, "Cache dir: %s\n", summary.CacheDir)
}
