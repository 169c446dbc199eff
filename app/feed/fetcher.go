package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const placeholderTitle = "No Title"

// Getter retrieves the raw bytes of a feed.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type HTTPGetter struct {
	client    *http.Client
	userAgent string
}

// NewHTTPGetter builds a Getter backed by net/http. A zero timeout means none.
func NewHTTPGetter(timeout time.Duration, userAgent string) *HTTPGetter {
	return &HTTPGetter{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

func (g *HTTPGetter) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

type Fetcher struct {
	getter Getter
	parser *Parser
}

func NewFetcher(getter Getter, parser *Parser) *Fetcher {
	return &Fetcher{
		getter: getter,
		parser: parser,
	}
}

type sourceResult struct {
	articles []Article
	warning  *Warning
}

// Run fetches every source concurrently and waits for all of them. A failing
// source contributes one warning and no articles; results keep source order.
func (f *Fetcher) Run(ctx context.Context, sources []Source, limitPerFeed int) Result {
	slots := make([]sourceResult, len(sources))

	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source Source) {
			defer wg.Done()
			slots[i] = f.fetchSource(ctx, source, limitPerFeed)
		}(i, source)
	}
	wg.Wait()

	result := Result{
		Articles: []Article{},
		Warnings: []Warning{},
	}
	for _, slot := range slots {
		result.Articles = append(result.Articles, slot.articles...)
		if slot.warning != nil {
			result.Warnings = append(result.Warnings, *slot.warning)
		}
	}

	return result
}

func (f *Fetcher) fetchSource(ctx context.Context, source Source, limitPerFeed int) sourceResult {
	start := time.Now()

	items, err := f.fetchItems(ctx, source.URL)
	if err != nil {
		slog.Debug("Feed fetch failed", "category", source.Category, "source", source.Name, "url", source.URL, "error", err)
		return sourceResult{
			warning: &Warning{
				Category: source.Category,
				Source:   source.Name,
				URL:      source.URL,
				Message:  err.Error(),
			},
		}
	}

	if limitPerFeed > 0 && len(items) > limitPerFeed {
		items = items[:limitPerFeed]
	}

	articles := make([]Article, 0, len(items))
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = placeholderTitle
		}
		articles = append(articles, Article{
			Category:    source.Category,
			Source:      source.Name,
			Title:       title,
			Link:        item.Link,
			PublishedAt: item.PublishedAt,
		})
	}

	slog.Debug("Feed fetched",
		"category", source.Category,
		"source", source.Name,
		"articles", len(articles),
		"duration", time.Since(start))

	return sourceResult{articles: articles}
}

func (f *Fetcher) fetchItems(ctx context.Context, url string) ([]Item, error) {
	data, err := f.getter.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	return f.parser.Run(data)
}
