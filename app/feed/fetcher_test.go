package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

// getterFunc adapts a function to Getter.
type getterFunc func(ctx context.Context, url string) ([]byte, error)

func (f getterFunc) Get(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

func rssWithItems(prefix string, count int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>` + prefix + `</title>`)
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&b, `<item><title>%s-%d</title><link>https://example.com/%s/%d</link><pubDate>Fri, 01 Jan 2026 0%d:00:00 GMT</pubDate></item>`,
			prefix, i, prefix, i, i)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func articleTitles(articles []Article) []string {
	out := make([]string, 0, len(articles))
	for _, article := range articles {
		out = append(out, article.Title)
	}
	return out
}

func TestFetcherKeepsSourceOrderAndRespectsLimit(t *testing.T) {
	sources := []Source{
		{Category: "Japan", Name: "Source A", URL: "https://example.com/a.xml"},
		{Category: "Japan", Name: "Source B", URL: "https://example.com/b.xml"},
	}

	// Source A answers last so completion order differs from source order.
	getter := getterFunc(func(ctx context.Context, url string) ([]byte, error) {
		if strings.HasSuffix(url, "/a.xml") {
			time.Sleep(50 * time.Millisecond)
			return []byte(rssWithItems("A", 3)), nil
		}
		return []byte(rssWithItems("B", 1)), nil
	})

	result := NewFetcher(getter, NewParser()).Run(context.Background(), sources, 2)

	if len(result.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %+v", result.Warnings)
	}
	if got := articleTitles(result.Articles); !reflect.DeepEqual(got, []string{"A-1", "A-2", "B-1"}) {
		t.Errorf("Expected [A-1 A-2 B-1], got %v", got)
	}
	if result.Articles[0].Category != "Japan" || result.Articles[0].Source != "Source A" {
		t.Errorf("Expected Japan/Source A, got %s/%s", result.Articles[0].Category, result.Articles[0].Source)
	}
	if result.Articles[0].PublishedAt != "Fri, 01 Jan 2026 01:00:00 GMT" {
		t.Errorf("Expected untouched pubDate, got '%s'", result.Articles[0].PublishedAt)
	}
}

func TestFetcherReturnsWarningWhenOneFeedFails(t *testing.T) {
	sources := []Source{
		{Category: "Japan", Name: "Source A", URL: "https://example.com/a.xml"},
		{Category: "Japan", Name: "Source B", URL: "https://example.com/b.xml"},
		{Category: "Others", Name: "Source C", URL: "https://example.com/c.xml"},
	}

	getter := getterFunc(func(ctx context.Context, url string) ([]byte, error) {
		switch {
		case strings.HasSuffix(url, "/a.xml"):
			return nil, errors.New("request failed")
		case strings.HasSuffix(url, "/c.xml"):
			return []byte("not a feed"), nil
		}
		return []byte(`<rss version="2.0"><channel><item><link>https://example.com/b/1</link></item></channel></rss>`), nil
	})

	result := NewFetcher(getter, NewParser()).Run(context.Background(), sources, 3)

	expectedArticles := []Article{
		{Category: "Japan", Source: "Source B", Title: "No Title", Link: "https://example.com/b/1"},
	}
	if !reflect.DeepEqual(result.Articles, expectedArticles) {
		t.Errorf("Expected %+v, got %+v", expectedArticles, result.Articles)
	}

	if len(result.Warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %d", len(result.Warnings))
	}
	expectedWarning := Warning{
		Category: "Japan",
		Source:   "Source A",
		URL:      "https://example.com/a.xml",
		Message:  "request failed",
	}
	if result.Warnings[0] != expectedWarning {
		t.Errorf("Expected %+v, got %+v", expectedWarning, result.Warnings[0])
	}
	if result.Warnings[1].Source != "Source C" || result.Warnings[1].Message == "" {
		t.Errorf("Expected parse failure warning for Source C, got %+v", result.Warnings[1])
	}
}

func TestFetcherWithNoSources(t *testing.T) {
	result := NewFetcher(getterFunc(func(ctx context.Context, url string) ([]byte, error) {
		t.Error("Expected no requests")
		return nil, nil
	}), NewParser()).Run(context.Background(), nil, 3)

	if result.Articles == nil || result.Warnings == nil {
		t.Error("Expected empty non-nil slices")
	}
}

func TestHTTPGetter(t *testing.T) {
	var mu sync.Mutex
	var userAgents []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		userAgents = append(userAgents, r.Header.Get("User-Agent"))
		mu.Unlock()
		if r.URL.Path == "/missing.xml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssWithItems("H", 2))
	}))
	defer server.Close()

	getter := NewHTTPGetter(5*time.Second, "news-cli/test")
	fetcher := NewFetcher(getter, NewParser())

	sources := []Source{
		{Category: "Others", Name: "Feed", URL: server.URL + "/feed.xml"},
		{Category: "Others", Name: "Missing", URL: server.URL + "/missing.xml"},
	}
	result := fetcher.Run(context.Background(), sources, 5)

	if got := articleTitles(result.Articles); !reflect.DeepEqual(got, []string{"H-1", "H-2"}) {
		t.Errorf("Expected [H-1 H-2], got %v", got)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0].Message, "404") {
		t.Errorf("Expected a 404 warning, got %+v", result.Warnings)
	}
	mu.Lock()
	defer mu.Unlock()
	for _, userAgent := range userAgents {
		if userAgent != "news-cli/test" {
			t.Errorf("Expected user agent 'news-cli/test', got '%s'", userAgent)
		}
	}
}
