package news

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/lysyi3m/news-cli/app/datekey"
	"github.com/lysyi3m/news-cli/app/feed"
	"github.com/lysyi3m/news-cli/app/storage"
)

// Query describes a headline view. An empty DateKey selects the rolling
// view of today followed by yesterday.
type Query struct {
	DateKey      string
	OPMLPath     string
	ForceSync    bool
	LimitPerFeed int
	CacheTTL     time.Duration
	Categories   []string
}

// View merges one or more loaded dates into a single listing.
type View struct {
	FromCache  bool           `json:"fromCache"`
	Date       string         `json:"date"`
	DateKeys   []string       `json:"dateKeys"`
	UpdatedAt  string         `json:"updatedAt"`
	Categories []string       `json:"categories"`
	Articles   []feed.Article `json:"articles"`
	Warnings   []feed.Warning `json:"warnings"`

	Filters []string `json:"-"`
}

type chunk struct {
	dateKey string
	loaded  *Loaded
}

// DefaultDateKeys returns the keys of today and yesterday.
func DefaultDateKeys(now time.Time) []string {
	local := now.In(time.Local)
	return []string{datekey.Format(local), datekey.Format(local.AddDate(0, 0, -1))}
}

// LoadView loads every date the query covers and merges the results.
// Yesterday is never synced and is skipped when it has no snapshot.
func (l *Loader) LoadView(ctx context.Context, q Query) (*View, error) {
	opts := Options{
		DateKey:      q.DateKey,
		OPMLPath:     q.OPMLPath,
		ForceSync:    q.ForceSync,
		LimitPerFeed: q.LimitPerFeed,
		CacheTTL:     q.CacheTTL,
	}

	if q.DateKey != "" {
		loaded, err := l.Load(ctx, opts)
		if err != nil {
			return nil, err
		}
		return buildView([]chunk{{q.DateKey, loaded}}, q.Categories), nil
	}

	keys := DefaultDateKeys(l.Now())
	chunks := make([]chunk, 0, len(keys))

	opts.DateKey = keys[0]
	today, err := l.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	chunks = append(chunks, chunk{keys[0], today})

	opts.DateKey = keys[1]
	opts.ForceSync = false
	yesterday, err := l.Load(ctx, opts)
	switch {
	case errors.Is(err, ErrNoSnapshot):
	case err != nil:
		return nil, err
	default:
		chunks = append(chunks, chunk{keys[1], yesterday})
	}

	return buildView(chunks, q.Categories), nil
}

func buildView(chunks []chunk, filters []string) *View {
	view := &View{
		FromCache:  true,
		DateKeys:   make([]string, 0, len(chunks)),
		Categories: mergeCategoriesInOrder(chunks),
		Articles:   []feed.Article{},
		Warnings:   []feed.Warning{},
		UpdatedAt:  latestUpdatedAt(chunks),
		Filters:    filters,
	}

	for _, c := range chunks {
		view.DateKeys = append(view.DateKeys, c.dateKey)
		view.FromCache = view.FromCache && c.loaded.FromCache
		view.Articles = append(view.Articles, c.loaded.Articles...)
		view.Warnings = append(view.Warnings, c.loaded.Warnings...)
	}

	slices.Sort(view.DateKeys)
	view.Date = strings.Join(view.DateKeys, ", ")

	if len(filters) > 0 {
		match := categoryMatcher(filters)
		view.Categories = slices.DeleteFunc(view.Categories, func(c string) bool { return !match(c) })
		view.Articles = slices.DeleteFunc(view.Articles, func(a feed.Article) bool { return !match(a.Category) })
		view.Warnings = slices.DeleteFunc(view.Warnings, func(w feed.Warning) bool { return !match(w.Category) })
	}

	return view
}

// mergeCategoriesInOrder concatenates category lists, dropping exact repeats.
func mergeCategoriesInOrder(chunks []chunk) []string {
	merged := []string{}
	seen := make(map[string]bool)

	for _, c := range chunks {
		for _, category := range c.loaded.Categories {
			if seen[category] {
				continue
			}
			seen[category] = true
			merged = append(merged, category)
		}
	}

	return merged
}

// latestUpdatedAt picks the newest parseable timestamp, starting from the
// first chunk's value even when that one is unparseable.
func latestUpdatedAt(chunks []chunk) string {
	if len(chunks) == 0 {
		return storage.FormatTimestamp(time.Unix(0, 0))
	}

	latest := chunks[0].loaded.UpdatedAt
	latestAt, latestErr := time.Parse(time.RFC3339Nano, latest)

	for _, c := range chunks[1:] {
		current, err := time.Parse(time.RFC3339Nano, c.loaded.UpdatedAt)
		if err != nil {
			continue
		}
		if latestErr != nil || current.After(latestAt) {
			latest, latestAt, latestErr = c.loaded.UpdatedAt, current, nil
		}
	}

	return latest
}

// NormalizeCategoryFilters trims the filters, drops empty ones and removes
// case-insensitive duplicates keeping the first spelling.
func NormalizeCategoryFilters(values []string) []string {
	fold := cases.Fold()
	seen := make(map[string]bool)
	filters := []string{}

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		key := fold.String(value)
		if seen[key] {
			continue
		}
		seen[key] = true
		filters = append(filters, value)
	}

	return filters
}

// SplitCategories splits a comma separated category list.
func SplitCategories(value string) []string {
	if value == "" {
		return nil
	}
	return NormalizeCategoryFilters(strings.Split(value, ","))
}

func categoryMatcher(filters []string) func(string) bool {
	fold := cases.Fold()
	keys := make(map[string]bool, len(filters))
	for _, filter := range filters {
		keys[fold.String(strings.TrimSpace(filter))] = true
	}

	return func(category string) bool {
		return keys[fold.String(strings.TrimSpace(category))]
	}
}
