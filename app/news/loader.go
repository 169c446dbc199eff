package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/news-cli/app/datekey"
	"github.com/lysyi3m/news-cli/app/feed"
	"github.com/lysyi3m/news-cli/app/storage"
)

var (
	ErrNoSnapshot     = errors.New("no cache snapshot")
	ErrSyncNotAllowed = errors.New("--sync is only supported for today")
)

// SourceReader returns the feed sources and categories of an OPML file.
type SourceReader func(opmlPath string) ([]feed.Source, []string, error)

type ArticleFetcher interface {
	Run(ctx context.Context, sources []feed.Source, limitPerFeed int) feed.Result
}

type Options struct {
	DateKey      string
	OPMLPath     string
	ForceSync    bool
	LimitPerFeed int
	CacheTTL     time.Duration
}

// Loaded is the result of a single Load call.
type Loaded struct {
	FromCache  bool           `json:"fromCache"`
	UpdatedAt  string         `json:"updatedAt"`
	Categories []string       `json:"categories"`
	Articles   []feed.Article `json:"articles"`
	Warnings   []feed.Warning `json:"warnings"`

	// Set only after a live sync.
	FetchedCount int      `json:"-"`
	Partitions   []string `json:"-"`
}

type Loader struct {
	store       *storage.Store
	readSources SourceReader
	fetcher     ArticleFetcher

	// Now is the clock used for "today" and snapshot timestamps.
	Now func() time.Time
}

func NewLoader(store *storage.Store, readSources SourceReader, fetcher ArticleFetcher) *Loader {
	return &Loader{
		store:       store,
		readSources: readSources,
		fetcher:     fetcher,
		Now:         time.Now,
	}
}

func (l *Loader) Store() *storage.Store {
	return l.store
}

// Today returns the current date key.
func (l *Loader) Today() string {
	return datekey.Format(l.Now())
}

// Load serves opts.DateKey from its snapshot when the snapshot may be trusted
// and otherwise syncs from the feeds. Past dates are never synced.
func (l *Loader) Load(ctx context.Context, opts Options) (*Loaded, error) {
	if err := datekey.Validate(opts.DateKey); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", opts.DateKey, err)
	}
	if opts.LimitPerFeed <= 0 {
		return nil, fmt.Errorf("limitPerFeed must be a positive integer, got %d", opts.LimitPerFeed)
	}

	now := l.Now()
	isToday := opts.DateKey == datekey.Format(now)

	cached, err := l.store.Load(opts.DateKey)
	if err != nil {
		return nil, err
	}

	if cached != nil && !opts.ForceSync {
		if !isToday {
			slog.Debug("Serving historical snapshot", "date", opts.DateKey)
			return fromSnapshot(cached, opts), nil
		}

		if l.isReusable(cached, opts, now) {
			slog.Debug("Serving fresh snapshot", "date", opts.DateKey, "updated_at", cached.UpdatedAt)
			return fromSnapshot(cached, opts), nil
		}
	}

	if !isToday {
		if opts.ForceSync {
			return nil, fmt.Errorf("%w. Past dates are cache-only", ErrSyncNotAllowed)
		}
		return nil, fmt.Errorf("%w for %s. Run \"news sync\" to ingest articles into published-date cache", ErrNoSnapshot, opts.DateKey)
	}

	return l.sync(ctx, opts, now)
}

// isReusable checks today's snapshot against the request: same OPML file, a
// cap at least as large as requested, and still inside the TTL.
func (l *Loader) isReusable(cached *storage.Snapshot, opts Options, now time.Time) bool {
	if cached.OPMLPath != opts.OPMLPath {
		slog.Debug("Snapshot built from another OPML file", "cached", cached.OPMLPath, "requested", opts.OPMLPath)
		return false
	}
	if cached.LimitPerFeed < opts.LimitPerFeed {
		slog.Debug("Snapshot cap too small", "cached", cached.LimitPerFeed, "requested", opts.LimitPerFeed)
		return false
	}
	if !storage.IsFresh(cached, opts.CacheTTL, now) {
		slog.Debug("Snapshot is stale", "updated_at", cached.UpdatedAt, "ttl", opts.CacheTTL)
		return false
	}
	return true
}

func (l *Loader) sync(ctx context.Context, opts Options, now time.Time) (*Loaded, error) {
	start := time.Now()

	sources, categories, err := l.readSources(opts.OPMLPath)
	if err != nil {
		return nil, err
	}

	fetched := l.fetcher.Run(ctx, sources, opts.LimitPerFeed)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sync interrupted: %w", err)
	}

	updatedAt := storage.FormatTimestamp(now)
	groups, keys := GroupByPublishedDate(fetched.Articles, opts.DateKey)
	if _, ok := groups[opts.DateKey]; !ok {
		keys = append([]string{opts.DateKey}, keys...)
	}

	for _, key := range keys {
		snapshot := &storage.Snapshot{
			SnapshotDate: key,
			OPMLPath:     opts.OPMLPath,
			LimitPerFeed: opts.LimitPerFeed,
			UpdatedAt:    updatedAt,
			Categories:   categories,
			Articles:     groups[key],
		}
		if err := l.store.Save(key, snapshot); err != nil {
			return nil, fmt.Errorf("failed to save snapshot for %s: %w", key, err)
		}
	}

	articles := groups[opts.DateKey]
	if articles == nil {
		articles = []feed.Article{}
	}
	warnings := fetched.Warnings
	if warnings == nil {
		warnings = []feed.Warning{}
	}

	slog.Info("Sync completed",
		"date", opts.DateKey,
		"sources", len(sources),
		"articles", len(fetched.Articles),
		"partitions", len(keys),
		"warnings", len(fetched.Warnings),
		"duration", time.Since(start))

	return &Loaded{
		FromCache:    false,
		UpdatedAt:    updatedAt,
		Categories:   categories,
		Articles:     articles,
		Warnings:     warnings,
		FetchedCount: len(fetched.Articles),
		Partitions:   keys,
	}, nil
}

func fromSnapshot(cached *storage.Snapshot, opts Options) *Loaded {
	articles := FilterByPartition(cached.Articles, opts.DateKey)

	return &Loaded{
		FromCache:  true,
		UpdatedAt:  cached.UpdatedAt,
		Categories: cached.Categories,
		Articles:   ApplyPerFeedLimit(articles, opts.LimitPerFeed),
		Warnings:   []feed.Warning{},
	}
}
