package storage

import (
	"time"

	"github.com/lysyi3m/news-cli/app/feed"
)

const (
	SchemaVersion = 1
	fileName      = "news.json"

	// TimestampLayout matches the ISO-8601 form written for updatedAt.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Snapshot is the persisted set of articles for one date partition.
type Snapshot struct {
	Version      int            `json:"version"`
	SnapshotDate string         `json:"snapshotDate,omitempty"`
	OPMLPath     string         `json:"opmlPath"`
	LimitPerFeed int            `json:"limitPerFeed"`
	UpdatedAt    string         `json:"updatedAt"`
	Categories   []string       `json:"categories"`
	Articles     []feed.Article `json:"articles"`
}

// IsFresh reports whether the snapshot was updated less than ttl before now.
// An unparsable updatedAt is always stale.
func IsFresh(snapshot *Snapshot, ttl time.Duration, now time.Time) bool {
	if snapshot == nil {
		return false
	}

	updatedAt, err := time.Parse(time.RFC3339Nano, snapshot.UpdatedAt)
	if err != nil {
		return false
	}

	return now.Sub(updatedAt) < ttl
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// rawSnapshot mirrors Snapshot with pointers so missing fields are detectable.
type rawSnapshot struct {
	Version      *int          `json:"version"`
	SnapshotDate *string       `json:"snapshotDate"`
	OPMLPath     *string       `json:"opmlPath"`
	LimitPerFeed *int          `json:"limitPerFeed"`
	UpdatedAt    *string       `json:"updatedAt"`
	Categories   []*string     `json:"categories"`
	Articles     []*rawArticle `json:"articles"`
}

type rawArticle struct {
	Category    *string `json:"category"`
	Source      *string `json:"source"`
	Title       *string `json:"title"`
	Link        *string `json:"link"`
	PublishedAt *string `json:"publishedAt"`
}

func (r *rawSnapshot) toSnapshot(dateKey string) (*Snapshot, bool) {
	if r.Version == nil || *r.Version != SchemaVersion {
		return nil, false
	}
	if r.OPMLPath == nil || r.LimitPerFeed == nil || r.UpdatedAt == nil {
		return nil, false
	}
	if r.Categories == nil || r.Articles == nil {
		return nil, false
	}

	snapshot := &Snapshot{
		Version:      SchemaVersion,
		OPMLPath:     *r.OPMLPath,
		LimitPerFeed: *r.LimitPerFeed,
		UpdatedAt:    *r.UpdatedAt,
		Categories:   make([]string, 0, len(r.Categories)),
		Articles:     make([]feed.Article, 0, len(r.Articles)),
	}

	if r.SnapshotDate != nil {
		if *r.SnapshotDate != dateKey {
			return nil, false
		}
		snapshot.SnapshotDate = *r.SnapshotDate
	}

	for _, category := range r.Categories {
		if category == nil {
			return nil, false
		}
		snapshot.Categories = append(snapshot.Categories, *category)
	}

	for _, article := range r.Articles {
		if article == nil || article.Category == nil || article.Source == nil ||
			article.Title == nil || article.Link == nil {
			return nil, false
		}

		converted := feed.Article{
			Category: *article.Category,
			Source:   *article.Source,
			Title:    *article.Title,
			Link:     *article.Link,
		}
		if article.PublishedAt != nil {
			converted.PublishedAt = *article.PublishedAt
		}
		snapshot.Articles = append(snapshot.Articles, converted)
	}

	return snapshot, true
}
