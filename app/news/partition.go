package news

import (
	"github.com/lysyi3m/news-cli/app/datekey"
	"github.com/lysyi3m/news-cli/app/feed"
)

// PartitionKey is the date partition an article belongs to: its resolved
// published date, or fallback when it carries no usable timestamp.
func PartitionKey(article feed.Article, fallback string) string {
	if key, ok := datekey.Resolve(article.PublishedAt); ok {
		return key
	}
	return fallback
}

// GroupByPublishedDate buckets articles by PartitionKey. keys lists the
// buckets in first-seen order; input order is kept inside each bucket.
func GroupByPublishedDate(articles []feed.Article, fallback string) (groups map[string][]feed.Article, keys []string) {
	groups = make(map[string][]feed.Article)

	for _, article := range articles {
		key := PartitionKey(article, fallback)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], article)
	}

	return groups, keys
}

// FilterByPartition keeps the articles whose PartitionKey is dateKey.
func FilterByPartition(articles []feed.Article, dateKey string) []feed.Article {
	filtered := make([]feed.Article, 0, len(articles))
	for _, article := range articles {
		if PartitionKey(article, dateKey) == dateKey {
			filtered = append(filtered, article)
		}
	}
	return filtered
}

type feedKey struct {
	category string
	source   string
}

// ApplyPerFeedLimit keeps at most limit articles per (category, source)
// pair, earliest first. A non-positive limit keeps everything.
func ApplyPerFeedLimit(articles []feed.Article, limit int) []feed.Article {
	if limit <= 0 {
		return append([]feed.Article{}, articles...)
	}

	counts := make(map[feedKey]int)
	limited := make([]feed.Article, 0, len(articles))
	for _, article := range articles {
		key := feedKey{category: article.Category, source: article.Source}
		if counts[key] >= limit {
			continue
		}
		counts[key]++
		limited = append(limited, article)
	}
	return limited
}
