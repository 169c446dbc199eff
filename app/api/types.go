package api

import (
	"context"
	"time"

	"github.com/lysyi3m/news-cli/app/news"
	"github.com/lysyi3m/news-cli/app/storage"
	"github.com/lysyi3m/news-cli/app/tasks"
)

// NewsLoader is satisfied by *news.Loader.
type NewsLoader interface {
	LoadView(ctx context.Context, q news.Query) (*news.View, error)
	Load(ctx context.Context, opts news.Options) (*news.Loaded, error)
	Today() string
	Store() *storage.Store
}

var _ NewsLoader = (*news.Loader)(nil)

// Defaults are applied to requests that leave a parameter out.
type Defaults struct {
	OPMLPath     string
	CacheTTL     time.Duration
	LimitPerFeed int
	Version      string
}

type Handler struct {
	loader    NewsLoader
	scheduler tasks.TaskSchedulerInterface
	defaults  Defaults
	now       func() time.Time
}

type errorResponse struct {
	Error string `json:"error"`
}
