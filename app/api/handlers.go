package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/news-cli/app/datekey"
	"github.com/lysyi3m/news-cli/app/feed"
	"github.com/lysyi3m/news-cli/app/news"
	"github.com/lysyi3m/news-cli/app/storage"
	"github.com/lysyi3m/news-cli/app/tasks"
)

func NewHandler(loader NewsLoader, scheduler tasks.TaskSchedulerInterface, defaults Defaults) *Handler {
	return &Handler{
		loader:    loader,
		scheduler: scheduler,
		defaults:  defaults,
		now:       time.Now,
	}
}

func (h *Handler) GetNews(c *gin.Context) {
	view, ok := h.loadView(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetNewsRSS renders the same view as GetNews as an RSS 2.0 channel.
func (h *Handler) GetNewsRSS(c *gin.Context) {
	view, ok := h.loadView(c)
	if !ok {
		return
	}

	title := "news"
	if len(view.Filters) > 0 {
		title = "news: " + strings.Join(view.Filters, ", ")
	}

	buildDate, err := time.Parse(time.RFC3339Nano, view.UpdatedAt)
	if err != nil {
		buildDate = h.now()
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	base := scheme + "://" + c.Request.Host

	rss := feed.NewGenerator().Run(feed.Channel{
		Title:       title,
		Link:        base + "/",
		Description: "Headlines for " + view.Date,
		SelfLink:    base + c.Request.URL.RequestURI(),
		Generator:   "news/" + h.defaults.Version,
		BuildDate:   buildDate,
	}, view.Articles)

	c.Header("X-Feed-Items", strconv.Itoa(len(view.Articles)))
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

// loadView parses the shared /news query parameters and loads the view.
// On failure it writes the error response and returns false.
func (h *Handler) loadView(c *gin.Context) (*news.View, bool) {
	query := news.Query{
		OPMLPath:     h.defaults.OPMLPath,
		CacheTTL:     h.defaults.CacheTTL,
		LimitPerFeed: h.defaults.LimitPerFeed,
		Categories:   news.SplitCategories(c.Query("category")),
	}

	if date := c.Query("date"); date != "" {
		if err := datekey.Validate(date); err != nil {
			message := "date format must be yyyy-mm-dd"
			if errors.Is(err, datekey.ErrCalendar) {
				message = "date must be a valid calendar date"
			}
			c.JSON(http.StatusBadRequest, errorResponse{Error: message})
			return nil, false
		}
		query.DateKey = date
	}

	if limit := c.Query("limit"); limit != "" {
		value, err := strconv.Atoi(limit)
		if err != nil || value <= 0 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return nil, false
		}
		query.LimitPerFeed = value
	}

	if sync := c.Query("sync"); sync != "" {
		value, err := strconv.ParseBool(sync)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "sync must be a boolean"})
			return nil, false
		}
		query.ForceSync = value
	}

	view, err := h.loader.LoadView(c.Request.Context(), query)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("Failed to load news", "date", query.DateKey, "error", err)
		}
		c.JSON(status, errorResponse{Error: err.Error()})
		return nil, false
	}

	cacheStatus := "miss"
	if view.FromCache {
		cacheStatus = "hit"
	}
	c.Header("X-News-Cache", cacheStatus)
	c.Header("X-News-Articles", strconv.Itoa(len(view.Articles)))
	c.Header("X-Last-Updated", view.UpdatedAt)

	return view, true
}

// PostSync queues a forced sync of today and returns immediately.
func (h *Handler) PostSync(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "background tasks are disabled"})
		return
	}

	limit := h.defaults.LimitPerFeed
	if value := c.Query("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	task := tasks.NewRefreshNewsTask(h.loader, news.Options{
		OPMLPath:     h.defaults.OPMLPath,
		ForceSync:    true,
		LimitPerFeed: limit,
		CacheTTL:     h.defaults.CacheTTL,
	})

	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing sync task", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue sync task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"date":    h.loader.Today(),
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	now := h.now()
	today := h.loader.Today()

	snapshot := gin.H{"exists": false, "fresh": false}
	cached, err := h.loader.Store().Load(today)
	if err != nil {
		slog.Error("Failed to read snapshot", "date", today, "error", err)
		snapshot["error"] = err.Error()
	} else if cached != nil {
		snapshot["exists"] = true
		snapshot["fresh"] = storage.IsFresh(cached, h.defaults.CacheTTL, now)
		snapshot["updated_at"] = cached.UpdatedAt
		snapshot["articles"] = len(cached.Articles)
	}

	health := gin.H{
		"timestamp": now.In(time.Local).Format(time.RFC3339),
		"today":     today,
		"snapshot":  snapshot,
	}

	if h.scheduler != nil {
		stats := h.scheduler.GetStats()
		status := "healthy"
		if stats.TotalProcessed > 0 && stats.TotalErrors*2 >= stats.TotalProcessed {
			status = "degraded"
		}
		health["status"] = status
		health["scheduler"] = stats
	}

	c.JSON(http.StatusOK, health)
}

// errorStatus maps loader errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, datekey.ErrFormat), errors.Is(err, datekey.ErrCalendar):
		return http.StatusBadRequest
	case errors.Is(err, news.ErrNoSnapshot):
		return http.StatusNotFound
	case errors.Is(err, news.ErrSyncNotAllowed):
		return http.StatusConflict
	case errors.Is(err, feed.ErrNoFeedSources):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
