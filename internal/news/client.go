// Package news prefers live upstream data and falls back to the mock source when
// the upstream is unconfigured, empty or failing.
package news

import (
	"context"
	"io"
	"log/slog"

	"github.com/DeafMist/newsdesk/internal/models"
)

// Upstream is the live data source.
type Upstream interface {
	HasCredential() bool
	TopHeadlines(ctx context.Context, q models.HeadlinesQuery) (*models.FetchResult, error)
	Everything(ctx context.Context, q models.SearchQuery) (*models.FetchResult, error)
}

// Fallback is the mock data source.
type Fallback interface {
	Headlines(ctx context.Context) (*models.FetchResult, error)
	Search(ctx context.Context, query string) (*models.FetchResult, error)
}

// Client applies the live-then-mock policy to both query shapes.
type Client struct {
	upstream Upstream
	mock     Fallback
	log      *slog.Logger
}

// NewClient wires an upstream and its fallback.
func NewClient(upstream Upstream, mock Fallback, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{upstream: upstream, mock: mock, log: logger}
}

// Headlines returns top headlines for q.
func (c *Client) Headlines(ctx context.Context, q models.HeadlinesQuery) (*models.FetchResult, error) {
	return c.fetch(ctx, "headlines",
		func(ctx context.Context) (*models.FetchResult, error) { return c.upstream.TopHeadlines(ctx, q) },
		c.mock.Headlines,
		slog.String("country", q.Country),
		slog.String("category", q.Category),
	)
}

// Search returns articles matching q.Q.
func (c *Client) Search(ctx context.Context, q models.SearchQuery) (*models.FetchResult, error) {
	return c.fetch(ctx, "search",
		func(ctx context.Context) (*models.FetchResult, error) { return c.upstream.Everything(ctx, q) },
		func(ctx context.Context) (*models.FetchResult, error) { return c.mock.Search(ctx, q.Q) },
		slog.String("q", q.Q),
	)
}

type fetchFunc func(ctx context.Context) (*models.FetchResult, error)

func (c *Client) fetch(ctx context.Context, op string, live, mock fetchFunc, attrs ...any) (*models.FetchResult, error) {
	log := c.log.With(slog.String("op", op)).With(attrs...)

	if !c.upstream.HasCredential() {
		log.Warn("NEWS_API_KEY not configured, using mock data")
		return mock(ctx)
	}

	res, err := live(ctx)
	if err != nil {
		log.Warn("upstream failed, using mock data", slog.Any("err", err))
		fallback, mockErr := mock(ctx)
		if mockErr != nil {
			log.Error("mock fallback failed too", slog.Any("err", mockErr))
			return nil, err
		}
		return fallback, nil
	}

	if res == nil || len(res.Articles) == 0 {
		log.Warn("upstream returned no articles, using mock data")
		return mock(ctx)
	}

	log.Info("live data loaded", slog.Int("articles", len(res.Articles)))
	return res, nil
}
