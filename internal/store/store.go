// Package store holds the article list shown to UI collaborators and keeps it fresh.
//
// The store owns its state exclusively: every mutation goes through FetchNews,
// SearchNews or the auto-refresh controls, and readers only ever get copies via
// Snapshot. Fetches are not serialized against each other, so when two overlap the
// one that completes last replaces the articles.
package store

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DeafMist/newsdesk/internal/models"
	"github.com/DeafMist/newsdesk/internal/processing"
)

const (
	DefaultCategory        = "general"
	DefaultRefreshInterval = 5 * time.Minute
	DefaultCountry         = "br"
	DefaultLanguage        = "pt"
	DefaultPageSize        = 20
)

// Fetcher produces article payloads. news.Client satisfies it.
type Fetcher interface {
	Headlines(ctx context.Context, q models.HeadlinesQuery) (*models.FetchResult, error)
	Search(ctx context.Context, q models.SearchQuery) (*models.FetchResult, error)
}

// Timer is a handle to a recurring job.
type Timer interface {
	Stop()
}

// Scheduler starts recurring jobs.
type Scheduler interface {
	Every(d time.Duration, fn func()) Timer
}

// Notifier is told about every wholesale replacement of the article list.
type Notifier interface {
	Notify(ctx context.Context, u models.Update) error
}

// Snapshot is a point-in-time copy of the store state.
type Snapshot struct {
	Articles    []models.Article `json:"articles"`
	Loading     bool             `json:"loading"`
	Error       string           `json:"error,omitempty"`
	LastUpdated *time.Time       `json:"lastUpdated"`
	AutoRefresh bool             `json:"autoRefresh"`

	ArticlesCount int  `json:"articlesCount"`
	IsRefreshing  bool `json:"isRefreshing"`
	HasError      bool `json:"hasError"`
}

// Store is the news state store.
type Store struct {
	client   Fetcher
	sched    Scheduler
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time

	headlines models.HeadlinesQuery
	search    models.SearchQuery

	mu          sync.RWMutex
	articles    []models.Article
	inflight    int
	err         string
	lastUpdated time.Time
	autoRefresh bool
	timer       Timer
}

// Option tweaks a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithNotifier registers a receiver for article list updates.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithHeadlines sets the fixed region and page size of headline queries.
func WithHeadlines(country string, pageSize int) Option {
	return func(s *Store) {
		s.headlines.Country = country
		s.headlines.PageSize = pageSize
	}
}

// WithSearch sets the language and page size of search queries.
func WithSearch(language string, pageSize int) Option {
	return func(s *Store) {
		s.search.Language = language
		s.search.PageSize = pageSize
	}
}

// New creates a store with no articles and auto-refresh enabled.
// sched is used by StartAutoRefresh and must not be nil.
func New(client Fetcher, sched Scheduler, opts ...Option) *Store {
	s := &Store{
		client:      client,
		sched:       sched,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
		headlines:   models.HeadlinesQuery{Country: DefaultCountry, PageSize: DefaultPageSize},
		search:      models.SearchQuery{Language: DefaultLanguage, PageSize: DefaultPageSize},
		articles:    []models.Article{},
		autoRefresh: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchNews loads top headlines for category, "general" when empty.
// On failure the previous articles are kept and the error message is recorded.
func (s *Store) FetchNews(ctx context.Context, category string) error {
	if category == "" {
		category = DefaultCategory
	}
	q := s.headlines
	q.Category = category

	s.begin()
	defer s.end()

	s.log.Info("fetching news", slog.String("category", category))
	res, err := s.client.Headlines(ctx, q)
	if err != nil {
		s.fail("fetch news", err)
		return err
	}

	s.replace(ctx, res, models.Update{Operation: models.OperationHeadlines, Category: category})
	return nil
}

// SearchNews loads articles matching query. Same guarantees as FetchNews.
func (s *Store) SearchNews(ctx context.Context, query string) error {
	q := s.search
	q.Q = query

	s.begin()
	defer s.end()

	s.log.Info("searching news", slog.String("q", query))
	res, err := s.client.Search(ctx, q)
	if err != nil {
		s.fail("search news", err)
		return err
	}

	s.replace(ctx, res, models.Update{Operation: models.OperationSearch, Query: query})
	return nil
}

// StartAutoRefresh replaces any running refresh timer. When auto-refresh is enabled a
// new timer calls FetchNews with the default category every interval.
// A non-positive interval means DefaultRefreshInterval.
func (s *Store) StartAutoRefresh(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	if !s.autoRefresh {
		return
	}
	s.timer = s.sched.Every(interval, s.refresh)
	s.log.Info("auto refresh started", slog.Duration("interval", interval))
}

// StopAutoRefresh cancels the refresh timer if one is running.
func (s *Store) StopAutoRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopTimerLocked() {
		s.log.Info("auto refresh stopped")
	}
}

// ToggleAutoRefresh flips the auto-refresh flag and starts or stops the timer to match.
// It returns the new flag value.
func (s *Store) ToggleAutoRefresh() bool {
	s.mu.Lock()
	s.autoRefresh = !s.autoRefresh
	enabled := s.autoRefresh
	s.mu.Unlock()

	if enabled {
		s.StartAutoRefresh(DefaultRefreshInterval)
	} else {
		s.StopAutoRefresh()
	}
	return enabled
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Articles:      slices.Clone(s.articles),
		Loading:       s.inflight > 0,
		Error:         s.err,
		AutoRefresh:   s.autoRefresh,
		ArticlesCount: len(s.articles),
		IsRefreshing:  s.inflight > 0,
		HasError:      s.err != "",
	}
	if !s.lastUpdated.IsZero() {
		ts := s.lastUpdated
		snap.LastUpdated = &ts
	}
	return snap
}

// ArticlesCount returns the number of articles held.
func (s *Store) ArticlesCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.articles)
}

// IsRefreshing reports whether any fetch or search is in flight.
func (s *Store) IsRefreshing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// HasError reports whether the last failed operation left an error message.
func (s *Store) HasError() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err != ""
}

// AutoRefreshActive reports whether a refresh timer is currently running.
func (s *Store) AutoRefreshActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timer != nil
}

func (s *Store) refresh() {
	_ = s.FetchNews(context.Background(), DefaultCategory)
}

func (s *Store) begin() {
	s.mu.Lock()
	s.inflight++
	s.err = ""
	s.mu.Unlock()
}

func (s *Store) end() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

func (s *Store) fail(op string, err error) {
	s.log.Error(op, slog.Any("err", err))

	s.mu.Lock()
	s.err = err.Error()
	s.mu.Unlock()
}

func (s *Store) replace(ctx context.Context, res *models.FetchResult, u models.Update) {
	now := s.now()

	articles := []models.Article{}
	if res != nil {
		articles = processing.NormalizeAll(res.Articles, now)
	}

	s.mu.Lock()
	s.articles = articles
	s.lastUpdated = now
	s.mu.Unlock()

	s.log.Info("articles replaced",
		slog.String("operation", string(u.Operation)),
		slog.Int("count", len(articles)),
	)

	if s.notifier == nil {
		return
	}

	u.ID = uuid.NewString()
	u.Count = len(articles)
	u.Digest = processing.Digest(articles)
	u.UpdatedAt = now.UTC()
	if err := s.notifier.Notify(ctx, u); err != nil {
		s.log.Warn("notify update", slog.Any("err", err))
	}
}

func (s *Store) stopTimerLocked() bool {
	if s.timer == nil {
		return false
	}
	s.timer.Stop()
	s.timer = nil
	return true
}
