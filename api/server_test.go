package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/newsdesk/internal/mocknews"
	"github.com/DeafMist/newsdesk/internal/models"
	"github.com/DeafMist/newsdesk/internal/news"
	"github.com/DeafMist/newsdesk/internal/newsapi"
	"github.com/DeafMist/newsdesk/internal/store"
	"github.com/DeafMist/newsdesk/internal/theme"
)

type noopTimer struct{}

func (noopTimer) Stop() {}

type noopScheduler struct{}

func (noopScheduler) Every(time.Duration, func()) store.Timer { return noopTimer{} }

type failingFallback struct{}

func (failingFallback) Headlines(context.Context) (*models.FetchResult, error) {
	return nil, errors.New("mock unavailable")
}

func (failingFallback) Search(context.Context, string) (*models.FetchResult, error) {
	return nil, errors.New("mock unavailable")
}

func newTestServer(t *testing.T, fallback news.Fallback, upstreamURL, apiKey string) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	upstream := newsapi.New(newsapi.Config{APIKey: apiKey, BaseURL: upstreamURL}, log)
	client := news.NewClient(upstream, fallback, log)
	srv := &server{
		log:    log,
		news:   store.New(client, noopScheduler{}, store.WithLogger(log)),
		themes: theme.New(),
	}
	return srv.routes()
}

func mockServer(t *testing.T) http.Handler {
	return newTestServer(t, mocknews.New(mocknews.WithDelay(0)), "", "")
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	rec := do(t, mockServer(t), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, rec))
}

func TestSnapshotBeforeAnyFetch(t *testing.T) {
	rec := do(t, mockServer(t), http.MethodGet, "/news", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decode[store.Snapshot](t, rec)
	require.Empty(t, snap.Articles)
	require.Nil(t, snap.LastUpdated)
	require.True(t, snap.AutoRefresh)
	require.Contains(t, rec.Body.String(), `"lastUpdated":null`)
}

func TestRefreshServesMockWithoutKey(t *testing.T) {
	h := mockServer(t)

	rec := do(t, h, http.MethodPost, "/news/refresh?category=technology", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decode[store.Snapshot](t, rec)
	require.Len(t, snap.Articles, 3)
	require.Equal(t, 3, snap.ArticlesCount)
	require.False(t, snap.HasError)
	require.NotNil(t, snap.LastUpdated)

	again := decode[store.Snapshot](t, do(t, h, http.MethodGet, "/news", nil))
	require.Equal(t, snap.Articles, again.Articles)
}

func TestRefreshFailureReturnsBadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer upstream.Close()

	h := newTestServer(t, failingFallback{}, upstream.URL, "bad-key")

	rec := do(t, h, http.MethodPost, "/news/refresh", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, errorResponse{Error: "invalid or expired API key"}, decode[errorResponse](t, rec))

	snap := decode[store.Snapshot](t, do(t, h, http.MethodGet, "/news", nil))
	require.True(t, snap.HasError)
	require.Equal(t, "invalid or expired API key", snap.Error)
	require.False(t, snap.Loading)
}

func TestSearch(t *testing.T) {
	h := mockServer(t)

	rec := do(t, h, http.MethodGet, "/news/search?q=brasil", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decode[store.Snapshot](t, rec)
	require.Len(t, snap.Articles, 3)
	require.Contains(t, snap.Articles[0].Title, "brasil")
}

func TestSearchRequiresQuery(t *testing.T) {
	h := mockServer(t)

	for _, target := range []string{"/news/search", "/news/search?q=%20%20"} {
		rec := do(t, h, http.MethodGet, target, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestSearchFailureReturnsBadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	h := newTestServer(t, failingFallback{}, upstream.URL, "key")

	rec := do(t, h, http.MethodGet, "/news/search?q=go", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "rate limited, retry later", decode[errorResponse](t, rec).Error)
}

func TestToggleAutoRefresh(t *testing.T) {
	h := mockServer(t)

	snap := decode[store.Snapshot](t, do(t, h, http.MethodPost, "/news/auto-refresh/toggle", nil))
	require.False(t, snap.AutoRefresh)

	snap = decode[store.Snapshot](t, do(t, h, http.MethodPost, "/news/auto-refresh/toggle", nil))
	require.True(t, snap.AutoRefresh)
}

func TestTheme(t *testing.T) {
	h := mockServer(t)

	got := decode[themeBody](t, do(t, h, http.MethodGet, "/theme", nil))
	require.Equal(t, theme.Light, got.Theme)

	rec := do(t, h, http.MethodPut, "/theme", strings.NewReader(`{"theme":"dark"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, theme.Dark, decode[themeBody](t, rec).Theme)

	got = decode[themeBody](t, do(t, h, http.MethodPost, "/theme/toggle", nil))
	require.Equal(t, theme.Light, got.Theme)
}

func TestSetThemeRejectsInvalid(t *testing.T) {
	h := mockServer(t)

	for _, body := range []string{`{"theme":"sepia"}`, `not json`, `{}`} {
		rec := do(t, h, http.MethodPut, "/theme", strings.NewReader(body))
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	got := decode[themeBody](t, do(t, h, http.MethodGet, "/theme", nil))
	require.Equal(t, theme.Light, got.Theme)
}
