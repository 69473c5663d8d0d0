package newsapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// loggingTransport writes one record per outbound call and tags it with a request id.
// Headers are never logged, so the API key stays out of the logs.
type loggingTransport struct {
	base http.RoundTripper
	log  *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rid := req.Header.Get("X-Request-Id")
	if rid == "" {
		rid = uuid.NewString()
		req = req.Clone(req.Context())
		req.Header.Set("X-Request-Id", rid)
	}

	l := t.log.With(
		slog.String("request_id", rid),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)
	l.Debug("upstream request")

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		l.Warn("upstream request failed", slog.Any("err", err), slog.Duration("dur", time.Since(start)))
		return nil, err
	}

	level := slog.LevelInfo
	if resp.StatusCode >= http.StatusBadRequest {
		level = slog.LevelWarn
	}
	l.Log(req.Context(), level, "upstream response",
		slog.Int("status", resp.StatusCode),
		slog.Duration("dur", time.Since(start)),
	)
	return resp, nil
}
