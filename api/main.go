package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DeafMist/newsdesk/internal/config"
	"github.com/DeafMist/newsdesk/internal/dedupe"
	"github.com/DeafMist/newsdesk/internal/events"
	"github.com/DeafMist/newsdesk/internal/logger"
	"github.com/DeafMist/newsdesk/internal/mocknews"
	"github.com/DeafMist/newsdesk/internal/news"
	"github.com/DeafMist/newsdesk/internal/newsapi"
	"github.com/DeafMist/newsdesk/internal/scheduler"
	"github.com/DeafMist/newsdesk/internal/store"
	"github.com/DeafMist/newsdesk/internal/theme"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	upstream := newsapi.New(newsapi.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.APIURL,
		Timeout: cfg.APITimeout,
	}, log)
	if !upstream.HasCredential() {
		log.Warn("NEWS_API_KEY not set, serving mock data")
	}
	mock := mocknews.New(mocknews.WithDelay(cfg.MockDelay), mocknews.WithDataset(cfg.MockDataset))
	client := news.NewClient(upstream, mock, log)

	opts := []store.Option{
		store.WithLogger(log),
		store.WithHeadlines(cfg.Country, cfg.PageSize),
		store.WithSearch(cfg.Language, cfg.PageSize),
	}
	if cfg.Events.Enabled() {
		writer := events.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		publisher := events.NewPublisher(writer, dedupe.NewCache(cfg.DedupeCapacity, cfg.DedupeTTL), log)
		defer publisher.Close()
		opts = append(opts, store.WithNotifier(publisher))
		log.Info("update events enabled", slog.String("topic", cfg.KafkaTopic))
	}
	newsStore := store.New(client, scheduler.New(log), opts...)

	themes := theme.New(theme.WithOnChange(func(t theme.Theme) {
		log.Debug("theme changed", slog.String("theme", string(t)))
	}))
	themes.Init(cfg.Theme, false)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := newsStore.FetchNews(ctx, store.DefaultCategory); err != nil {
		log.Warn("initial fetch failed", slog.Any("err", err))
	}
	if cfg.AutoRefresh {
		newsStore.StartAutoRefresh(cfg.RefreshInterval)
	} else if newsStore.Snapshot().AutoRefresh {
		newsStore.ToggleAutoRefresh()
	}
	defer newsStore.StopAutoRefresh()

	srv := &server{log: log, news: newsStore, themes: themes}
	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
	}

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}
