package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/DeafMist/newsdesk/internal/config"
	"github.com/DeafMist/newsdesk/internal/logger"
	"github.com/DeafMist/newsdesk/internal/mocknews"
	"github.com/DeafMist/newsdesk/internal/news"
	"github.com/DeafMist/newsdesk/internal/newsapi"
	"github.com/DeafMist/newsdesk/internal/scheduler"
	"github.com/DeafMist/newsdesk/internal/store"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	log := logger.NewWithWriter(os.Stderr, "fetch")
	os.Exit(run(ctx, os.Args[1:], os.Stdout, log))
}

func run(ctx context.Context, args []string, out io.Writer, log *slog.Logger) int {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	category := fs.String("category", store.DefaultCategory, "headline category")
	query := fs.String("q", "", "search query; runs a search instead of headlines")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadFetch()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		return 1
	}

	upstream := newsapi.New(newsapi.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.APIURL,
		Timeout: cfg.APITimeout,
	}, log)
	mock := mocknews.New(mocknews.WithDelay(cfg.MockDelay), mocknews.WithDataset(cfg.MockDataset))
	s := store.New(news.NewClient(upstream, mock, log), scheduler.New(log),
		store.WithLogger(log),
		store.WithHeadlines(cfg.Country, cfg.PageSize),
		store.WithSearch(cfg.Language, cfg.PageSize),
	)

	if *query != "" {
		err = s.SearchNews(ctx, *query)
	} else {
		err = s.FetchNews(ctx, *category)
	}
	if err != nil {
		log.Error("fetch failed", slog.Any("err", err))
		return 1
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Snapshot()); err != nil {
		log.Error("write output", slog.Any("err", err))
		return 1
	}
	return 0
}
