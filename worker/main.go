package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/newsdesk/internal/config"
	"github.com/DeafMist/newsdesk/internal/dedupe"
	"github.com/DeafMist/newsdesk/internal/events"
	"github.com/DeafMist/newsdesk/internal/logger"
	"github.com/DeafMist/newsdesk/internal/models"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("worker")
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	cache := dedupe.NewCache(cfg.DedupeCapacity, cfg.DedupeTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaTopic,
		GroupID:        cfg.KafkaConsumer,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit only
	})
	defer reader.Close()

	log.Info("watcher started",
		slog.String("topic", cfg.KafkaTopic),
		slog.String("group", cfg.KafkaConsumer),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if err := handleMessage(log, cache, msg); err != nil {
			log.Warn("skip message",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}

// handleMessage logs one published update. Redelivered ids are ignored.
func handleMessage(log *slog.Logger, cache *dedupe.Cache, msg kafka.Message) error {
	u, err := events.Decode(msg)
	if err != nil {
		return err
	}

	if cache.Seen(u.ID) {
		log.Debug("duplicate update", slog.String("id", u.ID))
		return nil
	}

	attrs := []any{
		slog.String("id", u.ID),
		slog.String("operation", string(u.Operation)),
		slog.Int("count", u.Count),
		slog.String("digest", u.Digest),
		slog.Time("updated_at", u.UpdatedAt),
	}
	switch u.Operation {
	case models.OperationSearch:
		attrs = append(attrs, slog.String("q", u.Query))
	default:
		attrs = append(attrs, slog.String("category", u.Category))
	}
	log.Info("news updated", attrs...)
	return nil
}
