// Package events announces article list updates on a Kafka topic.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/newsdesk/internal/dedupe"
	"github.com/DeafMist/newsdesk/internal/models"
)

const (
	DefaultTopic = "news_updates"

	HeaderOperation = "operation"
	HeaderDigest    = "digest"
)

// Writer is the subset of *kafka.Writer used by Publisher.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter builds a Kafka writer for the update topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	if topic == "" {
		topic = DefaultTopic
	}
	return kafka.NewWriter(kafka.WriterConfig{
		Brokers:     brokers,
		Topic:       topic,
		Balancer:    &kafka.Hash{},
		MaxAttempts: 3,
	})
}

// Publisher writes one message per update. An update whose digest was already
// published inside the cache window is dropped.
type Publisher struct {
	w     Writer
	cache *dedupe.Cache
	log   *slog.Logger
}

// NewPublisher wraps w. A nil cache disables duplicate suppression.
func NewPublisher(w Writer, cache *dedupe.Cache, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Publisher{w: w, cache: cache, log: logger}
}

// Notify publishes u.
func (p *Publisher) Notify(ctx context.Context, u models.Update) error {
	if p.cache != nil && p.cache.Seen(u.Digest) {
		p.log.Debug("update unchanged, skipping",
			slog.String("operation", string(u.Operation)),
			slog.String("digest", u.Digest),
		)
		return nil
	}

	msg, err := Encode(u)
	if err != nil {
		p.forget(u.Digest)
		return err
	}

	if err := p.w.WriteMessages(ctx, msg); err != nil {
		p.forget(u.Digest)
		return fmt.Errorf("write update: %w", err)
	}

	p.log.Info("update published",
		slog.String("id", u.ID),
		slog.String("operation", string(u.Operation)),
		slog.Int("count", u.Count),
	)
	return nil
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	return p.w.Close()
}

func (p *Publisher) forget(digest string) {
	if p.cache != nil {
		p.cache.Forget(digest)
	}
}

// Encode turns an update into a Kafka message keyed by operation.
func Encode(u models.Update) (kafka.Message, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal update: %w", err)
	}
	return kafka.Message{
		Key:   []byte(u.Operation),
		Value: data,
		Headers: []kafka.Header{
			{Key: HeaderOperation, Value: []byte(u.Operation)},
			{Key: HeaderDigest, Value: []byte(u.Digest)},
		},
	}, nil
}

// Decode parses a message produced by Encode.
func Decode(msg kafka.Message) (models.Update, error) {
	var u models.Update
	if err := json.Unmarshal(msg.Value, &u); err != nil {
		return models.Update{}, fmt.Errorf("unmarshal update: %w", err)
	}
	if u.ID == "" {
		return models.Update{}, fmt.Errorf("update without id")
	}
	return u, nil
}
