package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/DeafMist/newsdesk/internal/dedupe"
	"github.com/DeafMist/newsdesk/internal/events"
	"github.com/DeafMist/newsdesk/internal/models"
)

type stubWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (s *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msgs...)
	return nil
}

func (s *stubWriter) Close() error {
	s.closed = true
	return nil
}

func update(digest string) models.Update {
	return models.Update{
		ID:        "id-" + digest,
		Operation: models.OperationHeadlines,
		Category:  "general",
		Count:     3,
		Digest:    digest,
		UpdatedAt: time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC),
	}
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestNotifyWritesMessage(t *testing.T) {
	w := &stubWriter{}
	p := events.NewPublisher(w, nil, nil)

	require.NoError(t, p.Notify(context.Background(), update("abc")))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	require.Equal(t, "headlines", string(msg.Key))
	require.Equal(t, "headlines", header(msg, events.HeaderOperation))
	require.Equal(t, "abc", header(msg, events.HeaderDigest))

	got, err := events.Decode(msg)
	require.NoError(t, err)
	require.Equal(t, update("abc"), got)
}

func TestNotifyDropsRepeatedDigest(t *testing.T) {
	w := &stubWriter{}
	p := events.NewPublisher(w, dedupe.NewCache(10, time.Minute), nil)

	require.NoError(t, p.Notify(context.Background(), update("same")))
	require.NoError(t, p.Notify(context.Background(), update("same")))
	require.NoError(t, p.Notify(context.Background(), update("other")))

	require.Len(t, w.msgs, 2)
	require.Equal(t, "same", header(w.msgs[0], events.HeaderDigest))
	require.Equal(t, "other", header(w.msgs[1], events.HeaderDigest))
}

func TestNotifyWriteFailureAllowsRetry(t *testing.T) {
	w := &stubWriter{err: errors.New("broker down")}
	p := events.NewPublisher(w, dedupe.NewCache(10, time.Minute), nil)

	err := p.Notify(context.Background(), update("d1"))
	require.ErrorContains(t, err, "broker down")

	w.err = nil
	require.NoError(t, p.Notify(context.Background(), update("d1")))
	require.Len(t, w.msgs, 1)
}

func TestDecodeRejectsInvalid(t *testing.T) {
	_, err := events.Decode(kafka.Message{Value: []byte("{")})
	require.Error(t, err)

	_, err = events.Decode(kafka.Message{Value: []byte(`{"operation":"search"}`)})
	require.Error(t, err)
}

func TestClose(t *testing.T) {
	w := &stubWriter{}
	require.NoError(t, events.NewPublisher(w, nil, nil).Close())
	require.True(t, w.closed)
}
