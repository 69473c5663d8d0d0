package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DeafMist/newsdesk/internal/mocknews"
	"github.com/DeafMist/newsdesk/internal/newsapi"
)

// News holds the upstream and mock source settings shared by every binary.
type News struct {
	APIKey      string
	APIURL      string
	APITimeout  time.Duration
	Country     string
	Language    string
	PageSize    int
	MockDelay   time.Duration
	MockDataset mocknews.Dataset
}

// Events configures the Kafka update publisher. No brokers means disabled.
type Events struct {
	KafkaBrokers   []string
	KafkaTopic     string
	DedupeCapacity int
	DedupeTTL      time.Duration
}

// Enabled reports whether any broker is configured.
func (e Events) Enabled() bool {
	return len(e.KafkaBrokers) > 0
}

// API describes HTTP-layer configuration.
type API struct {
	News
	Events
	BindAddr        string
	RefreshInterval time.Duration
	AutoRefresh     bool
	Theme           string
}

// Fetch configures the one-shot CLI.
type Fetch struct {
	News
}

// Worker configures the update watcher.
type Worker struct {
	KafkaBrokers   []string
	KafkaTopic     string
	KafkaConsumer  string
	DedupeCapacity int
	DedupeTTL      time.Duration
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	n, err := loadNews()
	if err != nil {
		return nil, err
	}
	ev, err := loadEvents()
	if err != nil {
		return nil, err
	}

	c := &API{
		News:     *n,
		Events:   *ev,
		BindAddr: getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		Theme:    strings.TrimSpace(os.Getenv("THEME")),
	}

	if c.RefreshInterval, err = getDuration("REFRESH_INTERVAL", "5m"); err != nil {
		return nil, err
	}
	if c.RefreshInterval <= 0 {
		return nil, fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	if c.AutoRefresh, err = getBool("AUTO_REFRESH", true); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadFetch builds a Fetch config from environment variables.
func LoadFetch() (*Fetch, error) {
	n, err := loadNews()
	if err != nil {
		return nil, err
	}
	return &Fetch{News: *n}, nil
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	c := &Worker{
		KafkaBrokers:  splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "news_updates"),
		KafkaConsumer: getEnv("KAFKA_CONSUMER_GROUP", "news-watcher"),
	}

	var err error
	if c.DedupeCapacity, err = getInt("EVENTS_DEDUPE_CAPACITY", 128); err != nil {
		return nil, err
	}
	if c.DedupeTTL, err = getDuration("EVENTS_DEDUPE_TTL", "1h"); err != nil {
		return nil, err
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("EVENTS_DEDUPE_CAPACITY must be positive")
	}

	return c, nil
}

func loadNews() (*News, error) {
	c := &News{
		APIKey:   strings.TrimSpace(os.Getenv("NEWS_API_KEY")),
		APIURL:   getEnv("NEWS_API_URL", newsapi.DefaultBaseURL),
		Country:  getEnv("NEWS_COUNTRY", "br"),
		Language: getEnv("NEWS_LANGUAGE", "pt"),
	}

	var err error
	if c.APITimeout, err = getDuration("NEWS_API_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if c.PageSize, err = getInt("NEWS_PAGE_SIZE", 20); err != nil {
		return nil, err
	}
	if c.MockDelay, err = getDuration("MOCK_DELAY", "1s"); err != nil {
		return nil, err
	}
	if c.MockDataset, err = mocknews.ParseDataset(getEnv("MOCK_DATASET", string(mocknews.DatasetBasic))); err != nil {
		return nil, fmt.Errorf("MOCK_DATASET: %w", err)
	}

	if c.APITimeout <= 0 {
		return nil, fmt.Errorf("NEWS_API_TIMEOUT must be positive")
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return nil, fmt.Errorf("NEWS_PAGE_SIZE must be between 1 and 100")
	}
	if c.MockDelay < 0 {
		return nil, fmt.Errorf("MOCK_DELAY cannot be negative")
	}

	return c, nil
}

func loadEvents() (*Events, error) {
	c := &Events{
		KafkaBrokers: splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "news_updates"),
	}

	var err error
	if c.DedupeCapacity, err = getInt("EVENTS_DEDUPE_CAPACITY", 128); err != nil {
		return nil, err
	}
	if c.DedupeTTL, err = getDuration("EVENTS_DEDUPE_TTL", "1h"); err != nil {
		return nil, err
	}

	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("EVENTS_DEDUPE_CAPACITY must be positive")
	}
	if c.DedupeTTL <= 0 {
		return nil, fmt.Errorf("EVENTS_DEDUPE_TTL must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}

func getDuration(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return parsed, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
