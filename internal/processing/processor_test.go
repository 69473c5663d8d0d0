package processing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/newsdesk/internal/models"
	"github.com/DeafMist/newsdesk/internal/processing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "entities", input: "Tom &amp; Jerry", want: "Tom & Jerry"},
		{name: "collapse whitespace", input: "foo\n\nbar\t baz", want: "foo bar baz"},
		{name: "trim", input: "  headline  ", want: "headline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := processing.CleanText(tt.input); got != tt.want {
				t.Fatalf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeFullRecord(t *testing.T) {
	now := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	raw := models.RawArticle{
		Source:      &models.RawSource{ID: models.Str("bbc"), Name: models.Str("BBC News")},
		Author:      models.Str("Jane Doe"),
		Title:       models.Str("Rates held"),
		Description: models.Str("The bank kept rates unchanged."),
		URL:         models.Str("https://example.com/rates"),
		URLToImage:  models.Str("https://example.com/rates.png"),
		PublishedAt: models.Str("2024-02-01T10:00:00Z"),
		Content:     models.Str("ignored"),
	}

	got := processing.Normalize(raw, now)
	require.Equal(t, models.Article{
		Title:       "Rates held",
		Description: "The bank kept rates unchanged.",
		URL:         "https://example.com/rates",
		URLToImage:  "https://example.com/rates.png",
		PublishedAt: "2024-02-01T10:00:00Z",
		Source:      models.Source{Name: "BBC News"},
		Author:      "Jane Doe",
	}, got)
}

func TestNormalizeDefaultsMissingFields(t *testing.T) {
	now := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

	got := processing.Normalize(models.RawArticle{Title: models.Str("Only a title")}, now)
	require.Equal(t, "Only a title", got.Title)
	require.Empty(t, got.Description)
	require.Empty(t, got.URL)
	require.Empty(t, got.URLToImage)
	require.Empty(t, got.Author)
	require.Empty(t, got.Source.Name)
	require.Equal(t, "2024-02-03T04:05:06.000Z", got.PublishedAt)
}

func TestNormalizeSourceWithoutName(t *testing.T) {
	got := processing.Normalize(models.RawArticle{Source: &models.RawSource{ID: models.Str("x")}}, time.Now())
	require.Empty(t, got.Source.Name)
}

func TestNormalizeAllKeepsOrder(t *testing.T) {
	raws := []models.RawArticle{
		{Title: models.Str("first")},
		{Title: models.Str("second")},
		{Title: models.Str("third")},
	}

	got := processing.NormalizeAll(raws, time.Now())
	require.Len(t, got, 3)
	require.Equal(t, "first", got[0].Title)
	require.Equal(t, "second", got[1].Title)
	require.Equal(t, "third", got[2].Title)

	require.NotNil(t, processing.NormalizeAll(nil, time.Now()))
}

func TestDigest(t *testing.T) {
	a := []models.Article{{Title: "a", URL: "https://example.com/a"}, {Title: "b", URL: "https://example.com/b"}}
	b := []models.Article{{Title: "b", URL: "https://example.com/b"}, {Title: "a", URL: "https://example.com/a"}}

	require.NotEmpty(t, processing.Digest(a))
	require.Equal(t, processing.Digest(a), processing.Digest(a))
	require.NotEqual(t, processing.Digest(a), processing.Digest(b))
}
