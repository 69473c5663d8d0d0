package processing

import (
	"crypto/sha1"
	"encoding/hex"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/DeafMist/newsdesk/internal/models"
)

var whitespace = regexp.MustCompile(`\s+`)

// CleanText unescapes HTML entities and squeezes whitespace.
func CleanText(input string) string {
	if input == "" {
		return ""
	}
	decoded := html.UnescapeString(input)
	decoded = whitespace.ReplaceAllString(decoded, " ")
	return strings.TrimSpace(decoded)
}

// Normalize turns an upstream record into an Article.
// Missing fields become empty strings; a missing publishedAt becomes now.
func Normalize(raw models.RawArticle, now time.Time) models.Article {
	a := models.Article{
		Title:       CleanText(deref(raw.Title)),
		Description: CleanText(deref(raw.Description)),
		URL:         strings.TrimSpace(deref(raw.URL)),
		URLToImage:  strings.TrimSpace(deref(raw.URLToImage)),
		PublishedAt: strings.TrimSpace(deref(raw.PublishedAt)),
		Author:      CleanText(deref(raw.Author)),
	}
	if raw.Source != nil {
		a.Source.Name = CleanText(deref(raw.Source.Name))
	}
	if a.PublishedAt == "" {
		a.PublishedAt = now.UTC().Format(models.TimeLayout)
	}
	return a
}

// NormalizeAll normalizes every record, keeping upstream order.
func NormalizeAll(raws []models.RawArticle, now time.Time) []models.Article {
	out := make([]models.Article, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw, now))
	}
	return out
}

// Digest hashes the ordered URLs and titles of a list to a stable identifier.
func Digest(articles []models.Article) string {
	h := sha1.New()
	for _, a := range articles {
		h.Write([]byte(a.URL))
		h.Write([]byte{'|'})
		h.Write([]byte(a.Title))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
