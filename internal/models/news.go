package models

import "time"

// TimeLayout is the ISO-8601 form used for PublishedAt values.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Source names the outlet an article comes from.
type Source struct {
	Name string `json:"name"`
}

// Article is the normalized article shape handed to UI collaborators.
// Every field is present; absent upstream values are empty strings.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Source      Source `json:"source"`
	Author      string `json:"author"`
}

// RawSource is the source object as sent by the upstream.
type RawSource struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

// RawArticle is one upstream article record. Nullable fields are pointers.
type RawArticle struct {
	Source      *RawSource `json:"source"`
	Author      *string    `json:"author"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	URL         *string    `json:"url"`
	URLToImage  *string    `json:"urlToImage"`
	PublishedAt *string    `json:"publishedAt"`
	Content     *string    `json:"content"`
}

// FetchResult is the payload shared by the live upstream and the mock source.
type FetchResult struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Articles     []RawArticle `json:"articles"`
}

// HeadlinesQuery narrows the top-headlines endpoint.
type HeadlinesQuery struct {
	Country  string
	Category string
	PageSize int
}

// SearchQuery narrows the everything endpoint.
type SearchQuery struct {
	Q        string
	PageSize int
	Language string
}

// Operation names the store action that produced an update.
type Operation string

const (
	OperationHeadlines Operation = "headlines"
	OperationSearch    Operation = "search"
)

// Update describes one wholesale replacement of the store's article list.
type Update struct {
	ID        string    `json:"id"`
	Operation Operation `json:"operation"`
	Category  string    `json:"category,omitempty"`
	Query     string    `json:"query,omitempty"`
	Count     int       `json:"count"`
	Digest    string    `json:"digest"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Str returns a pointer to s. Handy when building raw records.
func Str(s string) *string {
	return &s
}
