package news

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// Item is one fetched article. Items are never persisted; ID is a
// stable dedupe key used to avoid re-scoring the same article across
// polling cycles.
type Item struct {
	ID          string
	Title       string
	Summary     string
	Link        string
	Source      string
	PublishedAt time.Time
}

// AnalyzedText is the text that sentiment scoring and symbol matching
// run against.
func (i Item) AnalyzedText() string {
	if i.Summary == "" {
		return i.Title
	}
	return i.Title + " " + i.Summary
}

// Query is one grouped news search: a batch of symbols, a topic word
// and a maximum article age.
type Query struct {
	Symbols []string
	Topic   string
	MaxAge  time.Duration
}

// String renders the search expression, e.g. "(AAA OR BBB) AND stock when:1h".
func (q Query) String() string {
	expr := "(" + strings.Join(q.Symbols, " OR ") + ")"
	if q.Topic != "" {
		expr += " AND " + q.Topic
	}
	if q.MaxAge > 0 {
		expr += " when:" + ageTag(q.MaxAge)
	}
	return expr
}

func ageTag(d time.Duration) string {
	if d >= 24*time.Hour && d%(24*time.Hour) == 0 {
		return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
	}
	if d >= time.Hour && d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d/time.Hour))
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}

type Client interface {
	FetchQuery(ctx context.Context, q Query) ([]Item, error)
	Name() string
}

// dedupeKey hashes the first non-empty candidate into a short stable
// identity. Callers pass candidates in preference order: feed id,
// then link, then title.
func dedupeKey(candidates ...string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		sum := sha256.Sum256([]byte(c))
		return fmt.Sprintf("%x", sum)[:16]
	}
	return ""
}
