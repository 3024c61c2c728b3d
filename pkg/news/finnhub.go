package news

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

// FinnHubClient serves grouped queries from the market-news feed. The
// endpoint takes no search expression, so the queried symbols are
// matched client-side against each story's Related ticker list.
type FinnHubClient struct {
	client *finnhub.DefaultApiService
}

func NewFinnHubClient(apiKey string) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{client: client}
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}

func (c *FinnHubClient) FetchQuery(ctx context.Context, q Query) ([]Item, error) {
	res, _, err := c.client.MarketNews(ctx).Category("general").Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub fetch: %w", err)
	}

	var items []Item

	for _, n := range res {
		if n.Related == nil || !relatedMatches(*n.Related, q.Symbols) {
			continue
		}

		item := Item{Source: c.Name()}

		if n.Id != nil {
			item.ID = dedupeKey(strconv.FormatInt(*n.Id, 10))
		}

		if n.Headline != nil {
			item.Title = *n.Headline
		}

		if n.Summary != nil {
			item.Summary = *n.Summary
		}

		if n.Url != nil {
			item.Link = *n.Url
		}

		if n.Datetime != nil {
			item.PublishedAt = time.Unix(*n.Datetime, 0)
		}

		if item.Title == "" && item.Link == "" {
			continue
		}

		if item.ID == "" {
			item.ID = dedupeKey(item.Link, item.Title)
		}

		if q.MaxAge > 0 && !item.PublishedAt.IsZero() && time.Since(item.PublishedAt) > q.MaxAge {
			continue
		}

		items = append(items, item)
	}

	return items, nil
}

// relatedMatches reports whether any queried symbol appears in the
// comma-separated ticker list.
func relatedMatches(related string, symbols []string) bool {
	if related == "" || len(symbols) == 0 {
		return false
	}
	for _, t := range strings.Split(related, ",") {
		t = strings.TrimSpace(t)
		for _, s := range symbols {
			if strings.EqualFold(t, s) {
				return true
			}
		}
	}
	return false
}
