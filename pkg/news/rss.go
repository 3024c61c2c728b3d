package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
)

const googleNewsBase = "https://news.google.com/rss/search"

// RSSClient searches a Google-News-style RSS endpoint. One FetchQuery
// call is one feed request.
type RSSClient struct {
	baseURL    string
	httpClient *http.Client
	parser     *gofeed.Parser
}

func NewRSSClient() *RSSClient {
	return &RSSClient{
		baseURL:    googleNewsBase,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		parser:     gofeed.NewParser(),
	}
}

func (c *RSSClient) Name() string {
	return "GoogleNewsRSS"
}

func (c *RSSClient) FetchQuery(ctx context.Context, q Query) ([]Item, error) {
	params := url.Values{}
	params.Set("q", q.String())
	params.Set("hl", "en-US")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("rss request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rss fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rss fetch: status %d", resp.StatusCode)
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rss parse: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry.Title == "" && entry.Link == "" {
			continue
		}

		item := Item{
			ID:      dedupeKey(entry.GUID, entry.Link, entry.Title),
			Title:   entry.Title,
			Summary: entry.Description,
			Link:    entry.Link,
			Source:  c.Name(),
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = *entry.PublishedParsed
		}

		items = append(items, item)
	}

	return items, nil
}
