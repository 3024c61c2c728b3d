package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const avLimit = "200"

type AlphaVantageClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *AlphaVantageClient) Name() string {
	return "AlphaVantage"
}

func (c *AlphaVantageClient) FetchQuery(ctx context.Context, q Query) ([]Item, error) {
	params := url.Values{}
	params.Set("function", "NEWS_SENTIMENT")
	params.Set("tickers", strings.Join(q.Symbols, ","))
	params.Set("sort", "LATEST")
	params.Set("limit", avLimit)
	params.Set("apikey", c.apiKey)
	if q.MaxAge > 0 {
		params.Set("time_from", time.Now().UTC().Add(-q.MaxAge).Format("20060102T1504"))
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, "https://www.alphavantage.co/query?"+params.Encode(), nil,
	)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw avResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	items := make([]Item, 0, len(raw.Feed))
	for _, f := range raw.Feed {
		if f.Title == "" && f.URL == "" {
			continue
		}

		publishedAt, err := time.Parse("20060102T150405", f.TimePublished)
		if err != nil {
			publishedAt = time.Time{}
		}

		items = append(items, Item{
			ID:          dedupeKey(f.URL, f.Title),
			Title:       f.Title,
			Summary:     f.Summary,
			Link:        f.URL,
			Source:      c.Name(),
			PublishedAt: publishedAt,
		})
	}

	return items, nil
}

type avResponse struct {
	Feed []avFeedItem `json:"feed"`
}

type avFeedItem struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	URL           string `json:"url"`
	TimePublished string `json:"time_published"`
}
