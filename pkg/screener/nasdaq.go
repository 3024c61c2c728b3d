package screener

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const nasdaqBase = "https://api.nasdaq.com"

// NasdaqClient pulls the full screener table in one request. The
// endpoint rejects clients without browser-ish headers.
type NasdaqClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewNasdaqClient() *NasdaqClient {
	return &NasdaqClient{
		baseURL:    nasdaqBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *NasdaqClient) Name() string {
	return "NasdaqScreener"
}

func (c *NasdaqClient) Screen(ctx context.Context) ([]Quote, error) {
	url := c.baseURL + "/api/screener/stocks?tableonly=true&limit=10000&exchange=NASDAQ"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("screener request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("screener fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("screener fetch: status %d", resp.StatusCode)
	}

	var raw screenerResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("screener decode: %w", err)
	}

	rows := raw.Data.Table.Rows
	quotes := make([]Quote, 0, len(rows))
	for _, r := range rows {
		if r.Symbol == "" {
			continue
		}
		quotes = append(quotes, Quote{
			Symbol:      r.Symbol,
			Price:       parseNumber(r.LastSale),
			FloatShares: parseNumber(r.FloatShares),
		})
	}

	return quotes, nil
}

// parseNumber tolerates screener formatting ("$3.45", "1,234,567").
// Anything unparseable becomes NaN.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

type screenerResponse struct {
	Data screenerData `json:"data"`
}

type screenerData struct {
	Table screenerTable `json:"table"`
}

type screenerTable struct {
	Rows []screenerRow `json:"rows"`
}

type screenerRow struct {
	Symbol      string `json:"symbol"`
	LastSale    string `json:"lastsale"`
	FloatShares string `json:"floatshares"`
}
