package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries every pipeline knob. Values come from the
// environment; anything invalid is a startup error, never a
// steady-state one.
type Config struct {
	MinPrice     float64
	MaxPrice     float64
	FloatCeiling float64 // 0 disables the float filter

	GroupSize     int
	MaxWorkers    int
	SubmitStagger time.Duration
	FetchTimeout  time.Duration

	UniverseTTL   time.Duration
	SentimentTTL  time.Duration
	RecencyWindow time.Duration

	PollInterval    time.Duration
	BackoffInterval time.Duration

	NewsTopic  string
	NewsSource string
	ScorerName string
}

func Load() (*Config, error) {
	r := &reader{}

	cfg := &Config{
		MinPrice:        r.getFloat("MIN_PRICE", 1),
		MaxPrice:        r.getFloat("MAX_PRICE", 20),
		FloatCeiling:    r.getFloat("FLOAT_CEILING", 0),
		GroupSize:       r.getInt("GROUP_SIZE", 20),
		MaxWorkers:      r.getInt("MAX_WORKERS", 10),
		SubmitStagger:   r.getSeconds("SUBMIT_STAGGER_SECONDS", 500*time.Millisecond),
		FetchTimeout:    r.getDuration("FETCH_TIMEOUT", 15*time.Second),
		UniverseTTL:     r.getDuration("UNIVERSE_TTL", 24*time.Hour),
		SentimentTTL:    r.getDuration("SENTIMENT_TTL", 2*time.Hour),
		RecencyWindow:   r.getDuration("RECENCY_WINDOW", time.Hour),
		PollInterval:    r.getDuration("POLL_INTERVAL", 10*time.Second),
		BackoffInterval: r.getDuration("BACKOFF_INTERVAL", time.Minute),
		NewsTopic:       r.getString("NEWS_TOPIC", "stock"),
		NewsSource:      r.getString("NEWS_SOURCE", "rss"),
		ScorerName:      r.getString("SCORER", "vader"),
	}

	if r.err != nil {
		return nil, r.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MinPrice < 0 {
		return fmt.Errorf("MIN_PRICE must not be negative")
	}
	if c.MaxPrice <= c.MinPrice {
		return fmt.Errorf("price band %v..%v is invalid", c.MinPrice, c.MaxPrice)
	}
	if c.FloatCeiling < 0 {
		return fmt.Errorf("FLOAT_CEILING must not be negative")
	}
	if c.GroupSize < 1 {
		return fmt.Errorf("GROUP_SIZE must be at least 1")
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("MAX_WORKERS must be at least 1")
	}
	if c.SubmitStagger < 0 {
		return fmt.Errorf("SUBMIT_STAGGER_SECONDS must not be negative")
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"FETCH_TIMEOUT", c.FetchTimeout},
		{"UNIVERSE_TTL", c.UniverseTTL},
		{"SENTIMENT_TTL", c.SentimentTTL},
		{"RECENCY_WINDOW", c.RecencyWindow},
		{"POLL_INTERVAL", c.PollInterval},
		{"BACKOFF_INTERVAL", c.BackoffInterval},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive", d.name)
		}
	}

	switch c.NewsSource {
	case "rss", "alphavantage", "finnhub":
	default:
		return fmt.Errorf("unknown NEWS_SOURCE %q", c.NewsSource)
	}

	switch c.ScorerName {
	case "vader", "openai", "anthropic":
	default:
		return fmt.Errorf("unknown SCORER %q", c.ScorerName)
	}

	return nil
}

// reader parses env values and keeps the first failure.
type reader struct {
	err error
}

func (r *reader) fail(key, raw string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%s: invalid value %q: %w", key, raw, err)
	}
}

func (r *reader) getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (r *reader) getFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.fail(key, raw, err)
		return def
	}
	return v
}

func (r *reader) getInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(key, raw, err)
		return def
	}
	return v
}

// getSeconds reads a float number of seconds, e.g. "0.5".
func (r *reader) getSeconds(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.fail(key, raw, err)
		return def
	}
	return time.Duration(v * float64(time.Second))
}

// getDuration reads a Go duration string, e.g. "24h".
func (r *reader) getDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		r.fail(key, raw, err)
		return def
	}
	return v
}
