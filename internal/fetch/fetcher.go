package fetch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rgajunior/trading/pkg/news"
)

// Stats summarizes one fan-out.
type Stats struct {
	Groups       int
	FailedGroups int
	Items        int
}

// Options tunes how a fan-out treats the news source.
type Options struct {
	GroupSize int
	Workers   int
	Stagger   time.Duration
	Timeout   time.Duration
	Topic     string
	MaxAge    time.Duration
}

// Fetcher fans grouped queries out to the news source without
// overrunning it: at most Workers requests in flight, one submission
// per Stagger tick.
type Fetcher struct {
	client news.Client
	opts   Options
}

func New(client news.Client, opts Options) *Fetcher {
	return &Fetcher{client: client, opts: opts}
}

type groupResult struct {
	id    int
	items []news.Item
	err   error
}

// Fetch runs one full fan-out and blocks until every submitted group
// has finished. A failed group degrades to zero items; the merged
// order across groups carries no meaning. An empty symbol set returns
// immediately without touching the source.
func (f *Fetcher) Fetch(ctx context.Context, symbols []string) ([]news.Item, Stats) {
	groups := partition(symbols, f.opts.GroupSize)
	stats := Stats{Groups: len(groups)}
	if len(groups) == 0 {
		return nil, stats
	}

	results := make(chan groupResult, len(groups))
	sem := make(chan struct{}, f.opts.Workers)
	var wg sync.WaitGroup

	submitted := 0
	for i, group := range groups {
		if i > 0 && !pause(ctx, f.opts.Stagger) {
			break
		}

		wg.Add(1)
		submitted++
		go func(id int, symbols []string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- f.fetchGroup(ctx, id, symbols)
		}(i, group)
	}

	wg.Wait()
	close(results)

	var items []news.Item
	for res := range results {
		if res.err != nil {
			stats.FailedGroups++
			slog.Warn("group fetch failed", "group", res.id, "error", res.err)
			continue
		}
		items = append(items, res.items...)
	}

	// groups never submitted because the context ended count as failed
	stats.FailedGroups += len(groups) - submitted
	stats.Items = len(items)
	return items, stats
}

func (f *Fetcher) fetchGroup(ctx context.Context, id int, symbols []string) groupResult {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	query := news.Query{Symbols: symbols, Topic: f.opts.Topic, MaxAge: f.opts.MaxAge}
	items, err := f.client.FetchQuery(ctx, query)
	if err != nil {
		return groupResult{id: id, err: err}
	}

	slog.Debug("group fetched", "group", id, "symbols", len(symbols), "items", len(items))
	return groupResult{id: id, items: items}
}

// partition splits symbols into ordered groups of at most size.
func partition(symbols []string, size int) [][]string {
	if size < 1 || len(symbols) == 0 {
		return nil
	}
	groups := make([][]string, 0, (len(symbols)+size-1)/size)
	for start := 0; start < len(symbols); start += size {
		end := start + size
		if end > len(symbols) {
			end = len(symbols)
		}
		groups = append(groups, symbols[start:end])
	}
	return groups
}

// pause waits one stagger interval, returning false if the context
// ended first.
func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
