package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/rgajunior/trading/internal/fetch"
	"github.com/rgajunior/trading/internal/model"
	"github.com/rgajunior/trading/internal/sentiment"
	"github.com/rgajunior/trading/pkg/news"
)

type Selector interface {
	Select(ctx context.Context) (*model.Universe, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, symbols []string) ([]news.Item, fetch.Stats)
}

type Aggregator interface {
	Aggregate(items []news.Item, universe *model.Universe) model.Snapshot
}

type Cache interface {
	Sweep() int
	Stats() sentiment.CacheStats
}

type Store interface {
	SaveCycle(cycle *model.Cycle, scores []model.SymbolScore) error
}

type Publisher interface {
	Publish(cycle *model.Cycle, scores []model.SymbolScore) error
}

type Deps struct {
	Selector   Selector
	Fetcher    Fetcher
	Aggregator Aggregator
	Cache      Cache
	Store      Store
	Publisher  Publisher
}

// Loop drives poll cycles back to back: select the universe, fetch its
// news, aggregate sentiment, report, sweep, sleep. Cycles never overlap;
// a cycle that produces nothing to score switches to the backoff interval.
type Loop struct {
	deps         Deps
	pollInterval time.Duration
	backoff      time.Duration

	sleep func(ctx context.Context, d time.Duration) bool

	// cumulative cache counters as of the previous report, so each
	// cycle logs its own hits and misses rather than the running total
	lastHits   int
	lastMisses int
}

func New(deps Deps, pollInterval, backoff time.Duration) *Loop {
	return &Loop{
		deps:         deps,
		pollInterval: pollInterval,
		backoff:      backoff,
		sleep:        defaultSleep,
	}
}

// Run cycles until the context is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		delay := l.runCycle(ctx)
		if !l.sleep(ctx, delay) {
			return ctx.Err()
		}
	}
}

func (l *Loop) runCycle(ctx context.Context) time.Duration {
	universe, err := l.deps.Selector.Select(ctx)
	if err != nil {
		slog.Error("universe selection failed", "error", err)
		return l.backoff
	}
	if universe.IsEmpty() {
		slog.Warn("universe is empty, backing off")
		return l.backoff
	}

	items, stats := l.deps.Fetcher.Fetch(ctx, universe.Symbols)
	if len(items) == 0 {
		slog.Warn("no news items this cycle, backing off",
			"groups", stats.Groups,
			"failed_groups", stats.FailedGroups)
		return l.backoff
	}

	snapshot := l.deps.Aggregator.Aggregate(items, universe)
	l.report(universe, snapshot, stats)

	if removed := l.deps.Cache.Sweep(); removed > 0 {
		slog.Debug("swept expired sentiment entries", "removed", removed)
	}

	return l.pollInterval
}

// report logs the cycle, persists it, and publishes the signal. Persistence
// and publish failures are logged but never stop the loop.
func (l *Loop) report(universe *model.Universe, snapshot model.Snapshot, stats fetch.Stats) {
	cacheStats := l.deps.Cache.Stats()
	hits := cacheStats.Hits - l.lastHits
	misses := cacheStats.Misses - l.lastMisses
	l.lastHits = cacheStats.Hits
	l.lastMisses = cacheStats.Misses

	cycle := &model.Cycle{
		CapturedAt:   snapshot.CapturedAt,
		UniverseSize: universe.Size(),
		ArticleCount: stats.Items,
		GroupCount:   stats.Groups,
		FailedGroups: stats.FailedGroups,
		CacheHits:    hits,
		CacheMisses:  misses,
	}
	scores := snapshot.NonNeutral()

	slog.Info("cycle complete",
		"universe_size", cycle.UniverseSize,
		"articles", cycle.ArticleCount,
		"groups", cycle.GroupCount,
		"failed_groups", cycle.FailedGroups,
		"scored_symbols", len(scores),
		"cache_hits", hits,
		"cache_misses", misses)
	for _, s := range scores {
		slog.Info("symbol sentiment", "symbol", s.Symbol, "score", s.Score)
	}

	if err := l.deps.Store.SaveCycle(cycle, scores); err != nil {
		slog.Error("failed to persist cycle", "error", err)
	}
	if err := l.deps.Publisher.Publish(cycle, scores); err != nil {
		slog.Error("failed to publish signal", "error", err)
	}
}

func defaultSleep(ctx context.Context, d time.Duration) bool {
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
