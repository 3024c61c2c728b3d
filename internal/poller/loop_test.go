package poller

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/rgajunior/trading/internal/fetch"
	"github.com/rgajunior/trading/internal/model"
	"github.com/rgajunior/trading/internal/sentiment"
	"github.com/rgajunior/trading/pkg/news"
)

type fakeSelector struct {
	universe *model.Universe
	err      error
	calls    int
}

func (f *fakeSelector) Select(ctx context.Context) (*model.Universe, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.universe, nil
}

type fakeFetcher struct {
	items []news.Item
	stats fetch.Stats
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, symbols []string) ([]news.Item, fetch.Stats) {
	f.calls++
	return f.items, f.stats
}

type fakeAggregator struct {
	snapshot model.Snapshot
	calls    int
}

func (f *fakeAggregator) Aggregate(items []news.Item, universe *model.Universe) model.Snapshot {
	f.calls++
	return f.snapshot
}

type fakeCache struct {
	stats  sentiment.CacheStats
	sweeps int
}

func (f *fakeCache) Sweep() int {
	f.sweeps++
	return 0
}

func (f *fakeCache) Stats() sentiment.CacheStats { return f.stats }

type fakeCycleStore struct {
	cycles []*model.Cycle
	scores [][]model.SymbolScore
	err    error
}

func (f *fakeCycleStore) SaveCycle(c *model.Cycle, s []model.SymbolScore) error {
	f.cycles = append(f.cycles, c)
	f.scores = append(f.scores, s)
	return f.err
}

type fakePublisher struct {
	published []*model.Cycle
	err       error
}

func (f *fakePublisher) Publish(c *model.Cycle, s []model.SymbolScore) error {
	f.published = append(f.published, c)
	return f.err
}

type loopFixture struct {
	sel   *fakeSelector
	fet   *fakeFetcher
	agg   *fakeAggregator
	cache *fakeCache
	store *fakeCycleStore
	pub   *fakePublisher
	loop  *Loop
}

func newLoopFixture() *loopFixture {
	captured := time.Date(2026, 2, 26, 12, 0, 0, 0, time.UTC)
	f := &loopFixture{
		sel: &fakeSelector{universe: &model.Universe{
			Symbols:    []string{"AAA", "BBB"},
			CapturedAt: captured,
		}},
		fet: &fakeFetcher{
			items: []news.Item{{ID: "1", Title: "AAA surges"}},
			stats: fetch.Stats{Groups: 1, Items: 1},
		},
		agg: &fakeAggregator{snapshot: model.Snapshot{
			Scores:     map[string]float64{"AAA": 2.5, "BBB": 0},
			CapturedAt: captured,
		}},
		cache: &fakeCache{stats: sentiment.CacheStats{Hits: 4, Misses: 6}},
		store: &fakeCycleStore{},
		pub:   &fakePublisher{},
	}
	f.loop = New(Deps{
		Selector:   f.sel,
		Fetcher:    f.fet,
		Aggregator: f.agg,
		Cache:      f.cache,
		Store:      f.store,
		Publisher:  f.pub,
	}, 10*time.Second, time.Minute)
	return f
}

// runCycles drives the loop for n cycles by intercepting the sleep
// between them, then cancels.
func runCycles(l *Loop, n int) []time.Duration {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var delays []time.Duration
	l.sleep = func(ctx context.Context, d time.Duration) bool {
		delays = append(delays, d)
		if len(delays) >= n {
			cancel()
			return false
		}
		return true
	}
	l.Run(ctx)
	return delays
}

func TestLoopRunsFullCycle(t *testing.T) {
	f := newLoopFixture()

	delays := runCycles(f.loop, 1)

	assert.Equal(t, []time.Duration{10 * time.Second}, delays)
	assert.Equal(t, 1, len(f.store.cycles))

	cycle := f.store.cycles[0]
	assert.Equal(t, 2, cycle.UniverseSize)
	assert.Equal(t, 1, cycle.ArticleCount)
	assert.Equal(t, 1, cycle.GroupCount)
	assert.Equal(t, 0, cycle.FailedGroups)
	assert.Equal(t, 4, cycle.CacheHits)
	assert.Equal(t, 6, cycle.CacheMisses)

	// neutral symbols are not persisted
	assert.Equal(t, []model.SymbolScore{{Symbol: "AAA", Score: 2.5}}, f.store.scores[0])
	assert.Equal(t, 1, len(f.pub.published))
	assert.Equal(t, 1, f.cache.sweeps)
}

func TestLoopEmptyUniverseBacksOff(t *testing.T) {
	f := newLoopFixture()
	f.sel.universe = &model.Universe{}

	delays := runCycles(f.loop, 1)

	assert.Equal(t, []time.Duration{time.Minute}, delays)
	assert.Equal(t, 0, f.fet.calls)
	assert.Equal(t, 0, len(f.store.cycles))
}

func TestLoopSelectorErrorBacksOff(t *testing.T) {
	f := newLoopFixture()
	f.sel.err = errors.New("screener down")

	delays := runCycles(f.loop, 1)

	assert.Equal(t, []time.Duration{time.Minute}, delays)
	assert.Equal(t, 0, f.fet.calls)
}

func TestLoopNoItemsBacksOff(t *testing.T) {
	f := newLoopFixture()
	f.fet.items = nil

	delays := runCycles(f.loop, 1)

	assert.Equal(t, []time.Duration{time.Minute}, delays)
	assert.Equal(t, 0, f.agg.calls)
	assert.Equal(t, 0, len(f.store.cycles))
}

func TestLoopStopsWhenContextCancelled(t *testing.T) {
	f := newLoopFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.loop.Run(ctx)

	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, 0, f.sel.calls)
}

func TestLoopPersistFailureContinues(t *testing.T) {
	f := newLoopFixture()
	f.store.err = errors.New("db down")
	f.pub.err = errors.New("redis down")

	delays := runCycles(f.loop, 1)

	// the cycle still completes on the normal cadence
	assert.Equal(t, []time.Duration{10 * time.Second}, delays)
	assert.Equal(t, 1, len(f.pub.published))
}

func TestLoopReportsCacheDeltas(t *testing.T) {
	f := newLoopFixture()

	// cumulative counters stay flat, so only the first cycle owns them
	runCycles(f.loop, 2)

	assert.Equal(t, 2, len(f.store.cycles))
	assert.Equal(t, 4, f.store.cycles[0].CacheHits)
	assert.Equal(t, 6, f.store.cycles[0].CacheMisses)
	assert.Equal(t, 0, f.store.cycles[1].CacheHits)
	assert.Equal(t, 0, f.store.cycles[1].CacheMisses)
}

func TestEncodeSignal(t *testing.T) {
	cycle := &model.Cycle{
		CapturedAt:   time.Date(2026, 2, 26, 12, 0, 0, 0, time.UTC),
		UniverseSize: 40,
		ArticleCount: 17,
	}
	scores := []model.SymbolScore{{Symbol: "AAA", Score: 1.5}, {Symbol: "BBB", Score: -2}}

	payload, err := encodeSignal(cycle, scores)
	assert.Equal(t, nil, err)

	var decoded signalMessage
	assert.Equal(t, nil, json.Unmarshal(payload, &decoded))
	assert.Equal(t, 40, decoded.UniverseSize)
	assert.Equal(t, 17, decoded.ArticleCount)
	assert.Equal(t, map[string]float64{"AAA": 1.5, "BBB": -2}, decoded.Scores)
}
