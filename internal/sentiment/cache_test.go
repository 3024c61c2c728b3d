package sentiment

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/rgajunior/trading/pkg/news"
)

type fakeScorer struct {
	score float64
	err   error
	calls int
}

func (f *fakeScorer) Score(text string) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.score, nil
}

func (f *fakeScorer) Name() string { return "fake" }

func TestGetOrScoreCachesWithinTTL(t *testing.T) {
	fs := &fakeScorer{score: 0.8}
	cache := NewScoreCache(fs, 2*time.Hour)

	base := time.Date(2026, 2, 26, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return base }

	item := news.Item{ID: "id-1", Title: "AAA rallies"}

	assert.Equal(t, 0.8, cache.GetOrScore(item))
	assert.Equal(t, 0.8, cache.GetOrScore(item))
	assert.Equal(t, 1, fs.calls)

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestGetOrScoreExpires(t *testing.T) {
	fs := &fakeScorer{score: 0.8}
	cache := NewScoreCache(fs, 2*time.Hour)

	base := time.Date(2026, 2, 26, 12, 0, 0, 0, time.UTC)
	now := base
	cache.now = func() time.Time { return now }

	item := news.Item{ID: "id-1", Title: "AAA rallies"}
	cache.GetOrScore(item)

	now = base.Add(2*time.Hour + time.Second)
	cache.GetOrScore(item)

	assert.Equal(t, 2, fs.calls)
}

func TestGetOrScoreFailureCachesNeutral(t *testing.T) {
	fs := &fakeScorer{err: errors.New("model unavailable")}
	cache := NewScoreCache(fs, 2*time.Hour)

	item := news.Item{ID: "id-1", Title: "AAA rallies"}

	assert.Equal(t, 0.0, cache.GetOrScore(item))
	assert.Equal(t, 0.0, cache.GetOrScore(item))
	assert.Equal(t, 1, fs.calls)
}

func TestSweep(t *testing.T) {
	fs := &fakeScorer{score: 0.5}
	cache := NewScoreCache(fs, time.Hour)

	base := time.Date(2026, 2, 26, 12, 0, 0, 0, time.UTC)
	now := base
	cache.now = func() time.Time { return now }

	cache.GetOrScore(news.Item{ID: "old", Title: "old story"})

	now = base.Add(30 * time.Minute)
	cache.GetOrScore(news.Item{ID: "new", Title: "new story"})

	// "old" is now exactly one TTL old and must go; "new" stays
	now = base.Add(time.Hour)
	removed := cache.Sweep()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, cache.Stats().Size)

	cache.GetOrScore(news.Item{ID: "new", Title: "new story"})
	assert.Equal(t, 2, fs.calls)
}

func TestConcurrentGetOrScoreAndSweep(t *testing.T) {
	fs := &fakeScorer{score: 0.3}
	cache := NewScoreCache(fs, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				cache.GetOrScore(news.Item{ID: fmt.Sprintf("id-%d", j%10), Title: "story"})
				if j%10 == 0 {
					cache.Sweep()
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, cache.Stats().Size)
}
