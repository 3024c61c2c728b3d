package sentiment

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rgajunior/trading/pkg/news"
	"github.com/rgajunior/trading/pkg/scorer"
)

type scoreEntry struct {
	score    float64
	scoredAt time.Time
}

// CacheStats carries cumulative counters and the current entry count.
type CacheStats struct {
	Hits   int
	Misses int
	Size   int
}

// ScoreCache remembers article scores by identity so an article seen
// across polling cycles is scored once per TTL window.
type ScoreCache struct {
	scorer scorer.Scorer
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]scoreEntry
	hits    int
	misses  int
}

func NewScoreCache(s scorer.Scorer, ttl time.Duration) *ScoreCache {
	return &ScoreCache{
		scorer:  s,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]scoreEntry),
	}
}

// GetOrScore returns the cached score for the item's identity, scoring
// it on a miss or after expiry. A scorer failure degrades to neutral
// and the neutral value is cached until expiry.
func (c *ScoreCache) GetOrScore(item news.Item) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.entries[item.ID]; ok && now.Sub(e.scoredAt) < c.ttl {
		c.hits++
		return e.score
	}
	c.misses++

	score, err := c.scorer.Score(item.AnalyzedText())
	if err != nil {
		slog.Warn("scoring failed, using neutral", "item", item.ID, "title", item.Title, "error", err)
		score = scorer.Neutral
	}

	c.entries[item.ID] = scoreEntry{score: score, scoredAt: now}
	return score
}

// Sweep drops every expired entry and returns how many were removed.
func (c *ScoreCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for id, e := range c.entries {
		if now.Sub(e.scoredAt) >= c.ttl {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

func (c *ScoreCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Size: len(c.entries)}
}
