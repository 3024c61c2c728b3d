package sentiment

import (
	"strings"
	"time"

	"github.com/rgajunior/trading/internal/model"
	"github.com/rgajunior/trading/pkg/news"
	"github.com/rgajunior/trading/pkg/scorer"
)

// Aggregator folds fetched articles into a per-symbol snapshot.
type Aggregator struct {
	cache  *ScoreCache
	window time.Duration
	now    func() time.Time
}

func NewAggregator(cache *ScoreCache, window time.Duration) *Aggregator {
	return &Aggregator{
		cache:  cache,
		window: window,
		now:    time.Now,
	}
}

// Aggregate builds a fresh snapshot: every universe symbol starts
// neutral, then each sufficiently recent item assigns its score to
// the first symbol appearing in its text. One item moves at most one
// symbol. Items are scored (and cached) before the recency check, so
// a stale item still avoids a second scorer call later.
func (a *Aggregator) Aggregate(items []news.Item, universe *model.Universe) model.Snapshot {
	now := a.now()

	snap := model.Snapshot{
		Scores:     make(map[string]float64, universe.Size()),
		CapturedAt: now,
	}
	for _, sym := range universe.Symbols {
		snap.Scores[sym] = scorer.Neutral
	}

	for _, item := range items {
		score := a.cache.GetOrScore(item)

		// An item without a parseable publication time never matches.
		if item.PublishedAt.IsZero() || now.Sub(item.PublishedAt) >= a.window {
			continue
		}

		text := item.AnalyzedText()
		for _, sym := range universe.Symbols {
			if strings.Contains(text, sym) {
				snap.Scores[sym] = score
				break
			}
		}
	}

	return snap
}
