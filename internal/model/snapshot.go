package model

import (
	"sort"
	"time"
)

// Snapshot is one cycle's per-symbol sentiment, rebuilt from scratch
// every cycle. A symbol with no qualifying news reads neutral (0).
type Snapshot struct {
	Scores     map[string]float64
	CapturedAt time.Time
}

type SymbolScore struct {
	Symbol string
	Score  float64
}

// NonNeutral returns the non-zero entries sorted by symbol.
func (s Snapshot) NonNeutral() []SymbolScore {
	out := make([]SymbolScore, 0, len(s.Scores))
	for sym, score := range s.Scores {
		if score == 0 {
			continue
		}
		out = append(out, SymbolScore{Symbol: sym, Score: score})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Cycle is the persisted record of one completed poll cycle.
type Cycle struct {
	ID           int64
	CapturedAt   time.Time
	UniverseSize int
	ArticleCount int
	GroupCount   int
	FailedGroups int
	CacheHits    int
	CacheMisses  int
}
