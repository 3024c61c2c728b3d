package poller

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rgajunior/trading/db"
	"github.com/rgajunior/trading/internal/model"
)

type signalMessage struct {
	CapturedAt   time.Time          `json:"captured_at"`
	UniverseSize int                `json:"universe_size"`
	ArticleCount int                `json:"article_count"`
	Scores       map[string]float64 `json:"scores"`
}

// RedisPublisher pushes each completed cycle to Redis for the decision
// layer: the latest snapshot under a freshness TTL plus a bounded queue.
type RedisPublisher struct {
	TTL time.Duration
}

func (p *RedisPublisher) Publish(cycle *model.Cycle, scores []model.SymbolScore) error {
	payload, err := encodeSignal(cycle, scores)
	if err != nil {
		return fmt.Errorf("encode signal: %w", err)
	}
	return db.PublishSignal(string(payload), p.TTL)
}

func encodeSignal(cycle *model.Cycle, scores []model.SymbolScore) ([]byte, error) {
	msg := signalMessage{
		CapturedAt:   cycle.CapturedAt,
		UniverseSize: cycle.UniverseSize,
		ArticleCount: cycle.ArticleCount,
		Scores:       make(map[string]float64, len(scores)),
	}
	for _, s := range scores {
		msg.Scores[s.Symbol] = s.Score
	}
	return json.Marshal(msg)
}
