package scorer

import (
	"encoding/json"
	"fmt"
)

// Neutral is the score meaning "no signal". It is also the fallback
// cached when a scorer call fails.
const Neutral = 0.0

// Scorer rates a piece of text between -1 (very bearish) and +1 (very
// bullish).
type Scorer interface {
	Score(text string) (float64, error)
	Name() string
}

// parseScore extracts {"score": x} from a model response and clamps
// it to [-1, 1].
func parseScore(content string) (float64, error) {
	content = cleanJSONResponse(content)

	var parsed struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}

	return clamp(parsed.Score), nil
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
