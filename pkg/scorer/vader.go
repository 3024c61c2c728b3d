package scorer

import "github.com/jonreiter/govader"

// VADERScorer is the default scorer: a pure lexicon analyzer, no
// network and no API key. The compound score is already in [-1, 1].
type VADERScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVADERScorer() *VADERScorer {
	return &VADERScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (s *VADERScorer) Name() string {
	return "vader"
}

func (s *VADERScorer) Score(text string) (float64, error) {
	return s.analyzer.PolarityScores(text).Compound, nil
}
