package scorer

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const scoringPrompt = `You are a financial news sentiment rater. Rate the sentiment of the given text toward the stocks it mentions.

Output as JSON only, no other text:
{
  "score": a number from -1.0 (very bearish) to 1.0 (very bullish), 0 means neutral
}`

type OpenAIScorer struct {
	client *openai.Client
	model  openai.ChatModel
}

func NewOpenAIScorer(apiKey string) *OpenAIScorer {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIScorer{
		client: &client,
		model:  openai.ChatModelGPT4oMini,
	}
}

func (s *OpenAIScorer) Name() string {
	return "openai"
}

func (s *OpenAIScorer) Score(text string) (float64, error) {
	resp, err := s.client.Chat.Completions.New(context.Background(), openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(scoringPrompt),
			openai.UserMessage(text),
		},
	})

	if err != nil {
		return 0, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("no response from openai")
	}

	return parseScore(resp.Choices[0].Message.Content)
}
