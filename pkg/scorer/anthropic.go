package scorer

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicScorer struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewAnthropicScorer(apiKey string) *AnthropicScorer {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicScorer{
		client: &client,
		model:  anthropic.ModelClaudeHaiku4_5,
	}
}

func (s *AnthropicScorer) Name() string {
	return "anthropic"
}

func (s *AnthropicScorer) Score(text string) (float64, error) {
	resp, err := s.client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     s.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: scoringPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})

	if err != nil {
		return 0, fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return 0, fmt.Errorf("no response from anthropic")
	}

	return parseScore(resp.Content[0].Text)
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
