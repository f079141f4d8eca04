package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/verte-zerg/readquiz/internal/log"
	"github.com/verte-zerg/readquiz/internal/model"
)

// Source produces quiz questions for the text of a page.
type Source interface {
	Questions(ctx context.Context, page string, n int) ([]model.Question, error)
}

// Local adapts a Generator to Source.
type Local struct {
	Gen *Generator
}

// Questions implements Source.
func (l Local) Questions(_ context.Context, page string, n int) ([]model.Question, error) {
	return l.Gen.Questions(page, n), nil
}

// Claude asks an Anthropic model for questions and falls back on any failure.
type Claude struct {
	client   anthropic.Client
	model    anthropic.Model
	fallback Source
}

// NewClaude builds a Claude source. Extra options are passed to the client.
func NewClaude(apiKey string, fallback Source, opts ...option.RequestOption) *Claude {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Claude{
		client:   anthropic.NewClient(opts...),
		model:    anthropic.ModelClaude4Sonnet20250514,
		fallback: fallback,
	}
}

const claudePrompt = `Write %d multiple-choice questions about the passage below for a reader practising English.
Alternate between "vocabulary" questions (which word appeared in the passage) and
"reading comprehension" questions (what the passage says). Each question has exactly 4 options.
Reply with only a JSON array of objects with the keys "type", "prompt", "options" and "answer"
(the zero-based index of the correct option).

Passage:
%s`

// Questions implements Source.
func (c *Claude) Questions(ctx context.Context, page string, n int) ([]model.Question, error) {
	questions, err := c.ask(ctx, page, n)
	if err == nil {
		return questions, nil
	}
	log.Warn("claude questions failed, using local generator", zap.Error(err))
	if c.fallback == nil {
		return nil, err
	}
	return c.fallback.Questions(ctx, page, n)
}

func (c *Claude) ask(ctx context.Context, page string, n int) ([]model.Question, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(claudePrompt, n, page))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("claude request: %w", err)
	}
	var text strings.Builder
	for _, block := range resp.Content {
		switch block := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(block.Text)
		}
	}
	return ParseQuestions(text.String(), n)
}

// ParseQuestions decodes a JSON array of questions, tolerating prose or code
// fences around it, and keeps at most n valid entries.
func ParseQuestions(reply string, n int) ([]model.Question, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON array in reply")
	}
	var raw []model.Question
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	out := make([]model.Question, 0, len(raw))
	for _, q := range raw {
		if len(q.Options) < 2 || q.Answer < 0 || q.Answer >= len(q.Options) || strings.TrimSpace(q.Prompt) == "" {
			continue
		}
		if q.Type != model.QuestionVocabulary {
			q.Type = model.QuestionComprehension
		}
		out = append(out, q)
		if len(out) == n {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("reply held no usable questions")
	}
	return out, nil
}
