package chatgpt

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	"github.com/beejsebazaar/advisor/pkg/metrics"
)

// GeneratorConfig configures the OpenAI-compatible generator.
type GeneratorConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	Timeout         time.Duration
}

// finishReasons maps chat finish reasons onto the Gemini vocabulary used by
// the structuring layer.
var finishReasons = map[string]string{
	"stop":           "STOP",
	"length":         "MAX_TOKENS",
	"content_filter": "SAFETY",
}

// Generator adapts Client to advisory.Generator.
type Generator struct {
	cfg    GeneratorConfig
	client *Client
}

// NewGenerator builds a Generator. A missing key is reported per call.
func NewGenerator(cfg GeneratorConfig) *Generator {
	g := &Generator{cfg: cfg}
	if client, err := NewClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout); err == nil {
		g.client = client
	}
	return g
}

// Configured implements advisory.Generator.
func (g *Generator) Configured() bool {
	return g.client != nil
}

// Generate implements advisory.Generator.
func (g *Generator) Generate(ctx context.Context, req advisory.GenerateRequest) (advisory.Generation, error) {
	if g.client == nil {
		return advisory.Generation{}, fmt.Errorf("chatgpt: %w", advisory.ErrNotConfigured)
	}
	model := req.Model
	if model == "" {
		model = g.cfg.Model
	}

	messages := make([]Message, 0, 2)
	if strings.TrimSpace(req.SystemPrompt) != "" {
		messages = append(messages, Message{Role: "system", Content: req.SystemPrompt})
	}
	if req.Image != nil {
		dataURL := "data:" + req.Image.MimeType + ";base64," + base64.StdEncoding.EncodeToString(req.Image.Data)
		messages = append(messages, Message{Role: "user", Content: []ContentPart{
			{Type: "text", Text: req.Prompt},
			{Type: "image_url", ImageURL: &ImageURL{URL: dataURL}},
		}})
	} else {
		messages = append(messages, Message{Role: "user", Content: req.Prompt})
	}

	chatReq := ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxOutputTokens,
	}
	if req.JSON {
		chatReq.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}

	completion, err := g.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return advisory.Generation{}, err
	}
	out := advisory.Generation{
		Model: model,
		Usage: metrics.TokenUsage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
			TotalTokens:      completion.Usage.TotalTokens,
		},
	}
	if completion.Model != "" {
		out.Model = completion.Model
	}
	if len(completion.Choices) == 0 {
		return out, nil
	}
	choice := completion.Choices[0]
	out.Text = choice.Message.Content
	out.FinishReason = strings.ToUpper(choice.FinishReason)
	if mapped, ok := finishReasons[choice.FinishReason]; ok {
		out.FinishReason = mapped
	}
	if choice.Message.Refusal != "" {
		out.BlockReason = "REFUSAL"
	}
	return out, nil
}

var _ advisory.Generator = (*Generator)(nil)
