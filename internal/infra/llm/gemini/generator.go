// Package gemini implements advisory.Generator on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	"github.com/beejsebazaar/advisor/pkg/metrics"
)

// Config selects the model and sampling settings.
type Config struct {
	APIKey          string
	BaseURL         string
	APIVersion      string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	Timeout         time.Duration
}

// Generator calls Models.GenerateContent once per request. The client is
// created on first use so a missing key only affects generation calls.
type Generator struct {
	cfg Config

	once   sync.Once
	client *genai.Client
	err    error
}

// NewGenerator builds a Generator.
func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Configured implements advisory.Generator.
func (g *Generator) Configured() bool {
	return strings.TrimSpace(g.cfg.APIKey) != ""
}

// Generate implements advisory.Generator.
func (g *Generator) Generate(ctx context.Context, req advisory.GenerateRequest) (advisory.Generation, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return advisory.Generation{}, err
	}

	model := req.Model
	if model == "" {
		model = g.cfg.Model
	}
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Image != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Image.Data, req.Image.MimeType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, model, contents, g.contentConfig(req))
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return advisory.Generation{}, fmt.Errorf("gemini: status=%d %s: %w", apiErr.Code, apiErr.Message, err)
		}
		return advisory.Generation{}, fmt.Errorf("gemini: %w", err)
	}
	return toGeneration(model, resp), nil
}

func (g *Generator) contentConfig(req advisory.GenerateRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.cfg.Temperature),
	}
	if g.cfg.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = g.cfg.MaxOutputTokens
	}
	if strings.TrimSpace(req.SystemPrompt) != "" {
		cfg.SystemInstruction = genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(req.SystemPrompt)}, genai.RoleUser)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}

func (g *Generator) getClient(ctx context.Context) (*genai.Client, error) {
	if strings.TrimSpace(g.cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: %w", advisory.ErrNotConfigured)
	}
	g.once.Do(func() {
		opts := genai.HTTPOptions{BaseURL: g.cfg.BaseURL, APIVersion: g.cfg.APIVersion}
		if g.cfg.Timeout > 0 {
			opts.Timeout = genai.Ptr(g.cfg.Timeout)
		}
		g.client, g.err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      g.cfg.APIKey,
			Backend:     genai.BackendGeminiAPI,
			HTTPOptions: opts,
		})
	})
	if g.err != nil {
		return nil, fmt.Errorf("gemini client: %w", g.err)
	}
	return g.client, nil
}

func toGeneration(model string, resp *genai.GenerateContentResponse) advisory.Generation {
	out := advisory.Generation{Model: model}
	if resp == nil {
		return out
	}
	out.Text = resp.Text()
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != genai.BlockedReasonUnspecified {
		out.BlockReason = string(fb.BlockReason)
	}
	if usage := resp.UsageMetadata; usage != nil {
		out.Usage = metrics.TokenUsage{
			PromptTokens:     int(usage.PromptTokenCount),
			CompletionTokens: int(usage.CandidatesTokenCount),
			TotalTokens:      int(usage.TotalTokenCount),
		}
	}
	return out
}

var _ advisory.Generator = (*Generator)(nil)
