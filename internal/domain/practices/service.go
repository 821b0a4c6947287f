package practices

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	"github.com/beejsebazaar/advisor/internal/domain/structurer"
	apperrors "github.com/beejsebazaar/advisor/pkg/errors"
	"github.com/beejsebazaar/advisor/pkg/metrics"
)

const feature = "best_practices"

// Headings are the numbered sections every guide is asked for, in order.
var Headings = []string{
	"Soil Selection and Preparation",
	"Sowing (Planting)",
	"Irrigation",
	"Fertilization",
	"Weed Management",
	"Pest and Disease Management",
	"Harvesting",
	"Key Tips for Success",
}

// Request names the crop and how many days old it is.
type Request struct {
	Crop        string `json:"crop"`
	CropAgeDays int    `json:"cropAgeDays"`
}

// Response is a guide split into titled sections.
type Response struct {
	Crop        string               `json:"crop"`
	CropAgeDays int                  `json:"cropAgeDays"`
	Sections    []structurer.Section `json:"sections"`
	Fallback    bool                 `json:"fallback"`
	Raw         string               `json:"raw"`
	Usage       metrics.TokenUsage   `json:"usage"`
}

// Config holds prompt settings.
type Config struct {
	Persona string
	Model   string
}

// Service generates age-aware best practice guides.
type Service interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

type service struct {
	cfg    Config
	gen    advisory.Generator
	logger *slog.Logger
}

// NewService wires the best practices guide.
func NewService(cfg Config, gen advisory.Generator, logger *slog.Logger) Service {
	return &service{cfg: cfg, gen: gen, logger: logger.With("component", "practices.service")}
}

func (s *service) Generate(ctx context.Context, req Request) (Response, error) {
	crop := strings.TrimSpace(req.Crop)
	if err := advisory.Required("crop", crop); err != nil {
		return Response{}, err
	}
	if req.CropAgeDays <= 0 {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "cropAgeDays must be a positive number of days", nil)
	}

	result, err := advisory.Run(ctx, s.gen, advisory.GenerateRequest{
		Feature:      feature,
		Model:        s.cfg.Model,
		SystemPrompt: s.cfg.Persona,
		Prompt:       buildPrompt(crop, req.CropAgeDays),
	}, s.logger)
	if err != nil {
		return Response{}, err
	}
	if err := advisory.RequireAnswer(result); err != nil {
		return Response{}, err
	}

	sections, fallback := structurer.ParseSectionsWithFallback(result.Text)
	if fallback {
		metrics.StructuringFallbacks.WithLabelValues("general_guidance").Inc()
		s.logger.Warn("guide had no numbered headings", "kind", "general_guidance", "crop", crop)
	}
	return Response{
		Crop:        crop,
		CropAgeDays: req.CropAgeDays,
		Sections:    sections,
		Fallback:    fallback,
		Raw:         result.Text,
		Usage:       result.Usage,
	}, nil
}

var ageFocus = map[string]string{
	"Irrigation":                  "needs at %d days",
	"Fertilization":               "needs at %d days",
	"Weed Management":             "methods relevant at %d days",
	"Pest and Disease Management": "risks and actions at %d days",
}

func buildPrompt(crop string, age int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate detailed best farming practices for growing %q, considering the crop is currently %d days old.\n\n", crop, age)
	b.WriteString("Strictly follow this structure, using these exact numbered headings. Under each heading put one point of advice per line. Do not use any markdown (no \"-\", \"*\", \"_\" or \"**\") in the points.\n\n")
	for i, heading := range Headings {
		fmt.Fprintf(&b, "%d. %s\n", i+1, heading)
		if focus, ok := ageFocus[heading]; ok {
			fmt.Fprintf(&b, "Point text (focus on %s)\n", fmt.Sprintf(focus, age))
		} else {
			b.WriteString("Point text\n")
		}
		b.WriteString("...\n")
	}
	fmt.Fprintf(&b, "\nMake Irrigation, Fertilization, Weed Management and Pest and Disease Management specific to the current age (%d days). Be precise, practical and farmer-friendly. Output only the structured text.", age)
	return b.String()
}
