package fieldtips

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	"github.com/beejsebazaar/advisor/internal/domain/structurer"
	"github.com/beejsebazaar/advisor/pkg/metrics"
)

const (
	featureOptimize = "resource_optimization"
	featureTips     = "smart_tips"
)

// Service produces weather-aware line-per-item advice.
type Service interface {
	Optimize(ctx context.Context, req OptimizeRequest) (Response, error)
	Tips(ctx context.Context, req TipsRequest) (Response, error)
}

type service struct {
	cfg     Config
	gen     advisory.Generator
	weather advisory.WeatherService
	logger  *slog.Logger
}

// NewService wires the resource optimizer and smart tips.
func NewService(cfg Config, gen advisory.Generator, weather advisory.WeatherService, logger *slog.Logger) Service {
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = 8
	}
	return &service{cfg: cfg, gen: gen, weather: weather, logger: logger.With("component", "fieldtips.service")}
}

func (s *service) Optimize(ctx context.Context, req OptimizeRequest) (Response, error) {
	if err := advisory.Required("crop", req.Crop, "city", req.City); err != nil {
		return Response{}, err
	}
	if err := advisory.EnsureConfigured(s.gen); err != nil {
		return Response{}, err
	}
	weather, err := s.weather.Current(ctx, req.City)
	if err != nil {
		return Response{}, err
	}

	resources := strings.Join(advisory.CleanList(req.Resources), ", ")
	if resources == "" {
		resources = "Limited resources specified (assume basic availability)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "A farmer is growing %q in %s.\n", strings.TrimSpace(req.Crop), advisory.Place(weather))
	fmt.Fprintf(&b, "Current weather: %s.\n", advisory.DescribeWeather(weather))
	fmt.Fprintf(&b, "Available resources: %s.\n\n", resources)
	b.WriteString("Give practical, actionable suggestions for optimizing the listed resources (or general resources if none are listed), including alternatives for limited resources and ways to improve yield in the current weather.\n\n")
	b.WriteString("Output rules:\n- One concise suggestion per line.\n- No markdown or bullet characters.\n")
	fmt.Fprintf(&b, "- At most %d suggestions.\n\nBegin the suggestions directly.", s.cfg.MaxSuggestions)

	return s.generate(ctx, featureOptimize, weather, b.String())
}

func (s *service) Tips(ctx context.Context, req TipsRequest) (Response, error) {
	if err := advisory.Required("crop", req.Crop, "city", req.City, "category", req.Category); err != nil {
		return Response{}, err
	}
	if err := advisory.EnsureConfigured(s.gen); err != nil {
		return Response{}, err
	}
	weather, err := s.weather.Current(ctx, req.City)
	if err != nil {
		return Response{}, err
	}

	category := strings.TrimSpace(req.Category)
	var b strings.Builder
	fmt.Fprintf(&b, "A farmer is growing %q in %s and needs advice specifically about %q.\n", strings.TrimSpace(req.Crop), advisory.Place(weather), category)
	if issue := strings.TrimSpace(req.SpecificIssue); issue != "" {
		fmt.Fprintf(&b, "Specific problem described: %q. Address this primarily.\n", issue)
	} else {
		b.WriteString("Provide general tips for the selected category.\n")
	}
	fmt.Fprintf(&b, "\nCurrent weather: %s. Consider how it affects the advice for %q.\n\n", advisory.DescribeWeather(weather), category)
	b.WriteString("Output rules:\n1. Each tip on its own line.\n2. No markdown or bullet characters.\n3. Output only the tips, starting directly with the first one.")

	return s.generate(ctx, featureTips, weather, b.String())
}

func (s *service) generate(ctx context.Context, feature string, weather advisory.WeatherContext, prompt string) (Response, error) {
	result, err := advisory.Run(ctx, s.gen, advisory.GenerateRequest{
		Feature:      feature,
		Model:        s.cfg.Model,
		SystemPrompt: s.cfg.Persona,
		Prompt:       prompt,
	}, s.logger)
	if err != nil {
		return Response{}, err
	}
	if err := advisory.RequireAnswer(result); err != nil {
		return Response{}, err
	}

	items := structurer.ParseLines(result.Text)
	if len(items) == 0 {
		metrics.StructuringFallbacks.WithLabelValues("empty_list").Inc()
		s.logger.Warn("reply had no usable lines", "kind", "empty_list", "feature", feature)
	}
	return Response{Weather: weather, Items: items, Raw: result.Text, Usage: result.Usage}, nil
}
