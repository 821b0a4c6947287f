package cropalert

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	"github.com/beejsebazaar/advisor/internal/domain/structurer"
	"github.com/beejsebazaar/advisor/pkg/metrics"
)

const feature = "crop_alert"

// Request names the crop and where it grows.
type Request struct {
	Crop string `json:"crop"`
	City string `json:"city"`
}

// Response holds the cleaned day-by-day alert. Alert is the display text;
// Days are the same blocks individually.
type Response struct {
	Weather advisory.WeatherContext `json:"weather"`
	Alert   string                  `json:"alert"`
	Days    []string                `json:"days"`
	Raw     string                  `json:"raw"`
	Usage   metrics.TokenUsage      `json:"usage"`
}

// Config holds prompt settings.
type Config struct {
	Persona      string
	Model        string
	ForecastDays int
}

// Service produces weather-linked crop alerts.
type Service interface {
	Forecast(ctx context.Context, req Request) (Response, error)
}

type service struct {
	cfg     Config
	gen     advisory.Generator
	weather advisory.WeatherService
	logger  *slog.Logger
}

// NewService wires the crop alert forecaster.
func NewService(cfg Config, gen advisory.Generator, weather advisory.WeatherService, logger *slog.Logger) Service {
	if cfg.ForecastDays <= 0 {
		cfg.ForecastDays = 7
	}
	return &service{cfg: cfg, gen: gen, weather: weather, logger: logger.With("component", "cropalert.service")}
}

func (s *service) Forecast(ctx context.Context, req Request) (Response, error) {
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

	result, err := advisory.Run(ctx, s.gen, advisory.GenerateRequest{
		Feature:      feature,
		Model:        s.cfg.Model,
		SystemPrompt: s.cfg.Persona,
		Prompt:       s.buildPrompt(strings.TrimSpace(req.Crop), weather),
	}, s.logger)
	if err != nil {
		return Response{}, err
	}
	if err := advisory.RequireAnswer(result); err != nil {
		return Response{}, err
	}

	days := structurer.DayBlocks(structurer.StripMarkdown(result.Text))
	if len(days) != s.cfg.ForecastDays {
		metrics.StructuringFallbacks.WithLabelValues("day_count").Inc()
		s.logger.Warn("unexpected number of day blocks", "kind", "day_count", "want", s.cfg.ForecastDays, "got", len(days))
	}
	return Response{
		Weather: weather,
		Alert:   structurer.JoinBlocks(days),
		Days:    days,
		Raw:     result.Text,
		Usage:   result.Usage,
	}, nil
}

func (s *service) buildPrompt(crop string, w advisory.WeatherContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A farmer is growing %s in %s.\n", crop, advisory.Place(w))
	b.WriteString("Current weather:\n")
	fmt.Fprintf(&b, "Temperature: %.1f°C\n", w.Temperature)
	fmt.Fprintf(&b, "Feels Like: %.1f°C\n", w.FeelsLike)
	fmt.Fprintf(&b, "Humidity: %d%%\n", w.Humidity)
	fmt.Fprintf(&b, "Weather Description: %s\n\n", w.Description)
	fmt.Fprintf(&b, "Generate a %d-day forecast prediction with short, actionable crop-specific suggestions in plain text. Avoid any markdown formatting. Use this format:\n", s.cfg.ForecastDays)
	b.WriteString("Day 1: ...\nDay 2: ...\n...\n")
	fmt.Fprintf(&b, "Day %d: ...", s.cfg.ForecastDays)
	return b.String()
}
