package cropplan

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	"github.com/beejsebazaar/advisor/internal/domain/structurer"
	"github.com/beejsebazaar/advisor/pkg/metrics"
)

const feature = "crop_plan"

// Service recommends a primary crop and an optional follow-on crop.
type Service interface {
	Suggest(ctx context.Context, req Request) (Response, error)
}

type service struct {
	cfg    Config
	gen    advisory.Generator
	logger *slog.Logger
}

// NewService wires the crop planner.
func NewService(cfg Config, gen advisory.Generator, logger *slog.Logger) Service {
	return &service{cfg: cfg, gen: gen, logger: logger.With("component", "cropplan.service")}
}

func (s *service) Suggest(ctx context.Context, req Request) (Response, error) {
	if err := advisory.Required("location", req.Location, "soilType", req.SoilType, "sowingMonth", req.SowingMonth); err != nil {
		return Response{}, err
	}

	result, err := advisory.Run(ctx, s.gen, advisory.GenerateRequest{
		Feature:      feature,
		Model:        s.cfg.Model,
		SystemPrompt: s.cfg.Persona,
		Prompt:       buildPrompt(req),
		JSON:         true,
	}, s.logger)
	if err != nil {
		return Response{}, err
	}

	rec := structurer.ExtractRecommendation(result.Reply())
	warnings := []string{}
	if rec.Failed() {
		metrics.StructuringFallbacks.WithLabelValues(string(rec.ErrorKind)).Inc()
		s.logger.Warn("crop recommendation unavailable", "kind", rec.ErrorKind, "message", rec.Error)
	} else {
		warnings, err = schemaWarnings(rec.Fields)
		if err != nil {
			s.logger.Error("recommendation schema check failed", "error", err)
			warnings = []string{}
		}
		if len(warnings) > 0 {
			metrics.StructuringFallbacks.WithLabelValues("schema_warning").Inc()
			s.logger.Warn("recommendation incomplete", "kind", "schema_warning", "warnings", warnings)
		}
	}

	return Response{
		Recommendation: rec,
		Warnings:       warnings,
		Raw:            result.Text,
		Usage:          result.Usage,
	}, nil
}

func buildPrompt(req Request) string {
	preferred := strings.TrimSpace(req.PreferredCrop)
	if preferred == "" {
		preferred = "None"
	}
	water := strings.Join(advisory.CleanList(req.WaterSources), ", ")
	if water == "" {
		water = "Not specified, assume primarily Rainfed"
	}

	var b strings.Builder
	b.WriteString("Analyze the farmer data below and recommend the most suitable primary crop, and optionally a sequential secondary crop if one fits the available time.\n\n")
	b.WriteString("Farmer data:\n")
	fmt.Fprintf(&b, "- location: %s\n", strings.TrimSpace(req.Location))
	fmt.Fprintf(&b, "- soil_type: %s\n", strings.TrimSpace(req.SoilType))
	fmt.Fprintf(&b, "- rainfall_mm: %g\n", req.Rainfall)
	fmt.Fprintf(&b, "- preferred_total_duration_available: %s\n", strings.TrimSpace(req.PreferredDuration))
	fmt.Fprintf(&b, "- preferred_initial_crop: %s\n", preferred)
	fmt.Fprintf(&b, "- planned_sowing_month: %s\n", strings.TrimSpace(req.SowingMonth))
	fmt.Fprintf(&b, "- available_water_sources: %s\n\n", water)
	b.WriteString(`Instructions:
1. Pick the primary crop for the location, soil, rainfall, water sources and sowing month. Recommend the preferred crop only if it genuinely suits all of them.
2. Give its duration, sowing season, 3-5 care tips, climate, irrigation needs (considering rainfall and water sources) and fertilizer recommendations.
3. Compute remaining_duration = preferred total duration minus the primary crop duration (use the upper end of ranges, months as 30 days).
4. Add secondary_crop_suggestion only when remaining_duration is above about 75 days AND a different crop fits the season right after the primary harvest. Otherwise omit the key entirely.

Reply with ONLY one raw JSON object, no prose and no markdown:
{"crop": "string", "sowing_season": "string", "duration": "string", "care_tips": ["string"], "climate": "string", "irrigation_needs": "string", "fertilizer_recommendations": "string", "secondary_crop_suggestion": {"crop": "string", "sowing_season": "string", "duration": "string"}}
`)
	return b.String()
}
