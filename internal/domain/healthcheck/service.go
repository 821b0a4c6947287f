package healthcheck

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
	featureDiagnose = "health_check"
	featureDisease  = "disease_guide"
)

// DiseaseHeadings are the numbered sections of a disease guide.
var DiseaseHeadings = []string{
	"Overview",
	"Common Symptoms",
	"Preventive Measures",
	"Treatment Techniques",
	"Common Medicines Used",
}

// Service diagnoses crop photos and explains named diseases.
type Service interface {
	Diagnose(ctx context.Context, req DiagnoseRequest) (DiagnoseResponse, error)
	DiseaseGuide(ctx context.Context, req DiseaseRequest) (DiseaseResponse, error)
}

type service struct {
	cfg    Config
	gen    advisory.Generator
	logger *slog.Logger
}

// NewService wires the crop health checker.
func NewService(cfg Config, gen advisory.Generator, logger *slog.Logger) Service {
	if cfg.VisionModel == "" {
		cfg.VisionModel = cfg.Model
	}
	return &service{cfg: cfg, gen: gen, logger: logger.With("component", "healthcheck.service")}
}

func (s *service) Diagnose(ctx context.Context, req DiagnoseRequest) (DiagnoseResponse, error) {
	mimeType, err := resolveImageType(req.Image, req.MimeType, s.cfg.MaxImageBytes)
	if err != nil {
		return DiagnoseResponse{}, err
	}

	result, err := advisory.Run(ctx, s.gen, advisory.GenerateRequest{
		Feature:      featureDiagnose,
		Model:        s.cfg.VisionModel,
		SystemPrompt: s.cfg.Persona,
		Prompt:       diagnosePrompt(req.Crop, req.Notes),
		Image:        &advisory.InlineImage{Data: req.Image, MimeType: mimeType},
	}, s.logger)
	if err != nil {
		return DiagnoseResponse{}, err
	}
	if err := advisory.RequireAnswer(result); err != nil {
		return DiagnoseResponse{}, err
	}

	sections, fallback := s.sections(featureDiagnose, result.Text)
	s.logger.Info("crop photo analysed", "mime_type", mimeType, "bytes", len(req.Image), "sections", len(sections))
	return DiagnoseResponse{
		MimeType: mimeType,
		Analysis: result.Text,
		Sections: sections,
		Fallback: fallback,
		Usage:    result.Usage,
	}, nil
}

func (s *service) DiseaseGuide(ctx context.Context, req DiseaseRequest) (DiseaseResponse, error) {
	disease := strings.TrimSpace(req.Disease)
	if err := advisory.Required("disease", disease); err != nil {
		return DiseaseResponse{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The detected crop disease is: %s.\n", disease)
	if crop := strings.TrimSpace(req.Crop); crop != "" {
		fmt.Fprintf(&b, "The affected crop is %s.\n", crop)
	}
	b.WriteString("Provide the following in plain text with these exact numbered headings, one point per line under each heading, and no markdown:\n")
	for i, heading := range DiseaseHeadings {
		fmt.Fprintf(&b, "%d. %s\n", i+1, heading)
	}

	result, err := advisory.Run(ctx, s.gen, advisory.GenerateRequest{
		Feature:      featureDisease,
		Model:        s.cfg.Model,
		SystemPrompt: s.cfg.Persona,
		Prompt:       b.String(),
	}, s.logger)
	if err != nil {
		return DiseaseResponse{}, err
	}
	if err := advisory.RequireAnswer(result); err != nil {
		return DiseaseResponse{}, err
	}

	sections, fallback := s.sections(featureDisease, result.Text)
	return DiseaseResponse{
		Disease:  disease,
		Sections: sections,
		Fallback: fallback,
		Raw:      result.Text,
		Usage:    result.Usage,
	}, nil
}

func (s *service) sections(feature, text string) ([]structurer.Section, bool) {
	sections, fallback := structurer.ParseSectionsWithFallback(text)
	if fallback {
		metrics.StructuringFallbacks.WithLabelValues("general_guidance").Inc()
		s.logger.Warn("reply had no numbered headings", "kind", "general_guidance", "feature", feature)
	}
	return sections, fallback
}

func diagnosePrompt(crop, notes string) string {
	var b strings.Builder
	b.WriteString("You are an expert plant pathologist and agronomist. Analyze the uploaded image of a plant.\n")
	if crop = strings.TrimSpace(crop); crop != "" {
		fmt.Fprintf(&b, "The farmer says the plant is %s.\n", crop)
	}
	if notes = strings.TrimSpace(notes); notes != "" {
		fmt.Fprintf(&b, "Farmer's notes: %q\n", notes)
	}
	b.WriteString(`
Answer with these numbered headings, one point per line under each, and no markdown:
1. Health Assessment
State whether the plant appears healthy or unhealthy.
2. Identify Issue
If unhealthy, name the most likely cause (disease, pest, nutrient deficiency or stress).
3. Recommended Actions
Give actionable steps or general care tips.`)
	return b.String()
}
