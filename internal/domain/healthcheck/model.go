package healthcheck

import (
	"github.com/beejsebazaar/advisor/internal/domain/structurer"
	"github.com/beejsebazaar/advisor/pkg/metrics"
)

// DiagnoseRequest carries one crop photo and optional context.
type DiagnoseRequest struct {
	Image    []byte
	MimeType string
	Crop     string
	Notes    string
}

// DiagnoseResponse is the vision model's assessment.
type DiagnoseResponse struct {
	MimeType string               `json:"mimeType"`
	Analysis string               `json:"analysis"`
	Sections []structurer.Section `json:"sections"`
	Fallback bool                 `json:"fallback"`
	Usage    metrics.TokenUsage   `json:"usage"`
}

// DiseaseRequest names a disease detected elsewhere (for example by an
// image classifier).
type DiseaseRequest struct {
	Disease string `json:"disease"`
	Crop    string `json:"crop,omitempty"`
}

// DiseaseResponse explains a named disease.
type DiseaseResponse struct {
	Disease  string               `json:"disease"`
	Sections []structurer.Section `json:"sections"`
	Fallback bool                 `json:"fallback"`
	Raw      string               `json:"raw"`
	Usage    metrics.TokenUsage   `json:"usage"`
}

// Config holds prompt and upload settings.
type Config struct {
	Persona       string
	Model         string
	VisionModel   string
	MaxImageBytes int64
}
