package cropplan

import (
	"github.com/beejsebazaar/advisor/internal/domain/structurer"
	"github.com/beejsebazaar/advisor/pkg/metrics"
)

// Request is the farmer's crop planning form.
type Request struct {
	Location          string   `json:"location"`
	SoilType          string   `json:"soilType"`
	Rainfall          float64  `json:"rainfall"`
	PreferredDuration string   `json:"preferredDuration"`
	PreferredCrop     string   `json:"preferredCrop"`
	SowingMonth       string   `json:"sowingMonth"`
	WaterSources      []string `json:"waterSources"`
}

// Response carries the extracted recommendation. A failed extraction is
// still a successful response whose recommendation has error set.
type Response struct {
	Recommendation structurer.Recommendation `json:"recommendation"`
	Warnings       []string                  `json:"warnings"`
	Raw            string                    `json:"raw"`
	Usage          metrics.TokenUsage        `json:"usage"`
}

// Config holds prompt settings.
type Config struct {
	Persona string
	Model   string
}
