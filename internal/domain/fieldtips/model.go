package fieldtips

import (
	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	"github.com/beejsebazaar/advisor/pkg/metrics"
)

// Categories offered by the smart tips form.
var Categories = []string{
	"Fertilizer Application",
	"Pest & Disease Management",
	"Irrigation Scheduling",
	"Harvesting Timing & Techniques",
	"General Crop Health",
	"Sustainable & Organic Practices",
	"Soil Health Management",
}

// ResourceOptions offered by the resource optimizer form.
var ResourceOptions = []string{"Water", "Labor", "Fertilizer", "Tools", "Tractor", "Pesticides"}

// OptimizeRequest asks how to make the most of the listed resources.
type OptimizeRequest struct {
	Crop      string   `json:"crop"`
	City      string   `json:"city"`
	Resources []string `json:"resources"`
}

// TipsRequest asks for tips in one category, optionally about one issue.
type TipsRequest struct {
	Crop          string `json:"crop"`
	City          string `json:"city"`
	Category      string `json:"category"`
	SpecificIssue string `json:"specificIssue,omitempty"`
}

// Response is a flat list of suggestions with the weather they considered.
type Response struct {
	Weather advisory.WeatherContext `json:"weather"`
	Items   []string                `json:"items"`
	Raw     string                  `json:"raw"`
	Usage   metrics.TokenUsage      `json:"usage"`
}

// Config holds prompt settings.
type Config struct {
	Persona        string
	Model          string
	MaxSuggestions int
}
