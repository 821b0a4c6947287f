package advisory

import (
	"context"
	"errors"
	"time"

	"github.com/beejsebazaar/advisor/internal/domain/structurer"
	"github.com/beejsebazaar/advisor/pkg/metrics"
)

// ErrNotConfigured is returned by adapters whose credentials are absent.
var ErrNotConfigured = errors.New("credentials not configured")

// Weather lookup failures reported by providers.
var (
	ErrCityNotFound        = errors.New("city not found")
	ErrWeatherUnauthorized = errors.New("weather api key rejected")
)

// InlineImage is an image sent alongside a prompt.
type InlineImage struct {
	Data     []byte
	MimeType string
}

// GenerateRequest describes one call to the generation endpoint.
type GenerateRequest struct {
	Feature      string
	Model        string
	SystemPrompt string
	Prompt       string
	Image        *InlineImage
	JSON         bool
}

// Generation is the raw outcome of a generation call.
type Generation struct {
	Text         string
	FinishReason string
	BlockReason  string
	Model        string
	Usage        metrics.TokenUsage
}

// Reply adapts the generation for the structuring layer.
func (g Generation) Reply() structurer.Reply {
	return structurer.Reply{Text: g.Text, FinishReason: g.FinishReason, BlockReason: g.BlockReason}
}

// Generator produces text (or JSON) from a prompt and optional image.
// Configured reports whether credentials are present, so callers can refuse
// a request before contacting any other upstream.
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, req GenerateRequest) (Generation, error)
}

// WeatherContext is the current weather used as prompt context and shown verbatim.
type WeatherContext struct {
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feelsLike"`
	TempMin     float64 `json:"tempMin"`
	TempMax     float64 `json:"tempMax"`
	Humidity    int     `json:"humidity"`
	Description string  `json:"description"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
}

// ForecastEntry is one slot of the multi-day forecast.
type ForecastEntry struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Humidity    int       `json:"humidity"`
	Condition   string    `json:"condition"`
	Description string    `json:"description"`
	RainMM      float64   `json:"rainMm"`
}

// WeatherProvider fetches weather for a place name.
type WeatherProvider interface {
	Current(ctx context.Context, city string) (WeatherContext, error)
	Forecast(ctx context.Context, city string) ([]ForecastEntry, error)
}
