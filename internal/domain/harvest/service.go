package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	apperrors "github.com/beejsebazaar/advisor/pkg/errors"
)

// Readiness statuses.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
)

// Request asks for a harvest plan. City is optional; without it no weather
// readiness is reported.
type Request struct {
	Crop  string  `json:"crop"`
	Acres float64 `json:"acres"`
	City  string  `json:"city,omitempty"`
}

// Readiness is the weather-based go/no-go for harvesting now.
type Readiness struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
	RainExpected   bool   `json:"rainExpected"`
}

// Response is a complete harvest plan.
type Response struct {
	Crop              CropProfile              `json:"crop"`
	Acres             float64                  `json:"acres"`
	ExpectedYieldTons float64                  `json:"expectedYieldTons"`
	HarvestingCost    float64                  `json:"harvestingCost"`
	Weather           *advisory.WeatherContext `json:"weather,omitempty"`
	Forecast          []advisory.ForecastEntry `json:"forecast,omitempty"`
	Readiness         *Readiness               `json:"readiness,omitempty"`
}

// Config tunes the readiness check.
type Config struct {
	// ReadinessEntries is how many leading forecast entries are checked for rain.
	ReadinessEntries int
	// ForecastEntries caps the forecast echoed in the plan.
	ForecastEntries int
}

// Service builds harvest plans from static crop data and live weather.
type Service interface {
	Plan(ctx context.Context, req Request) (Response, error)
	Crops() []CropProfile
}

type service struct {
	cfg     Config
	weather advisory.WeatherService
	logger  *slog.Logger
}

// NewService wires the harvest planner.
func NewService(cfg Config, weather advisory.WeatherService, logger *slog.Logger) Service {
	if cfg.ReadinessEntries <= 0 {
		cfg.ReadinessEntries = 3
	}
	if cfg.ForecastEntries <= 0 {
		cfg.ForecastEntries = 7
	}
	return &service{cfg: cfg, weather: weather, logger: logger.With("component", "harvest.service")}
}

func (s *service) Crops() []CropProfile {
	return Crops()
}

func (s *service) Plan(ctx context.Context, req Request) (Response, error) {
	if err := advisory.Required("crop", req.Crop); err != nil {
		return Response{}, err
	}
	profile, ok := Lookup(req.Crop)
	if !ok {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown crop: %s", strings.TrimSpace(req.Crop)), nil)
	}
	if req.Acres <= 0 || math.IsNaN(req.Acres) || math.IsInf(req.Acres, 0) {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "acres must be a positive number", nil)
	}

	resp := Response{
		Crop:              profile,
		Acres:             req.Acres,
		ExpectedYieldTons: round2(profile.YieldPerAcre * req.Acres),
		HarvestingCost:    round2(profile.CostPerAcre * req.Acres),
	}

	city := strings.TrimSpace(req.City)
	if city == "" {
		return resp, nil
	}

	var (
		current  advisory.WeatherContext
		forecast []advisory.ForecastEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.weather.Current(gctx, city)
		return err
	})
	g.Go(func() error {
		var err error
		forecast, err = s.weather.Forecast(gctx, city)
		return err
	})
	if err := g.Wait(); err != nil {
		return Response{}, err
	}

	if len(forecast) > s.cfg.ForecastEntries {
		forecast = forecast[:s.cfg.ForecastEntries]
	}
	readiness := assessReadiness(forecast, s.cfg.ReadinessEntries)
	resp.Weather = &current
	resp.Forecast = forecast
	resp.Readiness = &readiness
	s.logger.Info("harvest plan built", "crop", profile.Key, "acres", req.Acres, "city", city, "status", readiness.Status)
	return resp, nil
}

func assessReadiness(forecast []advisory.ForecastEntry, window int) Readiness {
	if len(forecast) < window {
		window = len(forecast)
	}
	for _, entry := range forecast[:window] {
		if rainy(entry) {
			return Readiness{
				Status:         StatusWarning,
				Message:        fmt.Sprintf("Consider early harvest - Rain expected in the next %d forecast periods", window),
				Recommendation: "Schedule harvest as soon as possible to avoid weather damage",
				RainExpected:   true,
			}
		}
	}
	return Readiness{
		Status:         StatusSuccess,
		Message:        "Safe to harvest - Good weather expected",
		Recommendation: "Proceed with normal harvest schedule",
	}
}

func rainy(entry advisory.ForecastEntry) bool {
	if entry.RainMM > 0 {
		return true
	}
	switch strings.ToLower(entry.Condition) {
	case "rain", "drizzle", "thunderstorm":
		return true
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
