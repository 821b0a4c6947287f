package advisory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/beejsebazaar/advisor/pkg/errors"
)

// WeatherService validates lookups and maps provider failures to app errors.
type WeatherService interface {
	Current(ctx context.Context, city string) (WeatherContext, error)
	Forecast(ctx context.Context, city string) ([]ForecastEntry, error)
}

type weatherService struct {
	provider WeatherProvider
	logger   *slog.Logger
}

// NewWeatherService wraps a provider.
func NewWeatherService(provider WeatherProvider, logger *slog.Logger) WeatherService {
	return &weatherService{provider: provider, logger: logger.With("component", "advisory.weather")}
}

func (s *weatherService) Current(ctx context.Context, city string) (WeatherContext, error) {
	place := strings.TrimSpace(city)
	if place == "" {
		return WeatherContext{}, apperrors.Wrap(apperrors.CodeInvalidInput, "city is required", nil)
	}
	weather, err := s.provider.Current(ctx, place)
	if err != nil {
		return WeatherContext{}, s.mapError(place, err)
	}
	s.logger.Info("weather fetched", "city", weather.City, "country", weather.Country)
	return weather, nil
}

func (s *weatherService) Forecast(ctx context.Context, city string) ([]ForecastEntry, error) {
	place := strings.TrimSpace(city)
	if place == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "city is required", nil)
	}
	entries, err := s.provider.Forecast(ctx, place)
	if err != nil {
		return nil, s.mapError(place, err)
	}
	return entries, nil
}

func (s *weatherService) mapError(city string, err error) error {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return apperrors.Wrap(apperrors.CodeConfigMissing, "weather lookup is not configured: the API key is missing", err)
	case errors.Is(err, ErrCityNotFound):
		return apperrors.Wrap(apperrors.CodeWeatherNotFound, fmt.Sprintf("City not found: %s", city), err)
	case errors.Is(err, ErrWeatherUnauthorized):
		return apperrors.Wrap(apperrors.CodeWeatherUnauthorized, "Invalid weather API key", err)
	default:
		s.logger.Error("weather lookup failed", "city", city, "error", err)
		return apperrors.Wrap(apperrors.CodeWeatherError, "failed to fetch weather data", err)
	}
}

// DescribeWeather renders weather for prompts.
func DescribeWeather(w WeatherContext) string {
	return fmt.Sprintf("%.1f°C, %d%% humidity, Condition: %s", w.Temperature, w.Humidity, w.Description)
}

// Place renders "City, CC".
func Place(w WeatherContext) string {
	if w.Country == "" {
		return w.City
	}
	return w.City + ", " + w.Country
}
