package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Config configures the OpenWeather client.
type Config struct {
	APIKey  string
	BaseURL string
	Units   string
	Timeout time.Duration
}

// Client fetches current weather and the 5 day / 3 hour forecast.
type Client struct {
	apiKey     string
	baseURL    string
	units      string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(cfg Config) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	units := cfg.Units
	if units == "" {
		units = "metric"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: strings.TrimRight(base, "/"),
		units:   units,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Current implements advisory.WeatherProvider.
func (c *Client) Current(ctx context.Context, city string) (advisory.WeatherContext, error) {
	var raw currentResponse
	if err := c.get(ctx, "/weather", city, &raw); err != nil {
		return advisory.WeatherContext{}, err
	}
	out := advisory.WeatherContext{
		Temperature: raw.Main.Temp,
		FeelsLike:   raw.Main.FeelsLike,
		TempMin:     raw.Main.TempMin,
		TempMax:     raw.Main.TempMax,
		Humidity:    raw.Main.Humidity,
		City:        raw.Name,
		Country:     raw.Sys.Country,
	}
	if len(raw.Weather) > 0 {
		out.Description = raw.Weather[0].Description
	}
	return out, nil
}

// Forecast implements advisory.WeatherProvider.
func (c *Client) Forecast(ctx context.Context, city string) ([]advisory.ForecastEntry, error) {
	var raw forecastResponse
	if err := c.get(ctx, "/forecast", city, &raw); err != nil {
		return nil, err
	}
	entries := make([]advisory.ForecastEntry, 0, len(raw.List))
	for _, item := range raw.List {
		entry := advisory.ForecastEntry{
			Time:        time.Unix(item.Dt, 0).UTC(),
			Temperature: item.Main.Temp,
			Humidity:    item.Main.Humidity,
			RainMM:      item.Rain.ThreeHours,
		}
		if len(item.Weather) > 0 {
			entry.Condition = item.Weather[0].Main
			entry.Description = item.Weather[0].Description
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, path, city string, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("openweather: %w", advisory.ErrNotConfigured)
	}
	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", c.apiKey)
	query.Set("units", c.units)
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return advisory.ErrCityNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return advisory.ErrWeatherUnauthorized
	case resp.StatusCode >= 300:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("weather request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode weather response: %w", err)
	}
	return nil
}

type mainBlock struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Humidity  int     `json:"humidity"`
}

type condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type currentResponse struct {
	Name    string      `json:"name"`
	Main    mainBlock   `json:"main"`
	Weather []condition `json:"weather"`
	Sys     struct {
		Country string `json:"country"`
	} `json:"sys"`
}

type forecastResponse struct {
	List []forecastItem `json:"list"`
}

type forecastItem struct {
	Dt      int64       `json:"dt"`
	Main    mainBlock   `json:"main"`
	Weather []condition `json:"weather"`
	Rain    struct {
		ThreeHours float64 `json:"3h"`
	} `json:"rain"`
}

var _ advisory.WeatherProvider = (*Client)(nil)
