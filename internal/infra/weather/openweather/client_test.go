package openweather

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("appid") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"cod":401,"message":"Invalid API key"}`)
			return
		}
		if q.Get("q") != "Pune" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"cod":"404","message":"city not found"}`)
			return
		}
		require.Equal(t, "metric", q.Get("units"))
		switch r.URL.Path {
		case "/weather":
			_, _ = io.WriteString(w, `{"name":"Pune","sys":{"country":"IN"},"main":{"temp":29.5,"feels_like":31.2,"temp_min":27,"temp_max":32,"humidity":64},"weather":[{"main":"Clouds","description":"scattered clouds"}]}`)
		case "/forecast":
			_, _ = io.WriteString(w, `{"list":[{"dt":1718000000,"main":{"temp":28,"humidity":70},"weather":[{"main":"Rain","description":"light rain"}],"rain":{"3h":1.4}},{"dt":1718010800,"main":{"temp":30,"humidity":55},"weather":[{"main":"Clear","description":"clear sky"}]}]}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCurrent(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(Config{APIKey: "key", BaseURL: srv.URL})

	weather, err := client.Current(context.Background(), "Pune")
	require.NoError(t, err)
	require.Equal(t, advisory.WeatherContext{
		Temperature: 29.5,
		FeelsLike:   31.2,
		TempMin:     27,
		TempMax:     32,
		Humidity:    64,
		Description: "scattered clouds",
		City:        "Pune",
		Country:     "IN",
	}, weather)
}

func TestForecast(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(Config{APIKey: "key", BaseURL: srv.URL})

	entries, err := client.Forecast(context.Background(), "Pune")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, time.Unix(1718000000, 0).UTC(), entries[0].Time)
	require.Equal(t, "Rain", entries[0].Condition)
	require.Equal(t, 1.4, entries[0].RainMM)
	require.Zero(t, entries[1].RainMM)
}

func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t)

	_, err := NewClient(Config{APIKey: "key", BaseURL: srv.URL}).Current(context.Background(), "Atlantis")
	require.ErrorIs(t, err, advisory.ErrCityNotFound)

	_, err = NewClient(Config{APIKey: "wrong", BaseURL: srv.URL}).Forecast(context.Background(), "Pune")
	require.ErrorIs(t, err, advisory.ErrWeatherUnauthorized)

	_, err = NewClient(Config{BaseURL: srv.URL}).Current(context.Background(), "Pune")
	require.ErrorIs(t, err, advisory.ErrNotConfigured)
}
