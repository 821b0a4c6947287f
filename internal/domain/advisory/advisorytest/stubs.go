// Package advisorytest provides in-memory stand-ins for the advisory ports.
package advisorytest

import (
	"context"
	"errors"
	"sync"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
)

// Generator returns a canned generation and records every request.
type Generator struct {
	mu       sync.Mutex
	Result   advisory.Generation
	Err      error
	Requests []advisory.GenerateRequest
}

// Configured reports false when Err is advisory.ErrNotConfigured.
func (g *Generator) Configured() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !errors.Is(g.Err, advisory.ErrNotConfigured)
}

// Generate implements advisory.Generator.
func (g *Generator) Generate(_ context.Context, req advisory.GenerateRequest) (advisory.Generation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Requests = append(g.Requests, req)
	if g.Err != nil {
		return advisory.Generation{}, g.Err
	}
	return g.Result, nil
}

// Calls reports how many requests were made.
func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Requests)
}

// Last returns the most recent request.
func (g *Generator) Last() advisory.GenerateRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Requests) == 0 {
		return advisory.GenerateRequest{}
	}
	return g.Requests[len(g.Requests)-1]
}

// Weather serves fixed weather data. Safe for concurrent use.
type Weather struct {
	mu          sync.Mutex
	Now         advisory.WeatherContext
	Entries     []advisory.ForecastEntry
	Err         error
	ForecastErr error
	Cities      []string
}

// Current implements advisory.WeatherService.
func (w *Weather) Current(_ context.Context, city string) (advisory.WeatherContext, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Cities = append(w.Cities, city)
	if w.Err != nil {
		return advisory.WeatherContext{}, w.Err
	}
	return w.Now, nil
}

// Forecast implements advisory.WeatherService.
func (w *Weather) Forecast(_ context.Context, city string) ([]advisory.ForecastEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Cities = append(w.Cities, city)
	if w.Err != nil {
		return nil, w.Err
	}
	if w.ForecastErr != nil {
		return nil, w.ForecastErr
	}
	return w.Entries, nil
}

// Lookups reports how many weather calls were made.
func (w *Weather) Lookups() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.Cities)
}
