package fieldtips

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	"github.com/beejsebazaar/advisor/internal/domain/advisory/advisorytest"
	apperrors "github.com/beejsebazaar/advisor/pkg/errors"
)

var pune = advisory.WeatherContext{Temperature: 29.5, Humidity: 62, Description: "scattered clouds", City: "Pune", Country: "IN"}

func TestOptimizeBuildsWeatherAwarePrompt(t *testing.T) {
	gen := &advisorytest.Generator{Result: advisory.Generation{
		Text:         "Use drip irrigation\n\n  Mulch beds  \nUse drip irrigation\n",
		FinishReason: "STOP",
	}}
	weather := &advisorytest.Weather{Now: pune}
	svc := NewService(Config{MaxSuggestions: 6}, gen, weather, newTestLogger())

	resp, err := svc.Optimize(context.Background(), OptimizeRequest{Crop: "Tomato", City: "Pune", Resources: []string{"Water", " ", "Tractor"}})
	require.NoError(t, err)
	require.Equal(t, []string{"Use drip irrigation", "Mulch beds", "Use drip irrigation"}, resp.Items)
	require.Equal(t, pune, resp.Weather)
	require.Equal(t, []string{"Pune"}, weather.Cities)

	prompt := gen.Last().Prompt
	require.Contains(t, prompt, "Pune, IN")
	require.Contains(t, prompt, "29.5°C, 62% humidity, Condition: scattered clouds")
	require.Contains(t, prompt, "Available resources: Water, Tractor.")
	require.Contains(t, prompt, "At most 6 suggestions")
}

func TestOptimizeWithoutResources(t *testing.T) {
	gen := &advisorytest.Generator{Result: advisory.Generation{Text: "Plan labour", FinishReason: "STOP"}}
	svc := NewService(Config{}, gen, &advisorytest.Weather{Now: pune}, newTestLogger())

	_, err := svc.Optimize(context.Background(), OptimizeRequest{Crop: "Tomato", City: "Pune"})
	require.NoError(t, err)
	require.Contains(t, gen.Last().Prompt, "assume basic availability")
	require.Contains(t, gen.Last().Prompt, "At most 8 suggestions")
}

func TestMissingGeneratorKeySkipsWeatherLookup(t *testing.T) {
	gen := &advisorytest.Generator{Err: advisory.ErrNotConfigured}
	weather := &advisorytest.Weather{Now: pune}
	svc := NewService(Config{}, gen, weather, newTestLogger())

	_, err := svc.Optimize(context.Background(), OptimizeRequest{Crop: "Tomato", City: "Pune"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfigMissing))

	_, err = svc.Tips(context.Background(), TipsRequest{Crop: "Cotton", City: "Pune", Category: Categories[0]})
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfigMissing))

	require.Zero(t, weather.Lookups())
	require.Zero(t, gen.Calls())
}

func TestTipsIncludesSpecificIssue(t *testing.T) {
	gen := &advisorytest.Generator{Result: advisory.Generation{Text: "Spray neem oil\nRemove affected leaves", FinishReason: "STOP"}}
	svc := NewService(Config{}, gen, &advisorytest.Weather{Now: pune}, newTestLogger())

	resp, err := svc.Tips(context.Background(), TipsRequest{Crop: "Cotton", City: "Pune", Category: Categories[1], SpecificIssue: "Aphid infestation"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	require.Contains(t, gen.Last().Prompt, `"Aphid infestation"`)
	require.Contains(t, gen.Last().Prompt, `"Pest & Disease Management"`)

	_, err = svc.Tips(context.Background(), TipsRequest{Crop: "Cotton", City: "Pune", Category: Categories[0]})
	require.NoError(t, err)
	require.Contains(t, gen.Last().Prompt, "general tips for the selected category")
}

func TestTipsStopsOnWeatherFailure(t *testing.T) {
	gen := &advisorytest.Generator{}
	weather := &advisorytest.Weather{Err: apperrors.Wrap(apperrors.CodeWeatherNotFound, "City not found: Atlantis", nil)}
	svc := NewService(Config{}, gen, weather, newTestLogger())

	_, err := svc.Tips(context.Background(), TipsRequest{Crop: "Cotton", City: "Atlantis", Category: "General Crop Health"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeWeatherNotFound))
	require.Zero(t, gen.Calls())
}

func TestTipsValidatesInput(t *testing.T) {
	gen := &advisorytest.Generator{}
	weather := &advisorytest.Weather{Now: pune}
	svc := NewService(Config{}, gen, weather, newTestLogger())

	_, err := svc.Tips(context.Background(), TipsRequest{Crop: "Cotton", City: "Pune"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Contains(t, err.Error(), "category")
	require.Zero(t, weather.Lookups())
}

func TestTipsRefusedGeneration(t *testing.T) {
	gen := &advisorytest.Generator{Result: advisory.Generation{BlockReason: "SAFETY"}}
	svc := NewService(Config{}, gen, &advisorytest.Weather{Now: pune}, newTestLogger())

	_, err := svc.Tips(context.Background(), TipsRequest{Crop: "Cotton", City: "Pune", Category: "General Crop Health"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeGenerationRefused))
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
