package practices

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	"github.com/beejsebazaar/advisor/internal/domain/advisory/advisorytest"
	"github.com/beejsebazaar/advisor/internal/domain/structurer"
	apperrors "github.com/beejsebazaar/advisor/pkg/errors"
)

func TestGenerateSplitsSections(t *testing.T) {
	gen := &advisorytest.Generator{Result: advisory.Generation{
		Text:         "1. Irrigation\nWater every 5 days\n- Avoid waterlogging\n2. Harvesting\nHarvest at golden colour\n",
		FinishReason: "STOP",
	}}
	svc := NewService(Config{Model: "gemini-test"}, gen, newTestLogger())

	resp, err := svc.Generate(context.Background(), Request{Crop: " Wheat ", CropAgeDays: 45})
	require.NoError(t, err)
	require.Equal(t, "Wheat", resp.Crop)
	require.False(t, resp.Fallback)
	require.Equal(t, []structurer.Section{
		{Title: "Irrigation", Points: []string{"Water every 5 days", "Avoid waterlogging"}},
		{Title: "Harvesting", Points: []string{"Harvest at golden colour"}},
	}, resp.Sections)

	prompt := gen.Last().Prompt
	for i, heading := range Headings {
		require.Contains(t, prompt, heading, i)
	}
	require.Contains(t, prompt, "8. Key Tips for Success")
	require.Contains(t, prompt, "risks and actions at 45 days")
	require.False(t, gen.Last().JSON)
}

func TestGenerateFallsBackToGeneralGuidance(t *testing.T) {
	gen := &advisorytest.Generator{Result: advisory.Generation{Text: "Water well\nWeed often", FinishReason: "STOP"}}
	svc := NewService(Config{}, gen, newTestLogger())

	resp, err := svc.Generate(context.Background(), Request{Crop: "Rice", CropAgeDays: 10})
	require.NoError(t, err)
	require.True(t, resp.Fallback)
	require.Len(t, resp.Sections, 1)
	require.Equal(t, structurer.GeneralGuidanceTitle, resp.Sections[0].Title)
}

func TestGenerateHeadingNamedGeneralGuidanceIsNotFallback(t *testing.T) {
	gen := &advisorytest.Generator{Result: advisory.Generation{Text: "1. General Guidance\nWater daily", FinishReason: "STOP"}}
	svc := NewService(Config{}, gen, newTestLogger())

	resp, err := svc.Generate(context.Background(), Request{Crop: "Wheat", CropAgeDays: 10})
	require.NoError(t, err)
	require.False(t, resp.Fallback)
	require.Equal(t, []structurer.Section{{Title: structurer.GeneralGuidanceTitle, Points: []string{"Water daily"}}}, resp.Sections)
}

func TestGenerateEmptyReplyYieldsNoSections(t *testing.T) {
	gen := &advisorytest.Generator{Result: advisory.Generation{FinishReason: "STOP"}}
	svc := NewService(Config{}, gen, newTestLogger())

	resp, err := svc.Generate(context.Background(), Request{Crop: "Rice", CropAgeDays: 10})
	require.NoError(t, err)
	require.NotNil(t, resp.Sections)
	require.Empty(t, resp.Sections)
	require.False(t, resp.Fallback)
}

func TestGenerateRejectsTruncatedReply(t *testing.T) {
	gen := &advisorytest.Generator{Result: advisory.Generation{Text: "1. Irrigation\nWater", FinishReason: "MAX_TOKENS"}}
	svc := NewService(Config{}, gen, newTestLogger())

	_, err := svc.Generate(context.Background(), Request{Crop: "Rice", CropAgeDays: 10})
	require.True(t, apperrors.IsCode(err, apperrors.CodeGenerationRefused))
}

func TestGenerateValidatesInput(t *testing.T) {
	gen := &advisorytest.Generator{}
	svc := NewService(Config{}, gen, newTestLogger())

	_, err := svc.Generate(context.Background(), Request{CropAgeDays: 10})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	_, err = svc.Generate(context.Background(), Request{Crop: "Rice"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Zero(t, gen.Calls())
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
