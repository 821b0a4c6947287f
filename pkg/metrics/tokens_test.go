package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestTokenUsageRecord(t *testing.T) {
	prompt := GenerationTokens.WithLabelValues("tokens_test", "prompt")
	completion := GenerationTokens.WithLabelValues("tokens_test", "completion")

	TokenUsage{}.Record("tokens_test")
	require.Zero(t, testutil.ToFloat64(prompt))

	TokenUsage{PromptTokens: 120, CompletionTokens: 30, TotalTokens: 150}.Record("tokens_test")
	TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}.Record("tokens_test")
	require.Equal(t, float64(130), testutil.ToFloat64(prompt))
	require.Equal(t, float64(35), testutil.ToFloat64(completion))
}
