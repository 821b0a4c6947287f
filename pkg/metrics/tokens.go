package metrics

// TokenUsage carries the token counts reported by the generator for one reply.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens,omitempty"`
	TotalTokens      int `json:"totalTokens"`
}

// IsZero reports whether the generator returned no usage data.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// Record adds u to the per-feature token counter.
func (u TokenUsage) Record(feature string) {
	if u.IsZero() {
		return
	}
	GenerationTokens.WithLabelValues(feature, "prompt").Add(float64(u.PromptTokens))
	GenerationTokens.WithLabelValues(feature, "completion").Add(float64(u.CompletionTokens))
}
