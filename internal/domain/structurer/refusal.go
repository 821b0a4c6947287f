package structurer

import (
	"fmt"
	"strings"
)

// Reply is what a generation call hands back to the structuring layer.
type Reply struct {
	Text         string
	FinishReason string
	BlockReason  string
}

// FailureKind distinguishes why a reply could not be structured.
type FailureKind string

const (
	FailureBlocked   FailureKind = "blocked"
	FailureTruncated FailureKind = "length_truncated"
	FailureStopped   FailureKind = "stopped"
	FailureEmpty     FailureKind = "empty_reply"
	FailureNoJSON    FailureKind = "no_json_found"
	FailureMalformed FailureKind = "malformed_json"
)

// Finish reasons reported by the generation endpoint.
const (
	FinishStop        = "STOP"
	FinishMaxTokens   = "MAX_TOKENS"
	FinishSafety      = "SAFETY"
	FinishUnspecified = "FINISH_REASON_UNSPECIFIED"
)

var safetyReasons = map[string]struct{}{
	FinishSafety:         {},
	"RECITATION":         {},
	"BLOCKLIST":          {},
	"PROHIBITED_CONTENT": {},
	"SPII":               {},
	"IMAGE_SAFETY":       {},
}

// Refusal describes a generation that ended without a usable reply.
type Refusal struct {
	Kind    FailureKind
	Message string
}

// CheckRefusal inspects the block and finish reasons of a reply. It reports
// false when generation finished normally.
func CheckRefusal(reply Reply) (Refusal, bool) {
	block := strings.TrimSpace(reply.BlockReason)
	if block != "" {
		return Refusal{
			Kind:    FailureBlocked,
			Message: fmt.Sprintf("AI generation was blocked: %s. The prompt or response might have been blocked due to safety filters.", block),
		}, true
	}

	finish := strings.ToUpper(strings.TrimSpace(reply.FinishReason))
	switch finish {
	case "", FinishStop, FinishUnspecified:
		return Refusal{}, false
	case FinishMaxTokens:
		return Refusal{
			Kind:    FailureTruncated,
			Message: "AI generation stopped: MAX_TOKENS. The response was too long.",
		}, true
	}
	if _, ok := safetyReasons[finish]; ok {
		return Refusal{
			Kind:    FailureBlocked,
			Message: fmt.Sprintf("AI generation stopped: %s. The prompt or response might have been blocked due to safety filters.", finish),
		}, true
	}
	return Refusal{
		Kind:    FailureStopped,
		Message: fmt.Sprintf("AI generation stopped: %s.", finish),
	}, true
}
