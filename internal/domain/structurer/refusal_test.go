package structurer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckRefusal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		reply    Reply
		refused  bool
		wantKind FailureKind
	}{
		{name: "stop", reply: Reply{FinishReason: "STOP"}},
		{name: "unset", reply: Reply{}},
		{name: "unspecified", reply: Reply{FinishReason: "FINISH_REASON_UNSPECIFIED"}},
		{name: "lowercase stop", reply: Reply{FinishReason: "stop"}},
		{name: "safety", reply: Reply{FinishReason: "SAFETY"}, refused: true, wantKind: FailureBlocked},
		{name: "recitation", reply: Reply{FinishReason: "RECITATION"}, refused: true, wantKind: FailureBlocked},
		{name: "block reason wins", reply: Reply{FinishReason: "STOP", BlockReason: "SAFETY"}, refused: true, wantKind: FailureBlocked},
		{name: "max tokens", reply: Reply{FinishReason: "MAX_TOKENS"}, refused: true, wantKind: FailureTruncated},
		{name: "other", reply: Reply{FinishReason: "MALFORMED_FUNCTION_CALL"}, refused: true, wantKind: FailureStopped},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			refusal, refused := CheckRefusal(tc.reply)
			require.Equal(t, tc.refused, refused)
			require.Equal(t, tc.wantKind, refusal.Kind)
			if refused {
				require.NotEmpty(t, refusal.Message)
			}
		})
	}
}
