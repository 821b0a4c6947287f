package structurer

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestExtractRecommendationPureObject(t *testing.T) {
	raw := `{"crop":"Wheat","sowing_season":"Rabi","duration":"110-120 days","care_tips":["Irrigate at crown root stage","Weed at 30 days"],"climate":"Cool and dry","irrigation_needs":"4-6 irrigations","fertilizer_recommendations":"120:60:40 NPK","market_outlook":{"price":2150}}`

	rec := ExtractRecommendation(Reply{Text: raw, FinishReason: FinishStop})
	require.False(t, rec.Failed())
	require.Empty(t, rec.Error)

	var want map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &want))
	if diff := cmp.Diff(want, rec.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, "Wheat", rec.Crop)
	require.Equal(t, "Rabi", rec.SowingSeason)
	require.Equal(t, "110-120 days", rec.Duration)
	require.Equal(t, []string{"Irrigate at crown root stage", "Weed at 30 days"}, rec.CareTips)
	require.Equal(t, "Cool and dry", rec.Climate)
	require.Equal(t, "4-6 irrigations", rec.IrrigationNeeds)
	require.Equal(t, "120:60:40 NPK", rec.FertilizerRecommendations)
	require.Nil(t, rec.SecondaryCrop)
}

func TestExtractRecommendationFencedMatchesUnfenced(t *testing.T) {
	body := `{"crop":"Wheat","duration":"100 days"}`
	fenced := ExtractRecommendation(Reply{Text: "Here you go:\n```json\n" + body + "\n```"})
	plain := ExtractRecommendation(Reply{Text: body})

	require.False(t, fenced.Failed())
	require.Equal(t, "Wheat", fenced.Crop)
	require.Equal(t, "100 days", fenced.Duration)
	require.Equal(t, plain, fenced)
}

func TestExtractRecommendationFencePreferredOverProse(t *testing.T) {
	text := "Consider {rotation} first.\n```JSON\n{\"crop\":\"Gram\"}\n```\nThanks"
	rec := ExtractRecommendation(Reply{Text: text})
	require.False(t, rec.Failed())
	require.Equal(t, "Gram", rec.Crop)
}

func TestExtractRecommendationSurroundingProse(t *testing.T) {
	rec := ExtractRecommendation(Reply{Text: "Sure! {\"crop\":\"Rice\",\"care_tips\":\"Keep fields flooded\"} Hope this helps."})
	require.False(t, rec.Failed())
	require.Equal(t, "Rice", rec.Crop)
	require.Equal(t, []string{"Keep fields flooded"}, rec.CareTips)
}

func TestExtractRecommendationSecondaryCrop(t *testing.T) {
	rec := ExtractRecommendation(Reply{Text: `{"crop":"Soybean","secondary_crop_suggestion":{"crop":"Wheat","sowing_season":"Rabi","duration":"Approx. 110 days"}}`})
	require.NotNil(t, rec.SecondaryCrop)
	require.True(t, rec.SecondaryCrop.Complete())
	require.Equal(t, "Wheat", rec.SecondaryCrop.Crop)

	partial := ExtractRecommendation(Reply{Text: `{"crop":"Soybean","secondary_crop_suggestion":{"crop":"Wheat"}}`})
	require.NotNil(t, partial.SecondaryCrop)
	require.False(t, partial.SecondaryCrop.Complete())
}

func TestExtractRecommendationTolerantScalars(t *testing.T) {
	rec := ExtractRecommendation(Reply{Text: `{"crop":"Maize","duration":95,"care_tips":["Thin seedlings",7,null,""]}`})
	require.False(t, rec.Failed())
	require.Equal(t, "95", rec.Duration)
	require.Equal(t, []string{"Thin seedlings", "7"}, rec.CareTips)
	require.Equal(t, []string{}, ExtractRecommendation(Reply{Text: `{"crop":"Maize"}`}).CareTips)
}

func TestExtractRecommendationFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		reply    Reply
		wantKind FailureKind
		contains string
	}{
		{name: "empty reply blocked by safety", reply: Reply{Text: "", FinishReason: "SAFETY"}, wantKind: FailureBlocked, contains: "blocked"},
		{name: "prompt block reason", reply: Reply{Text: "", BlockReason: "OTHER"}, wantKind: FailureBlocked, contains: "blocked"},
		{name: "length truncated", reply: Reply{Text: `{"crop":"Wh`, FinishReason: "MAX_TOKENS"}, wantKind: FailureTruncated, contains: "too long"},
		{name: "other stop reason", reply: Reply{Text: "", FinishReason: "OTHER"}, wantKind: FailureStopped, contains: "OTHER"},
		{name: "empty reply", reply: Reply{Text: "  \n ", FinishReason: "STOP"}, wantKind: FailureEmpty, contains: "No suggestion"},
		{name: "no braces", reply: Reply{Text: "I recommend wheat for your farm."}, wantKind: FailureNoJSON, contains: "Could not find JSON"},
		{name: "closing brace before opening", reply: Reply{Text: "oops } then {"}, wantKind: FailureNoJSON, contains: "Could not find JSON"},
		{name: "malformed object", reply: Reply{Text: `{"crop": }`}, wantKind: FailureMalformed, contains: "Failed to parse"},
		{name: "unbalanced object", reply: Reply{Text: `Result: {"crop":"Wheat", "care_tips":["a"} done`}, wantKind: FailureMalformed, contains: "Failed to parse"},
		{name: "fenced array is not a record", reply: Reply{Text: "```json\n[1,2]\n```"}, wantKind: FailureMalformed, contains: "Failed to parse"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := ExtractRecommendation(tc.reply)
			require.True(t, rec.Failed())
			require.Equal(t, tc.wantKind, rec.ErrorKind)
			require.Contains(t, rec.Error, tc.contains)
			require.Equal(t, []string{}, rec.CareTips)
			require.Empty(t, rec.Crop)
			require.Empty(t, rec.Climate)
			require.Nil(t, rec.SecondaryCrop)
		})
	}
}
