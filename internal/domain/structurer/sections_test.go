package structurer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseSections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []Section
	}{
		{
			name: "numbered headings in order",
			text: "1. Irrigation\nWater daily\nCheck soil\n2. Pest Control\nInspect leaves",
			want: []Section{
				{Title: "Irrigation", Points: []string{"Water daily", "Check soil"}},
				{Title: "Pest Control", Points: []string{"Inspect leaves"}},
			},
		},
		{
			name: "fallback to general guidance",
			text: "Just do this\nAnd that\n",
			want: []Section{
				{Title: GeneralGuidanceTitle, Points: []string{"Just do this", "And that"}},
			},
		},
		{
			name: "bullet markers stripped once",
			text: "1. Soil Preparation\n- Test pH\n* Add compost\n• Mulch well\n\n   \n- - nested dash",
			want: []Section{
				{Title: "Soil Preparation", Points: []string{"Test pH", "Add compost", "Mulch well", "- nested dash"}},
			},
		},
		{
			name: "heading without points is skipped",
			text: "1. Empty\n2. Weed Management\nHand weed at 20 days",
			want: []Section{
				{Title: "Weed Management", Points: []string{"Hand weed at 20 days"}},
			},
		},
		{
			name: "headings without any points fall back",
			text: "1. Soil\n2. Sowing",
			want: []Section{
				{Title: GeneralGuidanceTitle, Points: []string{"1. Soil", "2. Sowing"}},
			},
		},
		{
			name: "repeated titles stay separate",
			text: "1. Tips\nOne\n2. Tips\nTwo",
			want: []Section{
				{Title: "Tips", Points: []string{"One"}},
				{Title: "Tips", Points: []string{"Two"}},
			},
		},
		{
			name: "preamble and indentation",
			text: "Here is your guide:\r\n  3.   Fertilization  \r\n  Apply urea  \r\n",
			want: []Section{
				{Title: "Fertilization", Points: []string{"Apply urea"}},
			},
		},
		{
			name: "decimal numbers are not headings",
			text: "1.5 kg per acre\nsplit in two doses",
			want: []Section{
				{Title: GeneralGuidanceTitle, Points: []string{"1.5 kg per acre", "split in two doses"}},
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParseSections(tc.text)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("ParseSections mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSectionsBlankInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t\n"} {
		got := ParseSections(text)
		require.NotNil(t, got)
		require.Empty(t, got)
	}
}

func TestParseSectionsEveryPointNonEmpty(t *testing.T) {
	text := "1. Harvesting\n-\n*\n  \nCut at maturity\n2. Key Tips for Success\n•   \nKeep records"
	for _, section := range ParseSections(text) {
		require.NotEmpty(t, section.Title)
		require.NotEmpty(t, section.Points)
		for _, point := range section.Points {
			require.NotEmpty(t, point)
		}
	}
}

func TestParseSectionsReportsFallback(t *testing.T) {
	sections, fallback := ParseSectionsWithFallback("plain advice")
	require.True(t, fallback)
	require.Equal(t, []Section{{Title: GeneralGuidanceTitle, Points: []string{"plain advice"}}}, sections)

	_, fallback = ParseSectionsWithFallback("1. Irrigation\nWater daily")
	require.False(t, fallback)

	sections, fallback = ParseSectionsWithFallback("1. General Guidance\nWater daily")
	require.False(t, fallback)
	require.Equal(t, []Section{{Title: GeneralGuidanceTitle, Points: []string{"Water daily"}}}, sections)

	_, fallback = ParseSectionsWithFallback("   ")
	require.False(t, fallback)
}

func TestParseLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: []string{}},
		{name: "whitespace only", text: " \n\t\n  ", want: []string{}},
		{name: "trims and keeps duplicates", text: "  Mulch beds \n\nUse drip lines\r\n \t\n  Mulch beds", want: []string{"Mulch beds", "Use drip lines", "Mulch beds"}},
		{name: "single line", text: "Check soil moisture", want: []string{"Check soil moisture"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParseLines(tc.text)
			require.Equal(t, tc.want, got)
			for _, line := range got {
				require.NotEmpty(t, line)
			}
		})
	}
}
