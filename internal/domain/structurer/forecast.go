package structurer

import (
	"regexp"
	"strings"
)

var (
	boldPattern       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern     = regexp.MustCompile(`\*(.*?)\*`)
	inlineCodePattern = regexp.MustCompile("`(.*?)`")
	headingMarks      = regexp.MustCompile(`(?m)^[ \t]*#+[ \t]*`)
	dashBullet        = regexp.MustCompile(`(?m)^([ \t]*)-[ \t]+`)
	blankRuns         = regexp.MustCompile(`\n(?:[ \t]*\n)+`)
	dayMarker         = regexp.MustCompile(`(?i)\bday[ \t]*\d+[ \t]*:`)
)

// StripMarkdown removes emphasis and inline-code markers while keeping the
// enclosed text, drops heading marks at line starts, turns leading "- " list
// markers into "• " and collapses blank-line runs into a single line break.
func StripMarkdown(text string) string {
	out := strings.ReplaceAll(text, "\r\n", "\n")
	out = boldPattern.ReplaceAllString(out, "$1")
	out = italicPattern.ReplaceAllString(out, "$1")
	out = inlineCodePattern.ReplaceAllString(out, "$1")
	out = headingMarks.ReplaceAllString(out, "")
	out = dashBullet.ReplaceAllString(out, "$1• ")
	out = blankRuns.ReplaceAllString(out, "\n")
	return out
}

// DayBlocks splits text immediately before every "Day <n>:" marker (any
// case). Text ahead of the first marker becomes its own block. Blocks are
// trimmed and empty ones dropped; the number of days is not enforced.
func DayBlocks(text string) []string {
	blocks := []string{}
	cuts := []int{0}
	for _, loc := range dayMarker.FindAllStringIndex(text, -1) {
		cuts = append(cuts, loc[0])
	}
	cuts = append(cuts, len(text))
	for i := 0; i+1 < len(cuts); i++ {
		if block := strings.TrimSpace(text[cuts[i]:cuts[i+1]]); block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// JoinBlocks renders day blocks separated by a blank line.
func JoinBlocks(blocks []string) string {
	return strings.Join(blocks, "\n\n")
}

// FormatForecast strips markdown from a day-by-day reply and re-segments it
// into blank-line separated day blocks.
func FormatForecast(text string) string {
	return JoinBlocks(DayBlocks(StripMarkdown(text)))
}
