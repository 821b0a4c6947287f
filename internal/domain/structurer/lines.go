package structurer

import "strings"

// ParseLines returns every non-blank line of text, trimmed, in source order.
// Duplicates are kept.
func ParseLines(text string) []string {
	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		if clean := strings.TrimSpace(line); clean != "" {
			lines = append(lines, clean)
		}
	}
	return lines
}
