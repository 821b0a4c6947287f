// Package structurer turns loosely formatted generation replies into
// structures the advisory pages can render: titled sections, flat tip
// lists, a typed crop recommendation and day-indexed forecast blocks.
//
// Every function here is pure and never panics or returns an error. When a
// reply carries no recognizable structure the functions degrade to the most
// permissive fallback for their variant.
package structurer

import (
	"regexp"
	"strings"
)

// GeneralGuidanceTitle names the single section produced when a reply has no
// usable numbered headings.
const GeneralGuidanceTitle = "General Guidance"

// Section is a titled group of points taken from a numbered-heading reply.
type Section struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

var headingPattern = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+(.*)$`)

// ParseSections splits text on lines shaped like "<N>. <Heading>". The body of
// a heading runs until the next heading line or the end of the text. Only
// headings with a non-empty title and at least one point are emitted, in
// source order; repeated titles stay separate sections.
//
// When no section survives but the text is not blank, a single
// GeneralGuidanceTitle section holding every non-empty line is returned.
func ParseSections(text string) []Section {
	sections, _ := ParseSectionsWithFallback(text)
	return sections
}

// ParseSectionsWithFallback is ParseSections that also reports whether the
// GeneralGuidanceTitle fallback produced the result. A reply whose own heading
// is "General Guidance" is not a fallback.
func ParseSectionsWithFallback(text string) ([]Section, bool) {
	sections := []Section{}
	if strings.TrimSpace(text) == "" {
		return sections, false
	}

	matches := headingPattern.FindAllStringSubmatchIndex(text, -1)
	for i, m := range matches {
		title := strings.TrimSpace(text[m[2]:m[3]])
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		points := bulletLines(text[m[1]:end])
		if title == "" || len(points) == 0 {
			continue
		}
		sections = append(sections, Section{Title: title, Points: points})
	}

	if len(sections) > 0 {
		return sections, false
	}
	points := bulletLines(text)
	if len(points) == 0 {
		return sections, false
	}
	return append(sections, Section{Title: GeneralGuidanceTitle, Points: points}), true
}

func bulletLines(body string) []string {
	lines := ParseLines(body)
	points := make([]string, 0, len(lines))
	for _, line := range lines {
		if point := stripBullet(line); point != "" {
			points = append(points, point)
		}
	}
	return points
}

// stripBullet removes one leading list marker.
func stripBullet(line string) string {
	for _, marker := range []string{"-", "*", "•"} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker))
		}
	}
	return line
}
