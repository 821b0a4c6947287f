package structurer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// SecondaryCrop is the optional follow-on crop of a recommendation.
type SecondaryCrop struct {
	Crop         string `json:"crop"`
	SowingSeason string `json:"sowing_season"`
	Duration     string `json:"duration"`
}

// Complete reports whether every field of the suggestion is filled in.
func (s SecondaryCrop) Complete() bool {
	return strings.TrimSpace(s.Crop) != "" &&
		strings.TrimSpace(s.SowingSeason) != "" &&
		strings.TrimSpace(s.Duration) != ""
}

// Recommendation is the crop plan extracted from a reply. When extraction
// fails Error and ErrorKind are set and every other field keeps its zero
// value, with CareTips as an empty list.
type Recommendation struct {
	Crop                      string         `json:"crop"`
	SowingSeason              string         `json:"sowing_season"`
	Duration                  string         `json:"duration"`
	CareTips                  []string       `json:"care_tips"`
	Climate                   string         `json:"climate"`
	IrrigationNeeds           string         `json:"irrigation_needs"`
	FertilizerRecommendations string         `json:"fertilizer_recommendations"`
	SecondaryCrop             *SecondaryCrop `json:"secondary_crop_suggestion,omitempty"`
	Error                     string         `json:"error,omitempty"`
	ErrorKind                 FailureKind    `json:"error_kind,omitempty"`

	// Fields holds the parsed object as decoded, including keys the typed
	// view does not carry.
	Fields map[string]any `json:"-"`
}

// Failed reports whether r is a sentinel record.
func (r Recommendation) Failed() bool {
	return r.ErrorKind != ""
}

var jsonFencePattern = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")

// Messages carried by sentinel records for failures not tied to a finish reason.
const (
	MessageEmptyReply = "No suggestion received from the AI."
	MessageNoJSON     = "Could not find JSON in the AI response."
	MessageMalformed  = "Failed to parse suggestion. The AI might have provided an invalid format."
)

// ExtractRecommendation recovers a JSON object from reply.Text. A fenced
// ```json block wins; otherwise the span from the first "{" to the last "}"
// is used. Block and finish reasons are checked before the text. Every
// failure yields a sentinel record instead of an error.
func ExtractRecommendation(reply Reply) Recommendation {
	if refusal, refused := CheckRefusal(reply); refused {
		return sentinel(refusal.Kind, refusal.Message)
	}
	if strings.TrimSpace(reply.Text) == "" {
		return sentinel(FailureEmpty, MessageEmptyReply)
	}

	candidate, found := jsonCandidate(reply.Text)
	if !found {
		return sentinel(FailureNoJSON, MessageNoJSON)
	}

	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return sentinel(FailureMalformed, MessageMalformed)
	}
	fields, ok := value.(map[string]any)
	if !ok {
		return sentinel(FailureMalformed, MessageMalformed)
	}
	return fromFields(fields)
}

func jsonCandidate(text string) (string, bool) {
	if m := jsonFencePattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func sentinel(kind FailureKind, message string) Recommendation {
	return Recommendation{
		CareTips:  []string{},
		Error:     message,
		ErrorKind: kind,
	}
}

func fromFields(fields map[string]any) Recommendation {
	rec := Recommendation{
		Crop:                      stringField(fields, "crop"),
		SowingSeason:              stringField(fields, "sowing_season"),
		Duration:                  stringField(fields, "duration"),
		CareTips:                  stringList(fields["care_tips"]),
		Climate:                   stringField(fields, "climate"),
		IrrigationNeeds:           stringField(fields, "irrigation_needs"),
		FertilizerRecommendations: stringField(fields, "fertilizer_recommendations"),
		Fields:                    fields,
	}
	if nested, ok := fields["secondary_crop_suggestion"].(map[string]any); ok {
		rec.SecondaryCrop = &SecondaryCrop{
			Crop:         stringField(nested, "crop"),
			SowingSeason: stringField(nested, "sowing_season"),
			Duration:     stringField(nested, "duration"),
		}
	}
	return rec
}

func stringField(fields map[string]any, key string) string {
	return scalarString(fields[key])
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// stringList accepts an array of scalars or a single string.
func stringList(value any) []string {
	out := []string{}
	switch v := value.(type) {
	case string:
		if clean := strings.TrimSpace(v); clean != "" {
			out = append(out, clean)
		}
	case []any:
		for _, item := range v {
			if clean := strings.TrimSpace(scalarString(item)); clean != "" {
				out = append(out, clean)
			}
		}
	}
	return out
}
