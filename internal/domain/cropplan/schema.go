package cropplan

import (
	"github.com/xeipuuv/gojsonschema"
)

// recommendationSchema documents the reply shape. Only crop and a complete
// secondary suggestion are enforced; other keys are optional for rendering.
var recommendationSchema = map[string]any{
	"type":     "object",
	"required": []any{"crop"},
	"properties": map[string]any{
		"crop":          map[string]any{"type": "string"},
		"sowing_season": map[string]any{"type": "string"},
		"duration":      map[string]any{"type": "string"},
		"care_tips": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"secondary_crop_suggestion": map[string]any{
			"type":     "object",
			"required": []any{"crop", "sowing_season", "duration"},
			"properties": map[string]any{
				"crop":          map[string]any{"type": "string", "minLength": 1},
				"sowing_season": map[string]any{"type": "string", "minLength": 1},
				"duration":      map[string]any{"type": "string", "minLength": 1},
			},
		},
	},
}

var schemaLoader = gojsonschema.NewGoLoader(recommendationSchema)

// schemaWarnings lists every violation of recommendationSchema in fields.
func schemaWarnings(fields map[string]any) ([]string, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(fields))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return []string{}, nil
	}
	warnings := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		warnings = append(warnings, desc.String())
	}
	return warnings, nil
}
