package advisory

import (
	"strings"

	apperrors "github.com/beejsebazaar/advisor/pkg/errors"
)

// Required takes name/value pairs and reports the first blank value as
// invalid_input.
func Required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return apperrors.Wrap(apperrors.CodeInvalidInput, pairs[i]+" is required", nil)
		}
	}
	return nil
}

// CleanList trims entries and drops blanks.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if clean := strings.TrimSpace(item); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
