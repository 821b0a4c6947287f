package healthcheck

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/beejsebazaar/advisor/pkg/errors"
)

var acceptedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// resolveImageType prefers the sniffed type and falls back to the declared
// one for formats the sniffer does not know (HEIC/HEIF).
func resolveImageType(data []byte, declared string, maxBytes int64) (string, error) {
	if len(data) == 0 {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "image is required", nil)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("image exceeds the %d byte limit", maxBytes), nil)
	}
	sniffed := http.DetectContentType(data)
	if acceptedTypes[sniffed] {
		return sniffed, nil
	}
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if (declared == "image/heic" || declared == "image/heif") && sniffed == "application/octet-stream" {
		return declared, nil
	}
	return "", apperrors.Wrap(apperrors.CodeInvalidInput, "please upload a JPEG, PNG, WEBP or HEIC image", nil)
}
