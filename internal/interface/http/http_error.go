package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/beejsebazaar/advisor/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

var codeStatus = map[string]int{
	apperrors.CodeInvalidInput:        http.StatusBadRequest,
	apperrors.CodeConfigMissing:       http.StatusServiceUnavailable,
	apperrors.CodeWeatherNotFound:     http.StatusNotFound,
	apperrors.CodeWeatherUnauthorized: http.StatusBadGateway,
	apperrors.CodeWeatherError:        http.StatusBadGateway,
	apperrors.CodeLLMError:            http.StatusBadGateway,
	apperrors.CodeRelayError:          http.StatusBadGateway,
	apperrors.CodeGenerationRefused:   http.StatusUnprocessableEntity,
	apperrors.CodeInvalidToken:        http.StatusUnauthorized,
	apperrors.CodeInvalidState:        http.StatusBadRequest,
	apperrors.CodeAuthNotConfigured:   http.StatusServiceUnavailable,
	apperrors.CodeAuthError:           http.StatusBadGateway,
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	code := apperrors.CodeOf(err)
	if status, ok := codeStatus[code]; ok {
		return &HTTPError{Status: status, Code: code, Message: apperrors.MessageOf(err), Err: err}
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// fail aborts with the status mapped from err's app code.
func fail(c *gin.Context, err error) {
	abortWithError(c, asHTTPError(err))
}

func badRequest(c *gin.Context, err error) {
	abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "invalid request body: "+err.Error(), err))
}
