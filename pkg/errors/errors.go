package errors

import "errors"

// Codes shared by the advisory domains and mapped to HTTP statuses by the transport.
const (
	CodeInvalidInput        = "invalid_input"
	CodeConfigMissing       = "config_missing"
	CodeWeatherNotFound     = "weather_not_found"
	CodeWeatherUnauthorized = "weather_unauthorized"
	CodeWeatherError        = "weather_error"
	CodeLLMError            = "llm_error"
	CodeGenerationRefused   = "generation_refused"
	CodeRelayError          = "relay_error"
	CodeAuthNotConfigured   = "auth_not_configured"
	CodeAuthError           = "auth_error"
	CodeInvalidToken        = "invalid_token"
	CodeInvalidState        = "invalid_state"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode helps handler differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost AppError in err's chain.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// MessageOf returns the user facing message without wrapped causes.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
