package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Device and permission errors
	ErrCodePermissionDenied  ErrorCode = "PERMISSION_DENIED"
	ErrCodeDeviceUnavailable ErrorCode = "DEVICE_UNAVAILABLE"

	// Save validation errors
	ErrCodeRecordingRequired ErrorCode = "RECORDING_REQUIRED"
	ErrCodeTitleRequired     ErrorCode = "TITLE_REQUIRED"

	// Persistence errors
	ErrCodeStorage ErrorCode = "STORAGE"

	// Resource and input errors
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// AppError represents a structured application error
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  map[string]interface{} `json:"details,omitempty"`
	Cause    error                  `json:"-"`
	HTTPCode int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// GetHTTPCode returns the appropriate HTTP status code
func (e *AppError) GetHTTPCode() int {
	if e.HTTPCode != 0 {
		return e.HTTPCode
	}
	return getDefaultHTTPCode(e.Code)
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(cause error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Cause:    cause,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(cause error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(cause, code, fmt.Sprintf(format, args...))
}

func getDefaultHTTPCode(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRecordingRequired, ErrCodeTitleRequired, ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeInvalidState:
		return http.StatusConflict
	case ErrCodePermissionDenied:
		return http.StatusForbidden
	case ErrCodeDeviceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors

// PermissionDenied is returned when microphone access has not been granted
func PermissionDenied() *AppError {
	return New(ErrCodePermissionDenied, "microphone permission is required to record")
}

// DeviceUnavailable wraps a capture or playback resource failure
func DeviceUnavailable(device string, cause error) *AppError {
	return Wrap(cause, ErrCodeDeviceUnavailable, fmt.Sprintf("%s unavailable", device)).
		WithDetail("device", device)
}

// RecordingRequired rejects saving a new note without audio
func RecordingRequired() *AppError {
	return New(ErrCodeRecordingRequired, "record before saving")
}

// TitleRequired rejects saving a note without a title
func TitleRequired() *AppError {
	return New(ErrCodeTitleRequired, "title is required")
}

// Storage wraps a persistence failure
func Storage(operation string, cause error) *AppError {
	return Wrap(cause, ErrCodeStorage, fmt.Sprintf("could not %s", operation)).
		WithDetail("operation", operation)
}

// NotFound creates a not found error
func NotFound(resource string, id interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// InvalidInput creates an input validation error
func InvalidInput(field string, reason string) *AppError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("invalid value for '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// InvalidState is returned when an operation does not apply to the current state
func InvalidState(component string, state string) *AppError {
	return New(ErrCodeInvalidState, fmt.Sprintf("%s is %s", component, state)).
		WithDetail("component", component).
		WithDetail("state", state)
}

// As returns the first AppError in err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is checks if an error is of a specific type
func Is(err error, code ErrorCode) bool {
	if appErr, ok := As(err); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// GetHTTPCode extracts the HTTP status code from an error
func GetHTTPCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.GetHTTPCode()
	}
	return http.StatusInternalServerError
}

// UserMessage returns the short text shown to the user for a failed action
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	appErr, ok := As(err)
	if !ok {
		return "Something went wrong"
	}
	switch appErr.Code {
	case ErrCodePermissionDenied:
		return "Microphone permission is needed to record audio notes"
	case ErrCodeDeviceUnavailable:
		return "Audio device is unavailable"
	case ErrCodeRecordingRequired:
		return "Record before saving"
	case ErrCodeTitleRequired:
		return "Title is required"
	case ErrCodeStorage:
		return "Could not save changes"
	case ErrCodeNotFound:
		return "File not found"
	default:
		return appErr.Message
	}
}
