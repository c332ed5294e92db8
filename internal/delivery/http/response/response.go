// Package response defines the unified API response helpers.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response unified API response structure
type Response struct {
	Success bool              `json:"success"`
	Code    int               `json:"code"`    // HTTP status code
	Message string            `json:"message"` // User-friendly message
	Data    any               `json:"data,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"` // Per-field form errors
	Error   *ErrorInfo        `json:"error,omitempty"`
}

// ErrorInfo detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`    // Business error code, e.g., "ACCOUNT_NOT_FOUND"
	Details string `json:"details"` // Detailed error description
}

// Success successful response
func Success(c echo.Context, statusCode int, data any, message string) error {
	if message == "" {
		message = "Success"
	}

	return c.JSON(statusCode, Response{
		Success: true,
		Code:    statusCode,
		Message: message,
		Data:    data,
	})
}

// FormErrors renders field-level validation errors the way a server-side
// form round-trip does: status 200, success false, messages per field.
func FormErrors(c echo.Context, fields map[string]string) error {
	return c.JSON(http.StatusOK, Response{
		Success: false,
		Code:    http.StatusOK,
		Message: "Please correct the errors below",
		Fields:  fields,
	})
}

// FormFailure renders a whole-form failure message with status 200, used by
// the login form so failed attempts re-render rather than error out.
func FormFailure(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Response{
		Success: false,
		Code:    http.StatusOK,
		Message: message,
	})
}

// Error error response
func Error(c echo.Context, statusCode int, errorCode string, message string, details string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, Response{
		Success: false,
		Code:    statusCode,
		Message: message,
		Error: &ErrorInfo{
			Code:    errorCode,
			Details: details,
		},
	})
}

// BindingError binding error response
func BindingError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, "")
}

// Unauthorized 401 error
func Unauthorized(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusUnauthorized, errorCode, message, "")
}

// Forbidden 403 error
func Forbidden(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusForbidden, errorCode, message, "")
}

// NotFound 404 error
func NotFound(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusNotFound, errorCode, message, "")
}

// InternalServerError 500 error
func InternalServerError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, "")
}
