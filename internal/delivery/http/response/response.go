// Package response builds the unified API response envelope.
package response

import (
	"net/http"

	deliverycontext "cinevault/internal/delivery/context"
	domainerrors "cinevault/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// Success writes a successful response with the request ID in the meta block.
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, domainerrors.SuccessResponse{
		Data: data,
		Meta: &domainerrors.MetaInfo{RequestID: deliverycontext.GetRequestID(c)},
	})
}

// Error writes an error response with the request ID in the meta block.
func Error(c echo.Context, statusCode int, errorCode string, message string, details any) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, domainerrors.ErrorResponse{
		Error: &domainerrors.ErrorInfo{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
		Meta: &domainerrors.MetaInfo{RequestID: deliverycontext.GetRequestID(c)},
	})
}

// BindingError 400 response for malformed request bodies.
func BindingError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, nil)
}

// BadRequest 400 error.
func BadRequest(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, nil)
}

// Unauthorized 401 error.
func Unauthorized(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusUnauthorized, errorCode, message, nil)
}

// Forbidden 403 error.
func Forbidden(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusForbidden, errorCode, message, nil)
}

// NotFound 404 error.
func NotFound(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusNotFound, errorCode, message, nil)
}
