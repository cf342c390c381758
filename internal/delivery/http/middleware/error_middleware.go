package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	deliverycontext "cinevault/internal/delivery/context"
	domainerrors "cinevault/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	meta := &domainerrors.MetaInfo{RequestID: deliverycontext.GetRequestID(c)}

	// Domain errors carry their own HTTP status and business code.
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		_ = c.JSON(appErr.HTTPCode(), domainerrors.ErrorResponse{
			Error: &domainerrors.ErrorInfo{
				Code:    appErr.ErrorCode(),
				Message: appErr.Message(),
				Details: appErr.Details(),
			},
			Meta: meta,
		})

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = c.JSON(httpErr.Code, domainerrors.ErrorResponse{
			Error: &domainerrors.ErrorInfo{
				Code:    "HTTP_ERROR",
				Message: fmt.Sprintf("%v", httpErr.Message),
			},
			Meta: meta,
		})

		return
	}

	m.logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	_ = c.JSON(http.StatusInternalServerError, domainerrors.ErrorResponse{
		Error: &domainerrors.ErrorInfo{
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
		},
		Meta: meta,
	})
}
