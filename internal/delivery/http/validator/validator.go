// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator wraps a validator.Validate instance for echo.
type CustomValidator struct {
	validate *validator.Validate
}

// New creates a CustomValidator ready to be set as echo's Validator.
func New() *CustomValidator {
	return &CustomValidator{validate: validator.New()}
}

// Validate checks the struct's validate tags and converts failures into 400s.
func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}
