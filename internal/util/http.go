package util

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Validatable is implemented by request and response payloads that can check themselves.
type Validatable interface {
	Validate() error
}

// BindAndValidateBody binds the JSON request body into v and runs its Validate method.
func BindAndValidateBody(c echo.Context, v any) error {
	binder := &echo.DefaultBinder{}
	if err := binder.BindBody(c, v); err != nil {
		LogFromContext(c.Request().Context()).Debug().Err(err).Msg("Failed to bind request body")
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed request body.").SetInternal(err)
	}

	if val, ok := v.(Validatable); ok {
		if err := val.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ValidateAndReturn validates a response payload before writing it as JSON.
func ValidateAndReturn(c echo.Context, code int, v any) error {
	if val, ok := v.(Validatable); ok {
		if err := val.Validate(); err != nil {
			LogFromContext(c.Request().Context()).Error().Err(err).Msg("Response payload failed validation")
			return errors.Wrap(err, "invalid response payload")
		}
	}

	return c.JSON(code, v)
}
