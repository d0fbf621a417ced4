package httperrors

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github/chapool/hd-wallet/internal/util"
	"github/chapool/hd-wallet/internal/wallet"
	"github/chapool/hd-wallet/internal/wallet/balance"
)

// FromWalletError maps a wallet engine error to its HTTP representation. ok is false for
// errors without a public mapping.
func FromWalletError(err error) (*HTTPError, bool) {
	var insufficient *wallet.InsufficientFundsError
	if errors.As(err, &insufficient) {
		return &HTTPError{
			Code:      http.StatusBadRequest,
			Type:      TypeInsufficientFunds,
			Title:     "Insufficient funds.",
			Detail:    insufficient.Error(),
			Available: balance.Format(insufficient.Available),
			Required:  balance.Format(insufficient.Required),
		}, true
	}

	var mapped *HTTPError

	switch {
	case errors.Is(err, wallet.ErrTargetAddressNotValid):
		mapped = ErrBadRequestTargetAddressNotValid
	case errors.Is(err, wallet.ErrAddressNotValid):
		mapped = ErrBadRequestAddressNotValid
	case errors.Is(err, wallet.ErrWalletNotFound):
		mapped = ErrNotFoundWallet
	case errors.Is(err, wallet.ErrInvalidMnemonic):
		mapped = ErrBadRequestInvalidMnemonic
	case errors.Is(err, wallet.ErrAmountNotValid):
		mapped = ErrBadRequestAmountNotValid
	case errors.Is(err, wallet.ErrNodeUnavailable):
		mapped = ErrBadGatewayNodeUnavailable
	default:
		return nil, false
	}

	c := *mapped
	c.Internal = err

	return &c, true
}

// HTTPErrorHandlerWithConfig returns an echo error handler writing HTTPError documents.
// With hideInternal set, details of 5xx errors without a public mapping are not exposed.
func HTTPErrorHandlerWithConfig(hideInternal bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		log := util.LogFromContext(c.Request().Context())

		var (
			body any
			code int
		)

		var httpErr *HTTPError
		var validationErr *HTTPValidationError
		var echoErr *echo.HTTPError

		if mapped, ok := FromWalletError(err); ok {
			httpErr = mapped
		}

		switch {
		case httpErr != nil:
			body, code = httpErr, httpErr.Code
		case errors.As(err, &validationErr):
			body, code = validationErr, validationErr.Code
		case errors.As(err, &httpErr):
			body, code = httpErr, httpErr.Code
		case errors.As(err, &echoErr):
			title := http.StatusText(echoErr.Code)
			if msg, ok := echoErr.Message.(string); ok {
				title = msg
			}
			body, code = NewHTTPError(echoErr.Code, TypeGeneric, title), echoErr.Code
		default:
			internal := NewHTTPError(http.StatusInternalServerError, TypeGeneric, http.StatusText(http.StatusInternalServerError))
			if !hideInternal {
				internal.Detail = err.Error()
			}
			body, code = internal, http.StatusInternalServerError
		}

		if code >= http.StatusInternalServerError {
			log.Error().Err(err).Int("status", code).Msg("Request failed")
		} else {
			log.Debug().Err(err).Int("status", code).Msg("Request rejected")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, body)
		}

		if writeErr != nil {
			log.Error().Err(writeErr).Msg("Failed to write error response")
		}
	}
}
