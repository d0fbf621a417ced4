package httperrors

import (
	"fmt"
	"net/http"
)

// Public error types returned in the "type" field.
const (
	TypeGeneric               = "generic"
	TypeAddressNotValid       = "ADDRESS_NOT_VALID"
	TypeTargetAddressNotValid = "TARGET_ADDRESS_NOT_VALID"
	TypeWalletNotFound        = "WALLET_NOT_FOUND"
	TypeInsufficientFunds     = "INSUFFICIENT_FUNDS"
	TypeNodeUnavailable       = "NODE_UNAVAILABLE"
	TypeInvalidMnemonic       = "INVALID_MNEMONIC"
	TypeAmountNotValid        = "AMOUNT_NOT_VALID"
	TypeInvalidQueryParameter = "INVALID_QUERY_PARAMETER"
	TypeValidation            = "VALIDATION_ERROR"
)

// HTTPError is the JSON error document of the API.
type HTTPError struct {
	Code   int    `json:"status"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`

	// Set for insufficient funds, ether with 18 decimals.
	Available string `json:"available,omitempty"`
	Required  string `json:"required,omitempty"`

	Internal error `json:"-"`
}

// HTTPValidationErrorDetail names one offending input.
type HTTPValidationErrorDetail struct {
	Key   string `json:"key"`
	In    string `json:"in"`
	Error string `json:"error"`
}

// HTTPValidationError is an HTTPError listing offending inputs.
type HTTPValidationError struct {
	HTTPError

	ValidationErrors []*HTTPValidationErrorDetail `json:"validationErrors"`
}

func NewHTTPError(code int, errorType string, title string) *HTTPError {
	return &HTTPError{
		Code:  code,
		Type:  errorType,
		Title: title,
	}
}

func NewHTTPErrorWithDetail(code int, errorType string, title string, detail string) *HTTPError {
	return &HTTPError{
		Code:   code,
		Type:   errorType,
		Title:  title,
		Detail: detail,
	}
}

func NewHTTPValidationError(code int, errorType string, title string, details []*HTTPValidationErrorDetail) *HTTPValidationError {
	return &HTTPValidationError{
		HTTPError:        HTTPError{Code: code, Type: errorType, Title: title},
		ValidationErrors: details,
	}
}

func (e *HTTPError) Error() string {
	var b = fmt.Sprintf("HTTPError %d (%s): %s", e.Code, e.Type, e.Title)
	if e.Detail != "" {
		b = fmt.Sprintf("%s - %s", b, e.Detail)
	}
	if e.Internal != nil {
		b = fmt.Sprintf("%s, %v", b, e.Internal)
	}

	return b
}

func (e *HTTPValidationError) Error() string {
	return fmt.Sprintf("HTTPValidationError %d (%s): %s - %d validation errors",
		e.Code, e.Type, e.Title, len(e.ValidationErrors))
}

// SetInternal attaches the underlying error for logging.
func (e *HTTPError) SetInternal(err error) *HTTPError {
	e.Internal = err
	return e
}

var (
	ErrBadRequestAddressNotValid       = NewHTTPError(http.StatusBadRequest, TypeAddressNotValid, "Address is not valid.")
	ErrBadRequestTargetAddressNotValid = NewHTTPError(http.StatusBadRequest, TypeTargetAddressNotValid, "Target address is not valid.")
	ErrBadRequestInvalidMnemonic       = NewHTTPError(http.StatusBadRequest, TypeInvalidMnemonic, "Mnemonic is not valid.")
	ErrBadRequestAmountNotValid        = NewHTTPError(http.StatusBadRequest, TypeAmountNotValid, "Amount is not valid.")
	ErrNotFoundWallet                  = NewHTTPError(http.StatusNotFound, TypeWalletNotFound, "Wallet not found.")
	ErrBadGatewayNodeUnavailable       = NewHTTPError(http.StatusBadGateway, TypeNodeUnavailable, "Blockchain node unavailable.")
)
