package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrContractNotFound is returned when a contract does not exist.
	ErrContractNotFound = errors.New("contract not found")
	// ErrContractNotEligible is returned when a contract's state disallows payment.
	ErrContractNotEligible = errors.New("contract must be active or signed to accept payment")
	// ErrOrderNotFound is returned when a payment order does not exist.
	ErrOrderNotFound = errors.New("payment order not found")
	// ErrOrderNotCapturable is returned when a payment order is already terminal.
	ErrOrderNotCapturable = errors.New("payment order is not capturable")
	// ErrSignatureInvalid is returned when gateway signature verification fails.
	// Security-relevant: callers must not retry with the same signature.
	ErrSignatureInvalid = errors.New("payment signature verification failed")
	// ErrGatewayUnavailable is returned when the payment gateway rejects or
	// fails order creation. Transient: the caller may retry createOrder.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrInvalidAmount is returned when a contract amount is invalid.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrContractAggregateStale is returned when a payment captured but the
	// contract's paid aggregate could not be updated. The capture stands;
	// the aggregate is reconcilable from the order records.
	ErrContractAggregateStale = errors.New("contract payment aggregate not updated")
	// ErrRecordNotFound is returned when an audit record does not exist.
	ErrRecordNotFound = errors.New("audit record not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Signature failures get a
// distinct security-class code so callers can tell "fix the input and retry"
// apart from "do not retry this request as-is".
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrContractNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CONTRACT_NOT_FOUND")
	case errors.Is(err, ErrContractNotEligible):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CONTRACT_NOT_ELIGIBLE")
	case errors.Is(err, ErrOrderNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ORDER_NOT_FOUND")
	case errors.Is(err, ErrOrderNotCapturable):
		return NewHTTPError(http.StatusConflict, err.Error(), "ORDER_NOT_CAPTURABLE")
	case errors.Is(err, ErrSignatureInvalid):
		return NewHTTPError(http.StatusForbidden, err.Error(), "SIGNATURE_VERIFICATION_FAILED")
	case errors.Is(err, ErrGatewayUnavailable):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "GATEWAY_UNAVAILABLE")
	case errors.Is(err, ErrInvalidAmount):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
	case errors.Is(err, ErrContractAggregateStale):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "CONTRACT_AGGREGATE_STALE")
	case errors.Is(err, ErrRecordNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "RECORD_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
