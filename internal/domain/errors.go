package domain

import (
	"errors"
	"fmt"
)

// User-facing messages. The storefront renders these verbatim.
const (
	MsgPostalCodeRequired = "CEP é obrigatório"
	MsgPostalCodeInvalid  = "CEP inválido"
	MsgPostalCodeNotFound = "CEP não encontrado"
	MsgCartTotalInvalid   = "valor do carrinho inválido"
	MsgQuoteFailed        = "Erro ao calcular frete"
)

// ErrorKind classifies estimation failures
type ErrorKind int

const (
	// InvalidInput: the postal code or subtotal was rejected before any lookup.
	InvalidInput ErrorKind = iota + 1
	// NotFound: the lookup service reports no such postal code.
	NotFound
	// UpstreamUnavailable: the lookup failed for any other reason.
	UpstreamUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case NotFound:
		return "not_found"
	case UpstreamUnavailable:
		return "upstream_unavailable"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Every *EstimateError matches the one for its kind.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// EstimateError is the only error type Estimate returns
type EstimateError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *EstimateError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *EstimateError) Unwrap() error {
	return e.cause
}

// Is reports whether target is the sentinel for e's kind
func (e *EstimateError) Is(target error) bool {
	switch e.Kind {
	case InvalidInput:
		return target == ErrInvalidInput
	case NotFound:
		return target == ErrNotFound
	case UpstreamUnavailable:
		return target == ErrUpstreamUnavailable
	}
	return false
}

func newInvalidInput(message string) *EstimateError {
	return &EstimateError{Kind: InvalidInput, Message: message}
}

func newNotFound() *EstimateError {
	return &EstimateError{Kind: NotFound, Message: MsgPostalCodeNotFound}
}

func newUpstreamUnavailable(cause error) *EstimateError {
	return &EstimateError{Kind: UpstreamUnavailable, Message: MsgQuoteFailed, cause: cause}
}

// KindOf returns the kind of err, or 0 when err is not an *EstimateError
func KindOf(err error) ErrorKind {
	var estimateErr *EstimateError
	if errors.As(err, &estimateErr) {
		return estimateErr.Kind
	}
	return 0
}

// MessageOf returns the user-facing message of err, or "" when err is not an *EstimateError
func MessageOf(err error) string {
	var estimateErr *EstimateError
	if errors.As(err, &estimateErr) {
		return estimateErr.Message
	}
	return ""
}
