package models

import (
	"fmt"

	"tezpay-payment-api/types"
)

// ErrorCode is the opaque gateway/transport error code. The service never
// reinterprets it; it is surfaced exactly as the gateway (or transport
// layer) produced it.
type ErrorCode string

const (
	ErrCodeConnection        ErrorCode = "connection_error"
	ErrCodeMalformedResponse ErrorCode = "malformed_response"
)

// PaymentResult is the non-raising outcome of one payment call: either a
// (Payment, Metadata) pair or an error code, never both.
type PaymentResult struct {
	Payment  *Payment  `json:"payment,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Code     ErrorCode `json:"error_code,omitempty"`

	// ThreeDS is set when the gateway answered a 3-D Secure initialization:
	// the payment is not final until the buyer completes authentication.
	ThreeDS *types.ThreeDSInitResult `json:"three_ds,omitempty"`
}

func (r *PaymentResult) OK() bool {
	return r.Code == "" && r.Payment != nil
}

// ProcessingError is the typed failure returned by the strict API surface.
// It carries the same code the non-raising surface would have returned.
type ProcessingError struct {
	Code ErrorCode
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("payment processing failed: %s", e.Code)
}

// Err converts a failed result into a *ProcessingError, nil otherwise.
func (r *PaymentResult) Err() error {
	if r.OK() {
		return nil
	}
	code := r.Code
	if code == "" {
		code = ErrCodeMalformedResponse
	}
	return &ProcessingError{Code: code}
}
