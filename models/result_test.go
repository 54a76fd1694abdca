package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaymentResultOK(t *testing.T) {
	ok := &PaymentResult{Payment: &Payment{}, Metadata: &Metadata{Succeeded: true}}
	require.True(t, ok.OK())
	require.NoError(t, ok.Err())

	declined := &PaymentResult{Code: "5152"}
	require.False(t, declined.OK())

	empty := &PaymentResult{}
	require.False(t, empty.OK())
}

func TestPaymentResultErr(t *testing.T) {
	declined := &PaymentResult{Code: "invalid_card"}

	err := declined.Err()
	require.Error(t, err)

	perr, ok := err.(*ProcessingError)
	require.True(t, ok)
	require.Equal(t, ErrorCode("invalid_card"), perr.Code)
	require.Contains(t, perr.Error(), "invalid_card")

	// A result with neither payment nor code still fails, with the
	// malformed-response fallback code.
	empty := &PaymentResult{}
	perr, ok = empty.Err().(*ProcessingError)
	require.True(t, ok)
	require.Equal(t, ErrCodeMalformedResponse, perr.Code)
}
