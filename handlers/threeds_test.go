package handlers

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	h := &ThreeDSHandler{}

	t.Run("form encoded", func(t *testing.T) {
		form := url.Values{}
		form.Set("status", "success")
		form.Set("paymentId", "10533503")
		form.Set("conversationId", "conv-123")
		form.Set("mdStatus", "1")

		r := httptest.NewRequest("POST", "/api/threeds/callback", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		cb, err := h.parseCallback(r)
		require.NoError(t, err)
		require.Equal(t, "success", cb.Status)
		require.Equal(t, "10533503", cb.PaymentID)
		require.Equal(t, "conv-123", cb.ConversationID)
		require.Equal(t, "1", cb.MDStatus)
	})

	t.Run("json encoded", func(t *testing.T) {
		body := `{"status":"success","paymentId":"10533503","conversationId":"conv-123","mdStatus":"1"}`

		r := httptest.NewRequest("POST", "/api/threeds/callback", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")

		cb, err := h.parseCallback(r)
		require.NoError(t, err)
		require.Equal(t, "10533503", cb.PaymentID)
		require.Equal(t, "conv-123", cb.ConversationID)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/threeds/callback", strings.NewReader("{"))
		r.Header.Set("Content-Type", "application/json")

		_, err := h.parseCallback(r)
		require.Error(t, err)
	})
}
