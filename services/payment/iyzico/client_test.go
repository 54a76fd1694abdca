package iyzico

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tezpay-payment-api/models"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Config{
		APIKey:    "test-key",
		APISecret: "test-secret",
		BaseURL:   serverURL,
	})
}

func TestAuthorizeSuccess(t *testing.T) {
	var gotPath string
	var gotPayload paymentPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("x-iyzi-rnd"))
		require.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "IYZWSv2 "))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
            "status": "success",
            "locale": "en",
            "systemTime": 1700000000000,
            "conversationId": "conv-123",
            "price": "0.5",
            "paidPrice": "0.7",
            "paymentId": "10533503",
            "currency": "TRY",
            "itemTransactions": [
                {"itemId": "item-1", "paymentTransactionId": "17450502", "transactionStatus": 1, "price": "0.5"}
            ]
        }`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result := client.Authorize(context.Background(), sampleRequest(), Options{})

	require.True(t, result.OK())
	require.NoError(t, result.Err())
	require.Equal(t, pathAuth, gotPath)
	require.Equal(t, "TRY", gotPayload.Currency)
	require.Empty(t, gotPayload.CallbackURL)

	require.Equal(t, "0.5", result.Payment.Price)
	require.Equal(t, "0.7", result.Payment.PaidPrice)
	require.Equal(t, models.CurrencyTRY, result.Payment.Currency)
	require.True(t, result.Metadata.Succeeded)
	require.Len(t, result.Payment.Transactions, 1)
	require.Nil(t, result.ThreeDS)
}

func TestAuthorizeGatewayDecline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
            "status": "failure",
            "errorCode": "5152",
            "errorMessage": "Invalid transaction",
            "errorGroup": "NOT_SUFFICIENT_FUNDS"
        }`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result := client.Authorize(context.Background(), sampleRequest(), Options{})

	require.False(t, result.OK())
	require.Equal(t, models.ErrorCode("5152"), result.Code, "gateway code is surfaced unchanged")
	require.Nil(t, result.Payment)

	err := result.Err()
	require.Error(t, err)
	perr, ok := err.(*models.ProcessingError)
	require.True(t, ok)
	require.Equal(t, models.ErrorCode("5152"), perr.Code)
}

func TestAuthorizeThreeDSInit(t *testing.T) {
	var gotPath string
	var gotPayload paymentPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
            "status": "success",
            "conversationId": "conv-123",
            "threeDSHtmlContent": "<html>redirect</html>"
        }`))
	}))
	defer server.Close()

	req := sampleRequest()
	req.SecureCallbackURL = "https://merchant.example.com/3ds/return"

	client := newTestClient(server.URL)
	result := client.Authorize(context.Background(), req, Options{})

	require.Equal(t, pathThreeDSInit, gotPath)
	require.Equal(t, "https://merchant.example.com/3ds/return", gotPayload.CallbackURL)

	require.NotNil(t, result.ThreeDS)
	require.Equal(t, "conv-123", result.ThreeDS.ConversationID)
	require.Equal(t, "<html>redirect</html>", result.ThreeDS.HTMLContent)
}

func TestAuthorizeConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens anymore

	client := newTestClient(server.URL)
	result := client.Authorize(context.Background(), sampleRequest(), Options{})

	require.False(t, result.OK())
	require.Equal(t, models.ErrCodeConnection, result.Code)
}

func TestAuthorizeMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result := client.Authorize(context.Background(), sampleRequest(), Options{})

	require.False(t, result.OK())
	require.Equal(t, models.ErrCodeMalformedResponse, result.Code)
}

func TestAuthorizeStripsByteOrderMark(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\ufeff" + `{"status": "success", "conversationId": "conv-123"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result := client.Authorize(context.Background(), sampleRequest(), Options{})

	require.True(t, result.OK())
	require.Equal(t, "conv-123", result.Payment.ConversationID)
}

func TestCompleteThreeDS(t *testing.T) {
	var gotPath string
	var gotPayload threeDSAuthPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
            "status": "success",
            "conversationId": "conv-123",
            "paymentId": "10533503",
            "currency": "TRY"
        }`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result := client.CompleteThreeDS(context.Background(), "conv-123", "10533503")

	require.Equal(t, pathThreeDSAuth, gotPath)
	require.Equal(t, "conv-123", gotPayload.ConversationID)
	require.Equal(t, "10533503", gotPayload.PaymentID)

	require.True(t, result.OK())
	require.Equal(t, "10533503", result.Payment.PaymentID)
	// No original request at completion time: back-references stay empty.
	require.Empty(t, result.Payment.CardReference.Alias)
	require.Nil(t, result.Payment.CardReference.Card)
}

func TestPerCallCredentialOverride(t *testing.T) {
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status": "success"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.Authorize(context.Background(), sampleRequest(), Options{
		APIKey:    "override-key",
		APISecret: "override-secret",
	})

	decoded := decodeAuthHeader(t, gotAuth)
	require.Contains(t, decoded, "apiKey:override-key&")
}

func decodeAuthHeader(t *testing.T, header string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(header, "IYZWSv2 "))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "IYZWSv2 "))
	require.NoError(t, err)
	return string(raw)
}
