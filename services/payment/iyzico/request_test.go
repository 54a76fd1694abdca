package iyzico

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tezpay-payment-api/models"
)

func sampleRequest() *models.PaymentRequest {
	return &models.PaymentRequest{
		Locale:         "en",
		ConversationID: "conv-123",
		Price:          "0.5",
		PaidPrice:      "0.7",
		Currency:       models.CurrencyTRY,
		BasketID:       "basket-1",
		PaymentChannel: "WEB",
		PaymentGroup:   "PRODUCT",
		Installment:    1,
		Card: &models.PaymentCard{
			HolderName:  "Jane Doe",
			Number:      "4242424242424242",
			ExpireMonth: "12",
			ExpireYear:  "2030",
			CVC:         "123",
		},
		Buyer: &models.Buyer{
			ID:                  "buyer-1",
			Name:                "Jane",
			Surname:             "Doe",
			IdentityNumber:      "11111111111",
			Email:               "jane@example.com",
			RegistrationAddress: "Some Street 1",
			City:                "Istanbul",
			Country:             "Turkey",
		},
		BillingAddress: &models.Address{
			Address:     "Some Street 1",
			ContactName: "Jane Doe",
			City:        "Istanbul",
			Country:     "Turkey",
		},
		ShippingAddress: &models.Address{
			Address:     "Some Street 1",
			ContactName: "Jane Doe",
			City:        "Istanbul",
			Country:     "Turkey",
		},
		BasketItems: []models.BasketItem{
			{
				ID:       "item-1",
				Name:     "Widget",
				Category: "Tools",
				Type:     models.BasketItemPhysical,
				Price:    "0.5",
			},
		},
	}
}

func TestBuildRequestEndpointSelection(t *testing.T) {
	t.Run("no callback goes to direct auth", func(t *testing.T) {
		req := sampleRequest()

		path, payload := BuildRequest(req, Options{})

		require.Equal(t, pathAuth, path)
		require.Empty(t, payload.CallbackURL)
	})

	t.Run("request callback switches to 3DS init", func(t *testing.T) {
		req := sampleRequest()
		req.SecureCallbackURL = "https://merchant.example.com/3ds/return"

		path, payload := BuildRequest(req, Options{})

		require.Equal(t, pathThreeDSInit, path)
		require.Equal(t, "https://merchant.example.com/3ds/return", payload.CallbackURL)
	})

	t.Run("options callback wins over request callback", func(t *testing.T) {
		req := sampleRequest()
		req.SecureCallbackURL = "https://merchant.example.com/3ds/return"

		path, payload := BuildRequest(req, Options{
			SecureCallbackURL: "https://override.example.com/cb",
		})

		require.Equal(t, pathThreeDSInit, path)
		require.Equal(t, "https://override.example.com/cb", payload.CallbackURL)
	})
}

func TestBuildRequestReshaping(t *testing.T) {
	req := sampleRequest()
	req.Card.RegisterCard = true

	_, payload := BuildRequest(req, Options{})

	require.Equal(t, "conv-123", payload.ConversationID)
	require.Equal(t, "0.5", payload.Price)
	require.Equal(t, "0.7", payload.PaidPrice)
	require.Equal(t, "TRY", payload.Currency, "currency goes uppercase on the wire")
	require.Equal(t, "basket-1", payload.BasketID)

	require.NotNil(t, payload.PaymentCard)
	require.Equal(t, "Jane Doe", payload.PaymentCard.CardHolderName)
	require.Equal(t, "4242424242424242", payload.PaymentCard.CardNumber)
	require.Equal(t, 1, payload.PaymentCard.RegisterCard)

	require.NotNil(t, payload.Buyer)
	require.Equal(t, "jane@example.com", payload.Buyer.Email)

	require.Len(t, payload.BasketItems, 1)
	require.Equal(t, "item-1", payload.BasketItems[0].ID)
	require.Equal(t, "Tools", payload.BasketItems[0].Category1)
	require.Equal(t, "PHYSICAL", payload.BasketItems[0].ItemType)
}

func TestBuildRequestNilSections(t *testing.T) {
	req := sampleRequest()
	req.Card = nil
	req.Buyer = nil
	req.ShippingAddress = nil
	req.BillingAddress = nil
	req.BasketItems = nil

	path, payload := BuildRequest(req, Options{})

	require.Equal(t, pathAuth, path)
	require.Nil(t, payload.PaymentCard)
	require.Nil(t, payload.Buyer)
	require.Nil(t, payload.ShippingAddress)
	require.Nil(t, payload.BillingAddress)
	require.Empty(t, payload.BasketItems)
}
