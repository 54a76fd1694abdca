package iyzico

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"tezpay-payment-api/models"
)

func decodeResponse(t *testing.T, body string) *authPaymentResponse {
	t.Helper()
	var raw authPaymentResponse
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return &raw
}

func TestMapAuthResponseSuccess(t *testing.T) {
	raw := decodeResponse(t, `{
        "status": "success",
        "locale": "en",
        "systemTime": 1700000000000,
        "conversationId": "conv-123",
        "price": "0.5",
        "paidPrice": "0.7",
        "installment": 1,
        "paymentId": "10533503",
        "fraudStatus": 1,
        "merchantCommissionRate": "10",
        "merchantCommissionRateAmount": "0.2",
        "iyziCommissionRateAmount": "0.0295",
        "iyziCommissionFee": "0.25",
        "cardType": "CREDIT_CARD",
        "cardAssociation": "MASTER_CARD",
        "cardFamily": "Bonus",
        "binNumber": "552879",
        "lastFourDigits": "0008",
        "basketId": "basket-1",
        "currency": "TRY",
        "authCode": "auth-1",
        "phase": "AUTH",
        "itemTransactions": [
            {
                "itemId": "item-1",
                "paymentTransactionId": "17450502",
                "transactionStatus": 1,
                "price": "0.3",
                "paidPrice": "0.42",
                "convertedPayout": {"currency": "TRY", "paidPrice": "0.42"}
            },
            {
                "itemId": "item-2",
                "paymentTransactionId": "17450503",
                "transactionStatus": 0,
                "price": "0.2",
                "paidPrice": "0.28",
                "convertedPayout": {"currency": "TRY", "paidPrice": "0.28"}
            }
        ]
    }`)

	original := sampleRequest()
	original.Card.Alias = "primary card"

	payment, metadata := mapAuthResponse(raw, original)

	require.Equal(t, "0.5", payment.Price, "decimal strings pass through untouched")
	require.Equal(t, "0.7", payment.PaidPrice)
	require.Equal(t, "10533503", payment.PaymentID)
	require.Equal(t, models.CurrencyTRY, payment.Currency)
	require.Equal(t, "conv-123", payment.ConversationID)
	require.Equal(t, "basket-1", payment.BasketID)
	require.Equal(t, "552879", payment.BinNumber)
	require.Equal(t, "0008", payment.LastFourDigits)
	require.Equal(t, 1, payment.FraudStatus)

	require.True(t, metadata.Succeeded)
	require.Equal(t, int64(1700000000000), metadata.SystemTime)
	require.Equal(t, "AUTH", metadata.Phase)
	require.Equal(t, "en", metadata.Locale)
	require.Equal(t, "auth-1", metadata.AuthCode)

	// Gateway order is preserved 1:1.
	require.Len(t, payment.Transactions, 2)
	require.Equal(t, "item-1", payment.Transactions[0].ItemID)
	require.Equal(t, "17450502", payment.Transactions[0].TransactionID)
	require.Equal(t, models.TransactionSuccess, payment.Transactions[0].Status)
	require.Equal(t, "0.3", payment.Transactions[0].Price)
	require.Equal(t, models.CurrencyTRY, payment.Transactions[0].ConvertedPayout.Currency)
	require.Equal(t, "item-2", payment.Transactions[1].ItemID)
	require.Equal(t, models.TransactionAwaiting, payment.Transactions[1].Status)

	// Card enums decode through the fixed tables; request-only fields come
	// from the original request.
	ref := payment.CardReference
	require.Equal(t, models.CardAssociationMasterCard, ref.Association)
	require.Equal(t, models.CardFamilyBonus, ref.Family)
	require.Equal(t, models.CardTypeCredit, ref.Type)
	require.Equal(t, "primary card", ref.Alias)
	require.Equal(t, "jane@example.com", ref.Email)
	require.Same(t, original.Card, ref.Card)
}

func TestMapAuthResponseMissingFields(t *testing.T) {
	raw := decodeResponse(t, `{"status": "success", "systemTime": 1}`)

	payment, metadata := mapAuthResponse(raw, nil)

	require.True(t, metadata.Succeeded)
	require.Empty(t, payment.Price)
	require.Empty(t, payment.PaymentID)
	require.Empty(t, payment.Currency)
	require.Empty(t, payment.Transactions)
	require.Empty(t, payment.CardReference.Alias)
	require.Nil(t, payment.CardReference.Card)
}

func TestMapAuthResponseUnsucceededStatus(t *testing.T) {
	raw := decodeResponse(t, `{"status": "something_else", "systemTime": 1}`)

	_, metadata := mapAuthResponse(raw, nil)

	require.False(t, metadata.Succeeded, "only the literal success status counts")
}

func TestMapCurrency(t *testing.T) {
	cases := map[string]models.Currency{
		"TRY": models.CurrencyTRY,
		"USD": models.CurrencyUSD,
		"EUR": models.CurrencyEUR,
		"GBP": models.CurrencyGBP,
		"RUB": models.CurrencyRUB,
		"CHF": models.CurrencyCHF,
		"NOK": models.CurrencyNOK,
	}

	for wire, want := range cases {
		require.Equal(t, want, mapCurrency(wire))
	}
}

func TestCardEnumTables(t *testing.T) {
	t.Run("unknown values fall through to the zero enum", func(t *testing.T) {
		raw := &authPaymentResponse{
			CardAssociation: "SOMETHING_NEW",
			CardFamily:      "Mystery",
			CardType:        "GIFT_CARD",
		}

		ref := mapCardReference(raw, nil)

		require.Equal(t, models.CardAssociationUnknown, ref.Association)
		require.Equal(t, models.CardFamilyUnknown, ref.Family)
		require.Equal(t, models.CardTypeUnknown, ref.Type)
	})

	t.Run("known associations", func(t *testing.T) {
		cases := map[string]models.CardAssociation{
			"VISA":             models.CardAssociationVisa,
			"MASTER_CARD":      models.CardAssociationMasterCard,
			"AMERICAN_EXPRESS": models.CardAssociationAmex,
			"TROY":             models.CardAssociationTroy,
		}
		for wire, want := range cases {
			ref := mapCardReference(&authPaymentResponse{CardAssociation: wire}, nil)
			require.Equal(t, want, ref.Association)
		}
	})

	t.Run("known families", func(t *testing.T) {
		cases := map[string]models.CardFamily{
			"Bonus":      models.CardFamilyBonus,
			"Axess":      models.CardFamilyAxess,
			"World":      models.CardFamilyWorld,
			"Maximum":    models.CardFamilyMaximum,
			"Paraf":      models.CardFamilyParaf,
			"CardFinans": models.CardFamilyCardFinans,
			"Advantage":  models.CardFamilyAdvantage,
		}
		for wire, want := range cases {
			ref := mapCardReference(&authPaymentResponse{CardFamily: wire}, nil)
			require.Equal(t, want, ref.Family)
		}
	})
}

func TestMapCardReferenceSavedCardHandle(t *testing.T) {
	raw := &authPaymentResponse{
		CardToken:   "tok-1",
		CardUserKey: "user-1",
	}

	ref := mapCardReference(raw, nil)

	require.Equal(t, "tok-1", ref.Token)
	require.Equal(t, "user-1", ref.UserKey)
}
