package iyzico

import (
	"strings"

	"tezpay-payment-api/models"
)

// Fixed decode tables for the gateway's card enumeration strings. Unknown
// values fall through to the zero enum rather than failing the mapping.
var cardAssociations = map[string]models.CardAssociation{
	"VISA":             models.CardAssociationVisa,
	"MASTER_CARD":      models.CardAssociationMasterCard,
	"AMERICAN_EXPRESS": models.CardAssociationAmex,
	"TROY":             models.CardAssociationTroy,
}

var cardFamilies = map[string]models.CardFamily{
	"Bonus":      models.CardFamilyBonus,
	"Axess":      models.CardFamilyAxess,
	"World":      models.CardFamilyWorld,
	"Maximum":    models.CardFamilyMaximum,
	"Paraf":      models.CardFamilyParaf,
	"CardFinans": models.CardFamilyCardFinans,
	"Advantage":  models.CardFamilyAdvantage,
}

var cardTypes = map[string]models.CardType{
	"CREDIT_CARD":  models.CardTypeCredit,
	"DEBIT_CARD":   models.CardTypeDebit,
	"PREPAID_CARD": models.CardTypePrepaid,
}

// mapAuthResponse turns a successful gateway payload into the domain pair.
// The mapping is a field-for-field reshape: missing fields stay zero-valued,
// nothing is defaulted or validated here. original may be nil (3DS
// completion), in which case the request-only back-references stay empty.
func mapAuthResponse(raw *authPaymentResponse, original *models.PaymentRequest) (*models.Payment, *models.Metadata) {
	payment := &models.Payment{
		BasketID:                 raw.BasketID,
		BinNumber:                raw.BinNumber,
		CardReference:            mapCardReference(raw, original),
		ConversationID:           raw.ConversationID,
		Currency:                 mapCurrency(raw.Currency),
		FraudStatus:              raw.FraudStatus,
		Installment:              raw.Installment,
		Transactions:             mapTransactions(raw.ItemTransactions),
		CommissionFee:            raw.CommissionFee.String(),
		CommissionAmount:         raw.CommissionRateAmount.String(),
		LastFourDigits:           raw.LastFourDigits,
		MerchantCommissionRate:   raw.MerchantCommissionRate.String(),
		MerchantCommissionAmount: raw.MerchantCommissionRateAmount.String(),
		PaidPrice:                raw.PaidPrice.String(),
		Price:                    raw.Price.String(),
		PaymentID:                raw.PaymentID.String(),
	}

	metadata := &models.Metadata{
		SystemTime: raw.SystemTime,
		Succeeded:  raw.Status == statusSuccess,
		Phase:      raw.Phase,
		Locale:     raw.Locale,
		AuthCode:   raw.AuthCode,
	}

	return payment, metadata
}

// mapCurrency lowercases the gateway's currency code into its symbolic
// domain form ("TRY" -> try).
func mapCurrency(code string) models.Currency {
	return models.Currency(strings.ToLower(code))
}

// mapTransactions preserves the gateway's item order 1:1.
func mapTransactions(items []itemTransactionPayload) []models.Transaction {
	out := make([]models.Transaction, 0, len(items))
	for _, item := range items {
		out = append(out, models.Transaction{
			BlockageRate:              item.BlockageRate.String(),
			BlockageAmountMerchant:    item.BlockageRateAmountMerchant.String(),
			BlockageAmountSubMerchant: item.BlockageRateAmountSubMerchant.String(),
			BlockageResolvedDate:      item.BlockageResolvedDate,
			ConvertedPayout:           mapConvertedPayout(item.ConvertedPayout),
			ItemID:                    item.ItemID,
			CommissionFee:             item.CommissionFee.String(),
			CommissionAmount:          item.CommissionRateAmount.String(),
			MerchantCommissionRate:    item.MerchantCommissionRate.String(),
			MerchantCommissionAmount:  item.MerchantCommissionRateAmount.String(),
			MerchantPayoutAmount:      item.MerchantPayoutAmount.String(),
			PaidPrice:                 item.PaidPrice.String(),
			TransactionID:             item.PaymentTransactionID.String(),
			Price:                     item.Price.String(),
			SubMerchantPayoutAmount:   item.SubMerchantPayoutAmount.String(),
			SubMerchantPayoutRate:     item.SubMerchantPayoutRate.String(),
			SubMerchantPrice:          item.SubMerchantPrice.String(),
			Status:                    models.TransactionStatus(item.TransactionStatus),
		})
	}
	return out
}

func mapConvertedPayout(cp convertedPayoutPayload) models.ConvertedPayout {
	return models.ConvertedPayout{
		BlockageAmountMerchant:    cp.BlockageRateAmountMerchant.String(),
		BlockageAmountSubMerchant: cp.BlockageRateAmountSubMerchant.String(),
		Currency:                  mapCurrency(cp.Currency),
		CommissionFee:             cp.CommissionFee.String(),
		CommissionAmount:          cp.CommissionRateAmount.String(),
		ConversionRate:            cp.ConversionRate.String(),
		ConversionCost:            cp.ConversionCost.String(),
		MerchantPayoutAmount:      cp.MerchantPayoutAmount.String(),
		SubMerchantPayoutAmount:   cp.SubMerchantPayoutAmount.String(),
		PaidPrice:                 cp.PaidPrice.String(),
	}
}

// mapCardReference decodes the gateway's card enumerations and copies back
// the request-only fields (card alias, buyer email) the gateway does not
// echo, so a saved card can be reused idempotently.
func mapCardReference(raw *authPaymentResponse, original *models.PaymentRequest) models.CardReference {
	ref := models.CardReference{
		Association: cardAssociations[raw.CardAssociation],
		Family:      cardFamilies[raw.CardFamily],
		Type:        cardTypes[raw.CardType],
		UserKey:     raw.CardUserKey,
		Token:       raw.CardToken,
	}

	if original != nil {
		if original.Card != nil {
			ref.Alias = original.Card.Alias
			ref.Card = original.Card
		}
		if original.Buyer != nil {
			ref.Email = original.Buyer.Email
		}
	}

	return ref
}
