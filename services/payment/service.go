package payment

import (
	"context"
	"log"

	"tezpay-payment-api/models"
	"tezpay-payment-api/services/payment/iyzico"
)

const ErrCodeInvalidCardData models.ErrorCode = "invalid_card_data"

type Service struct {
	client *iyzico.Client
}

func NewPaymentService(cfg iyzico.Config) *Service {
	return &Service{client: iyzico.NewClient(cfg)}
}

// ProcessPayment is the non-raising surface: it always returns a result, and
// any failure (card validation, transport, gateway decline) is a code on
// that result. Gateway codes are passed through unchanged.
func (s *Service) ProcessPayment(ctx context.Context, req *models.PaymentRequest, opts iyzico.Options) *models.PaymentResult {
	log.Printf("Starting payment authorization for conversation: %s", req.ConversationID)

	if !s.ValidateCard(req) {
		return &models.PaymentResult{Code: ErrCodeInvalidCardData}
	}

	result := s.client.Authorize(ctx, req, opts)
	if !result.OK() {
		log.Printf("Payment authorization unsuccessful for conversation %s: %s", req.ConversationID, result.Code)
		return result
	}

	log.Printf("Payment authorization successful for conversation %s with payment ID: %s",
		req.ConversationID, result.Payment.PaymentID)
	return result
}

// ProcessPaymentOrFail is the strict adapter over ProcessPayment: success
// unwraps to the (Payment, Metadata) pair, failure becomes a typed
// *models.ProcessingError carrying the same code. No logic of its own.
func (s *Service) ProcessPaymentOrFail(ctx context.Context, req *models.PaymentRequest, opts iyzico.Options) (*models.Payment, *models.Metadata, error) {
	result := s.ProcessPayment(ctx, req, opts)
	if err := result.Err(); err != nil {
		return nil, nil, err
	}
	return result.Payment, result.Metadata, nil
}

// Complete3DS finishes a pending 3-D Secure payment after the gateway
// callback arrived.
func (s *Service) Complete3DS(ctx context.Context, conversationID, paymentID string) (*models.Payment, *models.Metadata, error) {
	log.Printf("Completing 3DS payment %s for conversation: %s", paymentID, conversationID)

	result := s.client.CompleteThreeDS(ctx, conversationID, paymentID)
	if err := result.Err(); err != nil {
		log.Printf("3DS completion failed for conversation %s: %v", conversationID, err)
		return nil, nil, err
	}
	return result.Payment, result.Metadata, nil
}

// ValidateCard rejects obviously broken raw card data before any gateway
// call. Saved-card references (token + user key) skip the raw checks.
func (s *Service) ValidateCard(req *models.PaymentRequest) bool {
	card := req.Card
	if card == nil {
		return false
	}

	if card.Token != "" && card.UserKey != "" {
		return true
	}

	if len(card.Number) < 13 || len(card.Number) > 19 {
		log.Printf("Invalid card number length: %d", len(card.Number))
		return false
	}

	if len(card.CVC) < 3 || len(card.CVC) > 4 {
		log.Printf("Invalid CVC length: %d", len(card.CVC))
		return false
	}

	if len(card.HolderName) < 3 {
		log.Printf("Invalid card holder name length: %d", len(card.HolderName))
		return false
	}

	if !validateLuhn(card.Number) {
		log.Printf("Failed Luhn check for card number")
		return false
	}

	return true
}

func validateLuhn(cardNumber string) bool {
	sum := 0
	isEven := len(cardNumber)%2 == 0

	for i, r := range cardNumber {
		digit := int(r - '0')

		if digit < 0 || digit > 9 {
			return false
		}

		if isEven == (i%2 == 0) {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
	}

	return sum%10 == 0
}
