package iyzico

import (
	"strings"

	"tezpay-payment-api/models"
)

// Options override the client's configured credentials and 3DS callback for
// a single call. Empty fields fall back to the client config.
type Options struct {
	APIKey            string
	APISecret         string
	SecureCallbackURL string
}

// BuildRequest reshapes a domain payment request into the gateway payload
// and picks the endpoint path. With no callback URL the payment goes to the
// direct authorization endpoint; a callback URL switches the flow to 3-D
// Secure initialization and is merged into the payload. Pure function, no
// network access.
func BuildRequest(req *models.PaymentRequest, opts Options) (string, *paymentPayload) {
	payload := &paymentPayload{
		Locale:          req.Locale,
		ConversationID:  req.ConversationID,
		Price:           req.Price,
		PaidPrice:       req.PaidPrice,
		Currency:        strings.ToUpper(string(req.Currency)),
		Installment:     req.Installment,
		BasketID:        req.BasketID,
		PaymentChannel:  req.PaymentChannel,
		PaymentGroup:    req.PaymentGroup,
		PaymentCard:     buildCard(req.Card),
		Buyer:           buildBuyer(req.Buyer),
		ShippingAddress: buildAddress(req.ShippingAddress),
		BillingAddress:  buildAddress(req.BillingAddress),
		BasketItems:     buildBasketItems(req.BasketItems),
	}

	callback := opts.SecureCallbackURL
	if callback == "" {
		callback = req.SecureCallbackURL
	}
	if callback == "" {
		return pathAuth, payload
	}

	payload.CallbackURL = callback
	return pathThreeDSInit, payload
}

func buildCard(card *models.PaymentCard) *paymentCardPayload {
	if card == nil {
		return nil
	}
	p := &paymentCardPayload{
		CardHolderName: card.HolderName,
		CardNumber:     card.Number,
		ExpireMonth:    card.ExpireMonth,
		ExpireYear:     card.ExpireYear,
		CVC:            card.CVC,
		CardAlias:      card.Alias,
		CardToken:      card.Token,
		CardUserKey:    card.UserKey,
	}
	if card.RegisterCard {
		p.RegisterCard = 1
	}
	return p
}

func buildBuyer(buyer *models.Buyer) *buyerPayload {
	if buyer == nil {
		return nil
	}
	return &buyerPayload{
		ID:                  buyer.ID,
		Name:                buyer.Name,
		Surname:             buyer.Surname,
		IdentityNumber:      buyer.IdentityNumber,
		Email:               buyer.Email,
		GSMNumber:           buyer.GSMNumber,
		RegistrationAddress: buyer.RegistrationAddress,
		City:                buyer.City,
		Country:             buyer.Country,
		IP:                  buyer.IP,
		ZipCode:             buyer.ZipCode,
		RegistrationDate:    buyer.RegistrationDate,
		LastLoginDate:       buyer.LastLoginDate,
	}
}

func buildAddress(addr *models.Address) *addressPayload {
	if addr == nil {
		return nil
	}
	return &addressPayload{
		Address:     addr.Address,
		ZipCode:     addr.ZipCode,
		ContactName: addr.ContactName,
		City:        addr.City,
		Country:     addr.Country,
	}
}

func buildBasketItems(items []models.BasketItem) []basketItemPayload {
	out := make([]basketItemPayload, 0, len(items))
	for _, item := range items {
		out = append(out, basketItemPayload{
			ID:               item.ID,
			Name:             item.Name,
			Category1:        item.Category,
			Category2:        item.SubCategory,
			ItemType:         string(item.Type),
			Price:            item.Price,
			SubMerchantKey:   item.SubMerchantKey,
			SubMerchantPrice: item.SubMerchantPrice,
		})
	}
	return out
}
