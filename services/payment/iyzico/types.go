package iyzico

import (
	"encoding/json"
	"fmt"

	"tezpay-payment-api/models"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

// Request payload types. Field names follow the gateway's JSON schema
// exactly; reshaping from the domain request happens in request.go.

type paymentCardPayload struct {
	CardHolderName string `json:"cardHolderName,omitempty"`
	CardNumber     string `json:"cardNumber,omitempty"`
	ExpireMonth    string `json:"expireMonth,omitempty"`
	ExpireYear     string `json:"expireYear,omitempty"`
	CVC            string `json:"cvc,omitempty"`
	RegisterCard   int    `json:"registerCard,omitempty"`
	CardAlias      string `json:"cardAlias,omitempty"`
	CardToken      string `json:"cardToken,omitempty"`
	CardUserKey    string `json:"cardUserKey,omitempty"`
}

type buyerPayload struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Surname             string `json:"surname"`
	IdentityNumber      string `json:"identityNumber"`
	Email               string `json:"email"`
	GSMNumber           string `json:"gsmNumber,omitempty"`
	RegistrationAddress string `json:"registrationAddress"`
	City                string `json:"city"`
	Country             string `json:"country"`
	IP                  string `json:"ip,omitempty"`
	ZipCode             string `json:"zipCode,omitempty"`
	RegistrationDate    string `json:"registrationDate,omitempty"`
	LastLoginDate       string `json:"lastLoginDate,omitempty"`
}

type addressPayload struct {
	Address     string `json:"address"`
	ZipCode     string `json:"zipCode,omitempty"`
	ContactName string `json:"contactName"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

type basketItemPayload struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Category1        string `json:"category1"`
	Category2        string `json:"category2,omitempty"`
	ItemType         string `json:"itemType"`
	Price            string `json:"price"`
	SubMerchantKey   string `json:"subMerchantKey,omitempty"`
	SubMerchantPrice string `json:"subMerchantPrice,omitempty"`
}

type paymentPayload struct {
	Locale          string              `json:"locale"`
	ConversationID  string              `json:"conversationId"`
	Price           string              `json:"price"`
	PaidPrice       string              `json:"paidPrice"`
	Currency        string              `json:"currency"`
	Installment     int                 `json:"installment"`
	BasketID        string              `json:"basketId"`
	PaymentChannel  string              `json:"paymentChannel"`
	PaymentGroup    string              `json:"paymentGroup"`
	PaymentCard     *paymentCardPayload `json:"paymentCard"`
	Buyer           *buyerPayload       `json:"buyer"`
	ShippingAddress *addressPayload     `json:"shippingAddress"`
	BillingAddress  *addressPayload     `json:"billingAddress"`
	BasketItems     []basketItemPayload `json:"basketItems"`
	CallbackURL     string              `json:"callbackUrl,omitempty"`
}

type threeDSAuthPayload struct {
	Locale           string `json:"locale,omitempty"`
	ConversationID   string `json:"conversationId"`
	PaymentID        string `json:"paymentId"`
	ConversationData string `json:"conversationData,omitempty"`
}

// Response payload types. Amount fields are json.Number so the gateway's
// decimal strings survive untouched; absent fields decode to zero values
// and are passed through as-is.

type convertedPayoutPayload struct {
	PaidPrice                     json.Number `json:"paidPrice"`
	CommissionRateAmount          json.Number `json:"iyziCommissionRateAmount"`
	CommissionFee                 json.Number `json:"iyziCommissionFee"`
	BlockageRateAmountMerchant    json.Number `json:"blockageRateAmountMerchant"`
	BlockageRateAmountSubMerchant json.Number `json:"blockageRateAmountSubMerchant"`
	SubMerchantPayoutAmount       json.Number `json:"subMerchantPayoutAmount"`
	MerchantPayoutAmount          json.Number `json:"merchantPayoutAmount"`
	ConversionRate                json.Number `json:"iyziConversionRate"`
	ConversionCost                json.Number `json:"iyziConversionRateAmount"`
	Currency                      string      `json:"currency"`
}

type itemTransactionPayload struct {
	ItemID                        string                 `json:"itemId"`
	PaymentTransactionID          json.Number            `json:"paymentTransactionId"`
	TransactionStatus             int                    `json:"transactionStatus"`
	Price                         json.Number            `json:"price"`
	PaidPrice                     json.Number            `json:"paidPrice"`
	MerchantCommissionRate        json.Number            `json:"merchantCommissionRate"`
	MerchantCommissionRateAmount  json.Number            `json:"merchantCommissionRateAmount"`
	CommissionRateAmount          json.Number            `json:"iyziCommissionRateAmount"`
	CommissionFee                 json.Number            `json:"iyziCommissionFee"`
	BlockageRate                  json.Number            `json:"blockageRate"`
	BlockageRateAmountMerchant    json.Number            `json:"blockageRateAmountMerchant"`
	BlockageRateAmountSubMerchant json.Number            `json:"blockageRateAmountSubMerchant"`
	BlockageResolvedDate          string                 `json:"blockageResolvedDate"`
	SubMerchantKey                string                 `json:"subMerchantKey"`
	SubMerchantPrice              json.Number            `json:"subMerchantPrice"`
	SubMerchantPayoutRate         json.Number            `json:"subMerchantPayoutRate"`
	SubMerchantPayoutAmount       json.Number            `json:"subMerchantPayoutAmount"`
	MerchantPayoutAmount          json.Number            `json:"merchantPayoutAmount"`
	ConvertedPayout               convertedPayoutPayload `json:"convertedPayout"`
}

type authPaymentResponse struct {
	Status                       string                   `json:"status"`
	Locale                       string                   `json:"locale"`
	SystemTime                   int64                    `json:"systemTime"`
	ConversationID               string                   `json:"conversationId"`
	ErrorCode                    string                   `json:"errorCode"`
	ErrorMessage                 string                   `json:"errorMessage"`
	ErrorGroup                   string                   `json:"errorGroup"`
	Price                        json.Number              `json:"price"`
	PaidPrice                    json.Number              `json:"paidPrice"`
	Installment                  int                      `json:"installment"`
	PaymentID                    json.Number              `json:"paymentId"`
	FraudStatus                  int                      `json:"fraudStatus"`
	MerchantCommissionRate       json.Number              `json:"merchantCommissionRate"`
	MerchantCommissionRateAmount json.Number              `json:"merchantCommissionRateAmount"`
	CommissionRateAmount         json.Number              `json:"iyziCommissionRateAmount"`
	CommissionFee                json.Number              `json:"iyziCommissionFee"`
	CardType                     string                   `json:"cardType"`
	CardAssociation              string                   `json:"cardAssociation"`
	CardFamily                   string                   `json:"cardFamily"`
	CardToken                    string                   `json:"cardToken"`
	CardUserKey                  string                   `json:"cardUserKey"`
	BinNumber                    string                   `json:"binNumber"`
	LastFourDigits               string                   `json:"lastFourDigits"`
	BasketID                     string                   `json:"basketId"`
	Currency                     string                   `json:"currency"`
	ItemTransactions             []itemTransactionPayload `json:"itemTransactions"`
	AuthCode                     string                   `json:"authCode"`
	Phase                        string                   `json:"phase"`
	ThreeDSHTMLContent           string                   `json:"threeDSHtmlContent"`
}

// APIError is a gateway decline or a transport failure. The code is surfaced
// unchanged; declines carry the gateway's errorCode, transport failures use
// the fixed connection/malformed codes.
type APIError struct {
	Code    models.ErrorCode
	Message string
	Group   string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway error %s: %s", e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("gateway error %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("gateway error %s", e.Code)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
