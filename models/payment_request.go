package models

// PaymentCard is the raw card data entered by the buyer, or a saved-card
// reference (token + user key) from a previous payment.
type PaymentCard struct {
	HolderName   string `json:"holder_name,omitempty"`
	Number       string `json:"number,omitempty"`
	ExpireMonth  string `json:"expire_month,omitempty"`
	ExpireYear   string `json:"expire_year,omitempty"`
	CVC          string `json:"cvc,omitempty"`
	RegisterCard bool   `json:"register_card,omitempty"`
	Alias        string `json:"alias,omitempty"`
	Token        string `json:"token,omitempty"`
	UserKey      string `json:"user_key,omitempty"`
}

type Buyer struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Surname             string `json:"surname"`
	IdentityNumber      string `json:"identity_number"`
	Email               string `json:"email"`
	GSMNumber           string `json:"gsm_number,omitempty"`
	RegistrationAddress string `json:"registration_address"`
	City                string `json:"city"`
	Country             string `json:"country"`
	IP                  string `json:"ip,omitempty"`
	ZipCode             string `json:"zip_code,omitempty"`
	RegistrationDate    string `json:"registration_date,omitempty"`
	LastLoginDate       string `json:"last_login_date,omitempty"`
}

type Address struct {
	Address     string `json:"address"`
	ZipCode     string `json:"zip_code,omitempty"`
	ContactName string `json:"contact_name"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

type BasketItemType string

const (
	BasketItemPhysical BasketItemType = "PHYSICAL"
	BasketItemVirtual  BasketItemType = "VIRTUAL"
)

type BasketItem struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Category         string         `json:"category"`
	SubCategory      string         `json:"sub_category,omitempty"`
	Type             BasketItemType `json:"type"`
	Price            string         `json:"price"`
	SubMerchantKey   string         `json:"sub_merchant_key,omitempty"`
	SubMerchantPrice string         `json:"sub_merchant_price,omitempty"`
}

// PaymentRequest is the immutable input of one authorize-payment call.
// Prices are decimal strings in the gateway's format ("0.5", "10.99").
type PaymentRequest struct {
	Locale            string       `json:"locale"`
	ConversationID    string       `json:"conversation_id"`
	Price             string       `json:"price"`
	PaidPrice         string       `json:"paid_price"`
	Currency          Currency     `json:"currency"`
	BasketID          string       `json:"basket_id"`
	PaymentChannel    string       `json:"payment_channel"`
	PaymentGroup      string       `json:"payment_group"`
	Card              *PaymentCard `json:"card"`
	Installment       int          `json:"installment"`
	Buyer             *Buyer       `json:"buyer"`
	ShippingAddress   *Address     `json:"shipping_address"`
	BillingAddress    *Address     `json:"billing_address"`
	BasketItems       []BasketItem `json:"basket_items"`
	SecureCallbackURL string       `json:"secure_callback_url,omitempty"`
}
