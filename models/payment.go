package models

// Currency is the lowercase symbolic form of the gateway's currency code
// ("TRY" on the wire becomes CurrencyTRY here).
type Currency string

const (
	CurrencyTRY Currency = "try"
	CurrencyUSD Currency = "usd"
	CurrencyEUR Currency = "eur"
	CurrencyGBP Currency = "gbp"
	CurrencyRUB Currency = "rub"
	CurrencyCHF Currency = "chf"
	CurrencyNOK Currency = "nok"
)

type CardAssociation string

const (
	CardAssociationUnknown    CardAssociation = ""
	CardAssociationVisa       CardAssociation = "visa"
	CardAssociationMasterCard CardAssociation = "master_card"
	CardAssociationAmex       CardAssociation = "american_express"
	CardAssociationTroy       CardAssociation = "troy"
)

type CardFamily string

const (
	CardFamilyUnknown    CardFamily = ""
	CardFamilyBonus      CardFamily = "bonus"
	CardFamilyAxess      CardFamily = "axess"
	CardFamilyWorld      CardFamily = "world"
	CardFamilyMaximum    CardFamily = "maximum"
	CardFamilyParaf      CardFamily = "paraf"
	CardFamilyCardFinans CardFamily = "cardfinans"
	CardFamilyAdvantage  CardFamily = "advantage"
)

type CardType string

const (
	CardTypeUnknown CardType = ""
	CardTypeCredit  CardType = "credit"
	CardTypeDebit   CardType = "debit"
	CardTypePrepaid CardType = "prepaid"
)

// TransactionStatus mirrors the gateway's numeric transaction state.
type TransactionStatus int

const (
	TransactionFailure  TransactionStatus = -1
	TransactionAwaiting TransactionStatus = 0
	TransactionSuccess  TransactionStatus = 1
)

func (ts TransactionStatus) String() string {
	switch ts {
	case TransactionFailure:
		return "failure"
	case TransactionAwaiting:
		return "awaiting"
	case TransactionSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// ConvertedPayout carries the per-transaction amounts after the gateway
// converted them into the merchant's settlement currency.
type ConvertedPayout struct {
	BlockageAmountMerchant    string   `json:"blockage_amount_merchant"`
	BlockageAmountSubMerchant string   `json:"blockage_amount_sub_merchant"`
	Currency                  Currency `json:"currency"`
	CommissionFee             string   `json:"commission_fee"`
	CommissionAmount          string   `json:"commission_amount"`
	ConversionRate            string   `json:"conversion_rate"`
	ConversionCost            string   `json:"conversion_cost"`
	MerchantPayoutAmount      string   `json:"merchant_payout_amount"`
	SubMerchantPayoutAmount   string   `json:"sub_merchant_payout_amount"`
	PaidPrice                 string   `json:"paid_price"`
}

// Transaction is one basket item's share of an authorized payment.
type Transaction struct {
	BlockageRate              string            `json:"blockage_rate"`
	BlockageAmountMerchant    string            `json:"blockage_amount_merchant"`
	BlockageAmountSubMerchant string            `json:"blockage_amount_sub_merchant"`
	BlockageResolvedDate      string            `json:"blockage_resolved_date"`
	ConvertedPayout           ConvertedPayout   `json:"converted_payout"`
	ItemID                    string            `json:"item_id"`
	CommissionFee             string            `json:"commission_fee"`
	CommissionAmount          string            `json:"commission_amount"`
	MerchantCommissionRate    string            `json:"merchant_commission_rate"`
	MerchantCommissionAmount  string            `json:"merchant_commission_amount"`
	MerchantPayoutAmount      string            `json:"merchant_payout_amount"`
	PaidPrice                 string            `json:"paid_price"`
	TransactionID             string            `json:"transaction_id"`
	Price                     string            `json:"price"`
	SubMerchantPayoutAmount   string            `json:"sub_merchant_payout_amount"`
	SubMerchantPayoutRate     string            `json:"sub_merchant_payout_rate"`
	SubMerchantPrice          string            `json:"sub_merchant_price"`
	Status                    TransactionStatus `json:"status"`
}

// CardReference is the reusable handle the gateway returns for a card,
// together with the request-only fields the gateway does not echo back.
type CardReference struct {
	Association CardAssociation `json:"association"`
	Family      CardFamily      `json:"family"`
	Type        CardType        `json:"type"`
	Alias       string          `json:"alias,omitempty"`
	UserKey     string          `json:"user_key,omitempty"`
	Token       string          `json:"token,omitempty"`
	Card        *PaymentCard    `json:"-"`
	Email       string          `json:"email,omitempty"`
}

// Payment is the financial record of one successful authorization. Amounts
// stay in the gateway's decimal-string form; no float math is done on money.
type Payment struct {
	BasketID                 string        `json:"basket_id"`
	BinNumber                string        `json:"bin_number"`
	CardReference            CardReference `json:"card_reference"`
	ConversationID           string        `json:"conversation_id"`
	Currency                 Currency      `json:"currency"`
	FraudStatus              int           `json:"fraud_status"`
	Installment              int           `json:"installment"`
	Transactions             []Transaction `json:"transactions"`
	CommissionFee            string        `json:"commission_fee"`
	CommissionAmount         string        `json:"commission_amount"`
	LastFourDigits           string        `json:"last_four_digits"`
	MerchantCommissionRate   string        `json:"merchant_commission_rate"`
	MerchantCommissionAmount string        `json:"merchant_commission_amount"`
	PaidPrice                string        `json:"paid_price"`
	Price                    string        `json:"price"`
	PaymentID                string        `json:"payment_id"`
}

// Metadata is transport/audit data for one gateway call. A Payment is only
// ever produced together with its Metadata.
type Metadata struct {
	SystemTime int64  `json:"system_time"`
	Succeeded  bool   `json:"succeeded"`
	Phase      string `json:"phase"`
	Locale     string `json:"locale"`
	AuthCode   string `json:"auth_code,omitempty"`
}
