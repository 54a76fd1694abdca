package models

// AuthMerchant is the authenticated caller attached to the request context.
type AuthMerchant struct {
	MerchantID string `json:"merchant_id"`
	Name       string `json:"name"`
	IsActive   bool   `json:"is_active"`
}

type AuthRequest struct {
	APILogin   string `json:"api_login"`
	Passphrase string `json:"passphrase"`
}

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}
