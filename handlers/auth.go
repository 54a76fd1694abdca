package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"tezpay-payment-api/models"
	"tezpay-payment-api/services/auth"
	"tezpay-payment-api/utils"
)

type AuthHandler struct {
	jwtService *auth.JWTService
}

func NewAuthHandler(jwtService *auth.JWTService) (*AuthHandler, error) {
	if jwtService == nil {
		return nil, fmt.Errorf("jwt service is required")
	}
	return &AuthHandler{jwtService: jwtService}, nil
}

// IssueToken exchanges merchant API credentials for a token pair.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req models.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.APILogin == "" || req.Passphrase == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "api_login and passphrase are required")
		return
	}

	tokens, err := h.jwtService.Authenticate(req.APILogin, req.Passphrase)
	if err != nil {
		switch err {
		case auth.ErrInvalidCredentials:
			log.Printf("Failed authentication attempt for api_login: %s", req.APILogin)
			utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		case auth.ErrMerchantInactive:
			utils.SendErrorResponse(w, http.StatusForbidden, "Merchant account is inactive")
		default:
			log.Printf("Authentication error: %v", err)
			utils.SendErrorResponse(w, http.StatusInternalServerError, "Authentication failed")
		}
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Authenticated",
		Data:    tokens,
	})
}

// RefreshToken exchanges a refresh token for a new pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.RefreshToken == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	tokens, err := h.jwtService.Refresh(req.RefreshToken)
	if err != nil {
		switch err {
		case auth.ErrTokenExpired:
			utils.SendErrorResponse(w, http.StatusUnauthorized, "Refresh token expired")
		case auth.ErrInvalidToken:
			utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid refresh token")
		default:
			log.Printf("Token refresh error: %v", err)
			utils.SendErrorResponse(w, http.StatusInternalServerError, "Token refresh failed")
		}
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Token refreshed",
		Data:    tokens,
	})
}
