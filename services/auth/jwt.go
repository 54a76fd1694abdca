package auth

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tezpay-payment-api/database"
	"tezpay-payment-api/models"
)

const (
	AccessTokenDuration  = 15 * time.Minute
	RefreshTokenDuration = 7 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid api login or passphrase")
	ErrMerchantInactive   = errors.New("merchant account inactive")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")
)

type JWTService struct {
	secretKey []byte
	issuer    string
	db        *database.Connection
}

type Claims struct {
	MerchantID string `json:"merchant_id"`
	Name       string `json:"name"`
	TokenType  string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

func NewJWTService(secretKey, issuer string, db *database.Connection) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		db:        db,
	}
}

// Authenticate checks merchant API credentials against the merchants table
// and returns a fresh access/refresh token pair.
func (j *JWTService) Authenticate(apiLogin, passphrase string) (*models.AuthResponse, error) {
	hasher := sha256.New()
	hasher.Write([]byte(passphrase))
	hashedPassphrase := hex.EncodeToString(hasher.Sum(nil))

	var merchantID, name string
	var isActive int

	query := `
        SELECT id, name, is_active
        FROM merchants
        WHERE api_login = ? AND passphrase = ?
    `

	err := j.db.GetDB().QueryRow(query, apiLogin, hashedPassphrase).Scan(&merchantID, &name, &isActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("merchant lookup failed: %v", err)
	}

	if isActive == 0 {
		return nil, ErrMerchantInactive
	}

	merchant := &models.AuthMerchant{MerchantID: merchantID, Name: name, IsActive: true}

	accessToken, err := j.generateToken(merchant, "access", AccessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %v", err)
	}

	refreshToken, err := j.generateToken(merchant, "refresh", RefreshTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %v", err)
	}

	return &models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(AccessTokenDuration.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

func (j *JWTService) generateToken(merchant *models.AuthMerchant, tokenType string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		MerchantID: merchant.MerchantID,
		Name:       merchant.Name,
		TokenType:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   merchant.MerchantID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// ValidateToken parses an access token and returns the merchant it belongs
// to. Refresh tokens are rejected here; they are only good for Refresh.
func (j *JWTService) ValidateToken(tokenString string) (*models.AuthMerchant, error) {
	claims, err := j.parseClaims(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != "access" {
		return nil, ErrInvalidToken
	}

	return &models.AuthMerchant{
		MerchantID: claims.MerchantID,
		Name:       claims.Name,
		IsActive:   true,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (j *JWTService) Refresh(refreshToken string) (*models.AuthResponse, error) {
	claims, err := j.parseClaims(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != "refresh" {
		return nil, ErrInvalidToken
	}

	merchant := &models.AuthMerchant{MerchantID: claims.MerchantID, Name: claims.Name, IsActive: true}

	accessToken, err := j.generateToken(merchant, "access", AccessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %v", err)
	}

	newRefreshToken, err := j.generateToken(merchant, "refresh", RefreshTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %v", err)
	}

	return &models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(AccessTokenDuration.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

func (j *JWTService) parseClaims(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
