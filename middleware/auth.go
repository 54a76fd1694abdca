package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"tezpay-payment-api/models"
	"tezpay-payment-api/services/auth"
	"tezpay-payment-api/utils"
)

type contextKey string

const MerchantContextKey contextKey = "merchant"

// AuthMiddleware requires a valid Bearer access token and puts the merchant
// into the request context.
func AuthMiddleware(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Printf("Missing Authorization header from %s", r.RemoteAddr)
				utils.SendErrorResponse(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Printf("Invalid Authorization header format from %s", r.RemoteAddr)
				utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			merchant, err := jwtService.ValidateToken(parts[1])
			if err != nil {
				log.Printf("Token validation failed from %s: %v", r.RemoteAddr, err)

				var message string
				switch err {
				case auth.ErrTokenExpired:
					message = "Token expired"
				case auth.ErrInvalidToken:
					message = "Invalid token"
				default:
					message = "Authentication failed"
				}

				utils.SendErrorResponse(w, http.StatusUnauthorized, message)
				return
			}

			ctx := context.WithValue(r.Context(), MerchantContextKey, merchant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetMerchantFromContext returns the authenticated merchant, or nil.
func GetMerchantFromContext(ctx context.Context) *models.AuthMerchant {
	merchant, ok := ctx.Value(MerchantContextKey).(*models.AuthMerchant)
	if !ok {
		return nil
	}
	return merchant
}

// AuthLoggingMiddleware logs authenticated traffic with the merchant name.
func AuthLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)
		merchant := GetMerchantFromContext(r.Context())

		var name string
		if merchant != nil {
			name = merchant.Name
		} else {
			name = "anonymous"
		}

		log.Printf("AUTH %s %s %s %d %v", r.Method, r.RequestURI, name, wrapper.status, duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
