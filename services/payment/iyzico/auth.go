package iyzico

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"tezpay-payment-api/utils"
)

// newRandomKey builds the per-request nonce the gateway expects in the
// x-iyzi-rnd header and inside the signature.
func newRandomKey() string {
	return fmt.Sprintf("%d%s", time.Now().UnixMilli(), utils.GenerateRandomString(8))
}

// authorizationHeader produces the IYZWSv2 header value: the HMAC-SHA256 of
// randomKey + request path + request body, keyed with the API secret, folded
// into a base64 key/signature string.
func authorizationHeader(apiKey, apiSecret, randomKey, path string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(apiSecret))
	mac.Write([]byte(randomKey + path))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	payload := fmt.Sprintf("apiKey:%s&randomKey:%s&signature:%s", apiKey, randomKey, signature)
	return "IYZWSv2 " + base64.StdEncoding.EncodeToString([]byte(payload))
}
