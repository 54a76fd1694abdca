package iyzico

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"tezpay-payment-api/models"
	"tezpay-payment-api/types"
)

const (
	SandboxBaseURL    = "https://sandbox-api.iyzipay.com"
	ProductionBaseURL = "https://api.iyzipay.com"
	RequestTimeout    = 30 * time.Second

	pathAuth        = "/payment/auth"
	pathThreeDSInit = "/payment/3dsecure/initialize"
	pathThreeDSAuth = "/payment/3dsecure/auth"
)

// Config carries the process-wide gateway credentials. Per-call Options can
// override the key pair.
type Config struct {
	APIKey      string
	APISecret   string
	Environment string
	// BaseURL overrides the environment-derived endpoint, used by tests.
	BaseURL string
}

type Client struct {
	cfg       Config
	baseURL   string
	client    *http.Client
	transport *http.Transport
}

func NewClient(cfg Config) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Environment == "production" {
			baseURL = ProductionBaseURL
		} else {
			baseURL = SandboxBaseURL
		}
	}

	return &Client{
		cfg:       cfg,
		baseURL:   baseURL,
		transport: transport,
		client: &http.Client{
			Timeout:   RequestTimeout,
			Transport: transport,
		},
	}
}

func (c *Client) resolveOptions(opts Options) Options {
	if opts.APIKey == "" {
		opts.APIKey = c.cfg.APIKey
	}
	if opts.APISecret == "" {
		opts.APISecret = c.cfg.APISecret
	}
	return opts
}

// Authorize runs one payment call end to end: build, sign, send, map. It
// never returns a Go error; transport and gateway failures land in the
// result's error code untouched. With a callback URL in play the result
// additionally carries the 3DS redirect content the buyer's browser needs.
func (c *Client) Authorize(ctx context.Context, req *models.PaymentRequest, opts Options) *models.PaymentResult {
	opts = c.resolveOptions(opts)
	path, payload := BuildRequest(req, opts)

	raw, apiErr := c.send(ctx, path, payload, opts)
	if apiErr != nil {
		return &models.PaymentResult{Code: apiErr.Code}
	}

	payment, metadata := mapAuthResponse(raw, req)
	result := &models.PaymentResult{Payment: payment, Metadata: metadata}

	if path == pathThreeDSInit && raw.ThreeDSHTMLContent != "" {
		result.ThreeDS = &types.ThreeDSInitResult{
			ConversationID: raw.ConversationID,
			HTMLContent:    raw.ThreeDSHTMLContent,
		}
	}
	return result
}

// CompleteThreeDS finishes a 3-D Secure payment after the buyer returned
// from the authentication step. The original request is no longer available
// at this point, so the card back-references stay empty.
func (c *Client) CompleteThreeDS(ctx context.Context, conversationID, paymentID string) *models.PaymentResult {
	opts := c.resolveOptions(Options{})
	payload := &threeDSAuthPayload{
		ConversationID: conversationID,
		PaymentID:      paymentID,
	}

	raw, apiErr := c.send(ctx, pathThreeDSAuth, payload, opts)
	if apiErr != nil {
		return &models.PaymentResult{Code: apiErr.Code}
	}

	payment, metadata := mapAuthResponse(raw, nil)
	return &models.PaymentResult{Payment: payment, Metadata: metadata}
}

// send POSTs one signed JSON request and decodes the response. A gateway
// status of "failure" becomes an *APIError carrying the gateway's errorCode;
// network and decode problems map to the fixed transport codes.
func (c *Client) send(ctx context.Context, path string, payload interface{}, opts Options) (*authPaymentResponse, *APIError) {
	startTime := time.Now()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &APIError{Code: models.ErrCodeMalformedResponse, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &APIError{Code: models.ErrCodeConnection, Err: err}
	}

	randomKey := newRandomKey()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", authorizationHeader(opts.APIKey, opts.APISecret, randomKey, path, body))
	httpReq.Header.Set("x-iyzi-rnd", randomKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &APIError{Code: models.ErrCodeConnection, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Code: models.ErrCodeConnection, Err: err}
	}

	log.Printf("Gateway response received in %v for %s", time.Since(startTime), path)

	cleanBody := strings.TrimPrefix(string(respBody), "\ufeff")

	var raw authPaymentResponse
	if err := json.Unmarshal([]byte(cleanBody), &raw); err != nil {
		return nil, &APIError{Code: models.ErrCodeMalformedResponse, Err: err}
	}

	if raw.Status == statusFailure {
		return nil, &APIError{
			Code:    models.ErrorCode(raw.ErrorCode),
			Message: raw.ErrorMessage,
			Group:   raw.ErrorGroup,
		}
	}

	return &raw, nil
}
