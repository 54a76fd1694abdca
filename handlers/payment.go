package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"tezpay-payment-api/config"
	"tezpay-payment-api/database"
	"tezpay-payment-api/models"
	"tezpay-payment-api/queue"
	"tezpay-payment-api/services/payment"
	"tezpay-payment-api/services/payment/iyzico"
	"tezpay-payment-api/utils"
)

const threeDSSessionName = "threeds-session"

type PaymentHandler struct {
	db             *database.Connection
	paymentService *payment.Service
	queue          *queue.Queue
	store          *sessions.CookieStore
	// callbackURL is this service's own 3DS return endpoint. Completion jobs
	// are only triggered from there, so 3DS payments are routed through it
	// regardless of the callback the merchant supplied.
	callbackURL string
}

func NewPaymentHandler(db *database.Connection, ps *payment.Service, q *queue.Queue, cfg *config.Config) (*PaymentHandler, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if ps == nil {
		return nil, fmt.Errorf("payment service is required")
	}
	if q == nil {
		return nil, fmt.Errorf("queue is required")
	}

	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   cfg.Session.Domain,
		MaxAge:   cfg.Session.MaxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	var callbackURL string
	if cfg.Server.CallbackBaseURL != "" {
		callbackURL = strings.TrimSuffix(cfg.Server.CallbackBaseURL, "/") + "/api/threeds/callback"
	}

	return &PaymentHandler{
		db:             db,
		paymentService: ps,
		queue:          q,
		store:          store,
		callbackURL:    callbackURL,
	}, nil
}

// ProcessPayment runs one authorize-payment call. Without a callback URL the
// outcome is final and returned inline; with one, the response carries the
// 3DS content the buyer's browser must render and the payment stays pending
// until the gateway callback.
func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	log.Printf("[RequestID: %s] Starting payment processing", requestID)

	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[RequestID: %s] Invalid request body: %v", requestID, err)
		utils.SendErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if req.ConversationID == "" {
		req.ConversationID = uuid.New().String()
	}

	if len(req.BasketItems) == 0 {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Basket must contain at least one item")
		return
	}

	if err := utils.ValidatePrice(req.Price); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid price: %v", err))
		return
	}
	if err := utils.ValidatePrice(req.PaidPrice); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid paid price: %v", err))
		return
	}
	req.Price = utils.NormalizePrice(req.Price)
	req.PaidPrice = utils.NormalizePrice(req.PaidPrice)

	log.Printf("[RequestID: %s] Processing payment for conversation: %s", requestID, req.ConversationID)

	acquired, err := h.db.LockConversation(req.ConversationID)
	if err != nil {
		log.Printf("[RequestID: %s] Error acquiring lock: %v", requestID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !acquired {
		log.Printf("[RequestID: %s] Conversation is already being processed: %s", requestID, req.ConversationID)
		utils.SendErrorResponse(w, http.StatusConflict, "This payment is already being processed")
		return
	}
	defer h.db.ReleaseLock(req.ConversationID)

	// Per-call credential overrides, the gateway defaults apply otherwise.
	opts := iyzico.Options{
		APIKey:    r.Header.Get("X-Gateway-Key"),
		APISecret: r.Header.Get("X-Gateway-Secret"),
	}
	if req.SecureCallbackURL != "" && h.callbackURL != "" {
		opts.SecureCallbackURL = h.callbackURL
	}

	result := h.paymentService.ProcessPayment(r.Context(), &req, opts)

	if result.ThreeDS != nil {
		h.handleThreeDSInit(w, r, requestID, &req, result)
		return
	}

	h.persistOutcome(requestID, req.ConversationID, result)

	if !result.OK() {
		log.Printf("[RequestID: %s] Payment failed with code: %s", requestID, result.Code)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(models.APIResponse{
			Status:  "error",
			Message: "Payment was not authorized",
			Data: map[string]interface{}{
				"request_id": requestID,
				"error_code": result.Code,
			},
		})
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Payment authorized",
		Data: map[string]interface{}{
			"request_id": requestID,
			"payment":    result.Payment,
			"metadata":   result.Metadata,
		},
	})
}

// handleThreeDSInit binds the pending conversation to the buyer's browser
// session and hands back the gateway's authentication content.
func (h *PaymentHandler) handleThreeDSInit(w http.ResponseWriter, r *http.Request, requestID string, req *models.PaymentRequest, result *models.PaymentResult) {
	if err := h.db.MarkPaymentPending(requestID, req.ConversationID); err != nil {
		log.Printf("[RequestID: %s] Warning: failed to record pending payment: %v", requestID, err)
	}

	if err := h.db.SavePendingThreeDS(req.ConversationID, requestID, req.BasketID); err != nil {
		log.Printf("[RequestID: %s] Failed to store pending 3DS session: %v", requestID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to initialize 3D Secure flow")
		return
	}

	session, err := h.store.Get(r, threeDSSessionName)
	if err != nil {
		log.Printf("[RequestID: %s] Error getting session: %v", requestID, err)
	}
	session.Values["conversation_id"] = req.ConversationID
	if err := session.Save(r, w); err != nil {
		log.Printf("[RequestID: %s] Warning: failed to save 3DS session cookie: %v", requestID, err)
	}

	log.Printf("[RequestID: %s] 3DS initialized for conversation: %s", requestID, req.ConversationID)

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "3D Secure authentication required",
		Data: map[string]interface{}{
			"request_id": requestID,
			"three_ds":   result.ThreeDS,
			"status_url": fmt.Sprintf("/api/check-payment-status?request_id=%s", requestID),
		},
	})
}

// persistOutcome writes the result synchronously; if the write fails the
// outcome is re-queued so it is never lost.
func (h *PaymentHandler) persistOutcome(requestID, conversationID string, result *models.PaymentResult) {
	tx, err := h.db.BeginTransaction()
	if err == nil {
		if err = tx.SavePaymentOutcome(requestID, conversationID, result); err == nil {
			err = tx.Commit()
		} else {
			tx.Rollback()
		}
	}

	if err == nil {
		return
	}

	log.Printf("[RequestID: %s] Failed to persist payment outcome, enqueueing: %v", requestID, err)

	resultJSON, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		log.Printf("[RequestID: %s] Failed to marshal result for requeue: %v", requestID, marshalErr)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The synchronous write just failed, so give the database a moment
	// before the worker retries.
	if err := h.queue.EnqueueDelayed(ctx, queue.JobTypeRecordPayment, map[string]interface{}{
		"request_id":      requestID,
		"conversation_id": conversationID,
		"result":          string(resultJSON),
	}, 10*time.Second); err != nil {
		log.Printf("[RequestID: %s] Failed to enqueue record_payment job: %v", requestID, err)
	}
}

func (h *PaymentHandler) CheckPaymentStatus(w http.ResponseWriter, r *http.Request) {
	requestID := r.URL.Query().Get("request_id")
	if requestID == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Missing request_id parameter")
		return
	}

	row, err := h.db.GetPaymentResult(requestID)
	if err == sql.ErrNoRows {
		utils.SendErrorResponse(w, http.StatusNotFound, "Payment request not found")
		return
	} else if err != nil {
		log.Printf("Error checking payment status: %v", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Error checking payment status")
		return
	}

	data := map[string]interface{}{
		"request_id":      row.RequestID,
		"conversation_id": row.ConversationID,
		"payment_id":      row.PaymentID,
		"payment_status":  row.Status,
		"created_at":      row.CreatedAt,
	}
	if row.ErrorCode != "" && row.Status == models.PaymentStatusFailed.String() {
		data["error_code"] = row.ErrorCode
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  row.Status,
		Message: "Payment status retrieved",
		Data:    data,
	})
}
