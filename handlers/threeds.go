package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"

	"tezpay-payment-api/config"
	"tezpay-payment-api/database"
	"tezpay-payment-api/models"
	"tezpay-payment-api/queue"
	"tezpay-payment-api/types"
	"tezpay-payment-api/utils"
)

type ThreeDSHandler struct {
	db    *database.Connection
	queue *queue.Queue
	store *sessions.CookieStore
}

func NewThreeDSHandler(db *database.Connection, q *queue.Queue, cfg *config.Config) (*ThreeDSHandler, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
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

	return &ThreeDSHandler{db: db, queue: q, store: store}, nil
}

// HandleCallback receives the gateway's post-authentication callback. The
// browser lands here after the bank challenge, so the payload arrives as a
// form post; JSON is accepted too for server-to-server notification.
func (h *ThreeDSHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	callback, err := h.parseCallback(r)
	if err != nil {
		log.Printf("Invalid 3DS callback: %v", err)
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid callback payload")
		return
	}

	if callback.ConversationID == "" || callback.PaymentID == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Callback missing conversationId or paymentId")
		return
	}

	log.Printf("3DS callback for conversation %s: status=%s mdStatus=%s",
		callback.ConversationID, callback.Status, callback.MDStatus)

	// Browser-carried callbacks must match the conversation bound to the
	// session at init time. Server-to-server posts have no cookie.
	if session, err := h.store.Get(r, threeDSSessionName); err == nil {
		if bound, ok := session.Values["conversation_id"].(string); ok && bound != "" {
			if bound != callback.ConversationID {
				log.Printf("3DS callback conversation mismatch: session=%s callback=%s",
					bound, callback.ConversationID)
				utils.SendErrorResponse(w, http.StatusBadRequest, "Callback does not match this session")
				return
			}
			session.Options.MaxAge = -1
			session.Save(r, w)
		}
	}

	// mdStatus 1 is the only fully-verified outcome; everything else means
	// the cardholder failed or skipped the challenge.
	if callback.Status != "success" || callback.MDStatus != "1" {
		h.recordFailedAuthentication(callback)
		utils.SendSuccessResponse(w, models.APIResponse{
			Status:  "failed",
			Message: "3D Secure authentication was not completed",
			Data: map[string]interface{}{
				"conversation_id": callback.ConversationID,
				"md_status":       callback.MDStatus,
			},
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.queue.Enqueue(ctx, queue.JobTypeCompleteThreeDS, map[string]interface{}{
		"conversation_id": callback.ConversationID,
		"payment_id":      callback.PaymentID,
	}); err != nil {
		log.Printf("Failed to enqueue 3DS completion for conversation %s: %v", callback.ConversationID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to schedule payment completion")
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "3D Secure authentication accepted, payment is being finalized",
		Data: map[string]interface{}{
			"conversation_id": callback.ConversationID,
		},
	})
}

func (h *ThreeDSHandler) parseCallback(r *http.Request) (*types.ThreeDSCallback, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.Contains(contentType, "application/json") {
		var cb types.ThreeDSCallback
		if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
			return nil, fmt.Errorf("malformed JSON callback: %v", err)
		}
		return &cb, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("malformed form callback: %v", err)
	}

	return &types.ThreeDSCallback{
		Status:           r.PostFormValue("status"),
		PaymentID:        r.PostFormValue("paymentId"),
		ConversationID:   r.PostFormValue("conversationId"),
		ConversationData: r.PostFormValue("conversationData"),
		MDStatus:         r.PostFormValue("mdStatus"),
	}, nil
}

// recordFailedAuthentication closes out the pending attempt so status polls
// stop reporting it as in flight.
func (h *ThreeDSHandler) recordFailedAuthentication(callback *types.ThreeDSCallback) {
	requestID, _, err := h.db.TakePendingThreeDS(callback.ConversationID)
	if err != nil {
		log.Printf("No pending 3DS session to fail for conversation %s: %v", callback.ConversationID, err)
		return
	}

	result := &models.PaymentResult{Code: "threeds_authentication_failed"}

	tx, err := h.db.BeginTransaction()
	if err != nil {
		log.Printf("Failed to begin transaction for failed 3DS: %v", err)
		return
	}

	if err := tx.SavePaymentOutcome(requestID, callback.ConversationID, result); err != nil {
		tx.Rollback()
		log.Printf("Failed to record failed 3DS authentication: %v", err)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Failed to commit failed 3DS outcome: %v", err)
	}
}
