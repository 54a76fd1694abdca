package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"tezpay-payment-api/models"
)

type Transaction struct {
	tx *sql.Tx
}

func (t *Transaction) Commit() error {
	return t.tx.Commit()
}

func (t *Transaction) Rollback() error {
	return t.tx.Rollback()
}

// SavePaymentOutcome writes the final state of one payment attempt: the
// payment_results row plus, on success, one payment_transactions row per
// item transaction. Payment and item rows commit or roll back together.
func (t *Transaction) SavePaymentOutcome(requestID, conversationID string, result *models.PaymentResult) error {
	if result.OK() {
		return t.saveSuccess(requestID, result.Payment)
	}
	return t.saveFailure(requestID, conversationID, result)
}

func (t *Transaction) saveSuccess(requestID string, payment *models.Payment) error {
	_, err := t.tx.Exec(`
        INSERT INTO payment_results (
            request_id,
            conversation_id,
            payment_id,
            status,
            price,
            paid_price,
            currency,
            created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, NOW())`,
		requestID,
		payment.ConversationID,
		payment.PaymentID,
		models.PaymentStatusSucceeded.String(),
		payment.Price,
		payment.PaidPrice,
		string(payment.Currency),
	)
	if err != nil {
		return fmt.Errorf("failed to record payment result: %v", err)
	}

	for _, tr := range payment.Transactions {
		_, err := t.tx.Exec(`
            INSERT INTO payment_transactions (
                id,
                payment_id,
                transaction_id,
                item_id,
                price,
                paid_price,
                status,
                created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, NOW())`,
			uuid.New().String(),
			payment.PaymentID,
			tr.TransactionID,
			tr.ItemID,
			tr.Price,
			tr.PaidPrice,
			tr.Status.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to record item transaction %s: %v", tr.ItemID, err)
		}
	}

	return nil
}

func (t *Transaction) saveFailure(requestID, conversationID string, result *models.PaymentResult) error {
	_, err := t.tx.Exec(`
        INSERT INTO payment_results (
            request_id,
            conversation_id,
            status,
            error_code,
            created_at
        ) VALUES (?, ?, ?, ?, NOW())`,
		requestID,
		conversationID,
		models.PaymentStatusFailed.String(),
		string(result.Code),
	)
	if err != nil {
		return fmt.Errorf("failed to record payment failure: %v", err)
	}
	return nil
}
