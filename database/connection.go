package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"tezpay-payment-api/models"
)

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	DBName   string
}

type Connection struct {
	db *sql.DB
}

func NewConnection(config DatabaseConfig) (*Connection, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
		config.User, config.Password, config.Host, config.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	conn := &Connection{db: db}

	if err := conn.ensureConnection(); err != nil {
		db.Close()
		return nil, err
	}

	return conn, nil
}

func (c *Connection) ensureConnection() error {
	for retries := 0; retries < 3; retries++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := c.db.PingContext(ctx)
		cancel()

		if err == nil {
			return nil
		}

		log.Printf("Database ping failed (attempt %d/3): %v", retries+1, err)
		time.Sleep(time.Second * time.Duration(retries+1))
	}
	return fmt.Errorf("failed to establish database connection after 3 attempts")
}

func (c *Connection) Close() error {
	return c.db.Close()
}

func (c *Connection) Ping() error {
	return c.ensureConnection()
}

func (c *Connection) GetDB() *sql.DB {
	return c.db
}

// LockConversation guards one conversation against concurrent processing.
// Stale locks older than five minutes are taken over.
func (c *Connection) LockConversation(conversationID string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := c.db.ExecContext(ctx, `
        INSERT INTO conversation_locks (conversation_id, locked_at)
        VALUES (?, NOW())
        ON DUPLICATE KEY UPDATE
        locked_at = IF(locked_at < NOW() - INTERVAL 5 MINUTE, NOW(), locked_at)
    `, conversationID)

	if err != nil {
		return false, fmt.Errorf("error acquiring lock: %v", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (c *Connection) ReleaseLock(conversationID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := c.db.ExecContext(ctx, `
        DELETE FROM conversation_locks
        WHERE conversation_id = ?
    `, conversationID)

	if err != nil {
		return fmt.Errorf("error releasing lock: %v", err)
	}

	return nil
}

// PaymentOutcomeRow is the persisted view of one payment attempt.
type PaymentOutcomeRow struct {
	RequestID      string    `json:"request_id"`
	ConversationID string    `json:"conversation_id"`
	PaymentID      string    `json:"payment_id"`
	Status         string    `json:"status"`
	ErrorCode      string    `json:"error_code,omitempty"`
	Price          string    `json:"price"`
	PaidPrice      string    `json:"paid_price"`
	Currency       string    `json:"currency"`
	CreatedAt      time.Time `json:"created_at"`
}

func (c *Connection) GetPaymentResult(requestID string) (*PaymentOutcomeRow, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var row PaymentOutcomeRow
	err := c.db.QueryRowContext(ctx, `
        SELECT request_id, conversation_id, COALESCE(payment_id, ''), status,
               COALESCE(error_code, ''), COALESCE(price, ''), COALESCE(paid_price, ''),
               COALESCE(currency, ''), created_at
        FROM payment_results
        WHERE request_id = ?
        ORDER BY created_at DESC
        LIMIT 1`,
		requestID).Scan(
		&row.RequestID,
		&row.ConversationID,
		&row.PaymentID,
		&row.Status,
		&row.ErrorCode,
		&row.Price,
		&row.PaidPrice,
		&row.Currency,
		&row.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &row, nil
}

// MarkPaymentPending records a scheduled or 3DS-pending attempt before the
// final outcome is known.
func (c *Connection) MarkPaymentPending(requestID, conversationID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := c.db.ExecContext(ctx, `
        INSERT INTO payment_results (request_id, conversation_id, status, created_at)
        VALUES (?, ?, ?, NOW())`,
		requestID, conversationID, models.PaymentStatusPending.String())
	if err != nil {
		return fmt.Errorf("failed to record pending payment: %v", err)
	}
	return nil
}

// SavePendingThreeDS stores the linkage between a 3DS conversation and its
// originating request so the callback can resume it.
func (c *Connection) SavePendingThreeDS(conversationID, requestID, basketID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := c.db.ExecContext(ctx, `
        INSERT INTO threeds_pending (conversation_id, request_id, basket_id, created_at)
        VALUES (?, ?, ?, NOW())
        ON DUPLICATE KEY UPDATE
        request_id = VALUES(request_id),
        basket_id = VALUES(basket_id),
        created_at = NOW()`,
		conversationID, requestID, basketID)
	if err != nil {
		return fmt.Errorf("failed to store pending 3DS session: %v", err)
	}
	return nil
}

// TakePendingThreeDS fetches and removes the pending 3DS row for a
// conversation; completion is one-shot.
func (c *Connection) TakePendingThreeDS(conversationID string) (requestID string, basketID string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = c.db.QueryRowContext(ctx, `
        SELECT request_id, basket_id FROM threeds_pending
        WHERE conversation_id = ?`,
		conversationID).Scan(&requestID, &basketID)
	if err != nil {
		return "", "", err
	}

	_, err = c.db.ExecContext(ctx, `
        DELETE FROM threeds_pending WHERE conversation_id = ?`, conversationID)
	if err != nil {
		log.Printf("Warning: failed to remove pending 3DS row for %s: %v", conversationID, err)
	}

	return requestID, basketID, nil
}

func (c *Connection) BeginTransaction() (*Transaction, error) {
	if err := c.ensureConnection(); err != nil {
		return nil, fmt.Errorf("database connection check failed: %v", err)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	return &Transaction{tx: tx}, nil
}
