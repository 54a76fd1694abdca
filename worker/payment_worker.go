package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"tezpay-payment-api/database"
	"tezpay-payment-api/models"
	"tezpay-payment-api/queue"
	"tezpay-payment-api/services/payment"
)

// Worker drains the job queue: 3-D Secure completions and deferred outcome
// writes run here, off the request path.
type Worker struct {
	queue          *queue.Queue
	db             *database.Connection
	paymentService *payment.Service
	shutdown       chan struct{}
	isRunning      bool
}

func NewWorker(q *queue.Queue, db *database.Connection, ps *payment.Service) *Worker {
	return &Worker{
		queue:          q,
		db:             db,
		paymentService: ps,
		shutdown:       make(chan struct{}),
	}
}

func (w *Worker) Start(concurrency int) {
	w.isRunning = true

	for i := 0; i < concurrency; i++ {
		go w.processJobs(i)
	}
	go w.moveDelayedJobs()

	log.Printf("Started %d worker goroutines", concurrency)
}

func (w *Worker) Stop() {
	if !w.isRunning {
		return
	}

	log.Println("Stopping worker...")
	close(w.shutdown)
	w.isRunning = false
}

func (w *Worker) processJobs(workerID int) {
	log.Printf("Worker %d starting", workerID)

	for {
		select {
		case <-w.shutdown:
			log.Printf("Worker %d shutting down", workerID)
			return
		default:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			job, err := w.queue.Dequeue(ctx, 5*time.Second)
			cancel()

			if err != nil {
				log.Printf("Worker %d: Error dequeuing job: %v", workerID, err)
				time.Sleep(time.Second)
				continue
			}

			if job == nil {
				time.Sleep(100 * time.Millisecond)
				continue
			}

			log.Printf("Worker %d processing job %s of type %s", workerID, job.ID, job.Type)

			jobErr := w.processJob(job)
			if jobErr != nil {
				log.Printf("Worker %d: Error processing job %s: %v", workerID, job.ID, jobErr)

				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				failErr := w.queue.FailJob(ctx, job, jobErr)
				cancel()

				if failErr != nil {
					log.Printf("Worker %d: Error marking job %s as failed: %v", workerID, job.ID, failErr)
				}

				time.Sleep(time.Second)
				continue
			}

			ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
			completeErr := w.queue.CompleteJob(ctx, job)
			cancel()

			if completeErr != nil {
				log.Printf("Worker %d: Error marking job %s as complete: %v", workerID, job.ID, completeErr)
			}
		}
	}
}

func (w *Worker) moveDelayedJobs() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := w.queue.ProcessDelayedJobs(ctx); err != nil {
				log.Printf("Error moving delayed jobs: %v", err)
			}
			cancel()
		}
	}
}

func (w *Worker) processJob(job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeCompleteThreeDS:
		return w.processCompleteThreeDS(job)
	case queue.JobTypeRecordPayment:
		return w.processRecordPayment(job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (w *Worker) processCompleteThreeDS(job *queue.Job) error {
	conversationID, _ := job.Data["conversation_id"].(string)
	paymentID, _ := job.Data["payment_id"].(string)
	if conversationID == "" || paymentID == "" {
		return fmt.Errorf("complete_threeds job %s missing conversation_id or payment_id", job.ID)
	}

	requestID, _, err := w.db.TakePendingThreeDS(conversationID)
	if err != nil {
		return fmt.Errorf("no pending 3DS session for conversation %s: %v", conversationID, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pay, meta, err := w.paymentService.Complete3DS(ctx, conversationID, paymentID)

	result := &models.PaymentResult{Payment: pay, Metadata: meta}
	if err != nil {
		if perr, ok := err.(*models.ProcessingError); ok {
			result = &models.PaymentResult{Code: perr.Code}
		} else {
			return fmt.Errorf("3DS completion failed for conversation %s: %v", conversationID, err)
		}
	}

	return w.saveOutcome(requestID, conversationID, result)
}

func (w *Worker) processRecordPayment(job *queue.Job) error {
	requestID, _ := job.Data["request_id"].(string)
	conversationID, _ := job.Data["conversation_id"].(string)
	if requestID == "" {
		return fmt.Errorf("record_payment job %s missing request_id", job.ID)
	}

	resultJSON, _ := job.Data["result"].(string)
	result := &models.PaymentResult{}
	if resultJSON != "" {
		if err := decodeResult(resultJSON, result); err != nil {
			return fmt.Errorf("record_payment job %s has malformed result payload: %v", job.ID, err)
		}
	}

	return w.saveOutcome(requestID, conversationID, result)
}

func (w *Worker) saveOutcome(requestID, conversationID string, result *models.PaymentResult) error {
	tx, err := w.db.BeginTransaction()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}

	if err := tx.SavePaymentOutcome(requestID, conversationID, result); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment outcome: %v", err)
	}

	log.Printf("Recorded payment outcome for request %s (conversation %s)", requestID, conversationID)
	return nil
}

func decodeResult(raw string, out *models.PaymentResult) error {
	return json.Unmarshal([]byte(raw), out)
}
