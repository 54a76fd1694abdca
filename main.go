package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"

	"tezpay-payment-api/config"
	"tezpay-payment-api/database"
	"tezpay-payment-api/handlers"
	"tezpay-payment-api/middleware"
	"tezpay-payment-api/queue"
	"tezpay-payment-api/services/auth"
	"tezpay-payment-api/services/payment"
	"tezpay-payment-api/worker"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds | log.LUTC)
	log.Println("Starting payment API service...")

	cfg := config.Load()

	var db *database.Connection
	var err error
	for attempts := 1; attempts <= 5; attempts++ {
		db, err = database.NewConnection(cfg.Database)
		if err == nil {
			break
		}
		log.Printf("Database connection attempt %d/5 failed: %v", attempts, err)
		time.Sleep(time.Second * time.Duration(attempts))
	}
	if err != nil {
		log.Fatalf("Could not establish database connection: %v", err)
	}
	defer db.Close()
	log.Println("Database connection established")

	jobQueue, err := queue.NewQueue(cfg.Redis.URL, "payment_jobs")
	if err != nil {
		log.Fatalf("Failed to initialize job queue: %v", err)
	}
	defer jobQueue.Close()
	log.Println("Job queue initialized")

	paymentService := payment.NewPaymentService(cfg.Gateway)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, db)

	concurrency := cfg.Redis.WorkerConcurrency
	if concurrency < 2 {
		concurrency = 2
	} else if concurrency > 8 {
		concurrency = 8
	}

	paymentWorker := worker.NewWorker(jobQueue, db, paymentService)
	paymentWorker.Start(concurrency)
	defer paymentWorker.Stop()

	rateLimiter, err := middleware.NewRateLimiter(cfg.Redis.URL)
	if err != nil {
		log.Printf("Warning: rate limiter unavailable, continuing without it: %v", err)
	} else {
		defer rateLimiter.Close()
	}

	paymentHandler, err := handlers.NewPaymentHandler(db, paymentService, jobQueue, cfg)
	if err != nil {
		log.Fatalf("Failed to create payment handler: %v", err)
	}

	threeDSHandler, err := handlers.NewThreeDSHandler(db, jobQueue, cfg)
	if err != nil {
		log.Fatalf("Failed to create 3DS handler: %v", err)
	}

	authHandler, err := handlers.NewAuthHandler(jwtService)
	if err != nil {
		log.Fatalf("Failed to create auth handler: %v", err)
	}

	router := mux.NewRouter()

	router.Use(loggingMiddleware)
	router.Use(middleware.SecurityHeadersMiddleware)
	if rateLimiter != nil {
		router.Use(rateLimiter.RateLimitMiddleware())
	}

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/token", authHandler.IssueToken).Methods("POST")
	api.HandleFunc("/auth/refresh", authHandler.RefreshToken).Methods("POST")

	// The gateway posts the buyer back here after the bank challenge, so the
	// callback cannot sit behind merchant auth.
	api.HandleFunc("/threeds/callback", threeDSHandler.HandleCallback).Methods("POST")

	api.HandleFunc("/health", healthHandler(db, jobQueue)).Methods("GET")

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.AuthLoggingMiddleware)
	protected.HandleFunc("/process-payment", paymentHandler.ProcessPayment).Methods("POST")
	protected.HandleFunc("/check-payment-status", paymentHandler.CheckPaymentStatus).Methods("GET")

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

func healthHandler(db *database.Connection, q *queue.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		code := http.StatusOK

		if err := db.Ping(); err != nil {
			log.Printf("Health check: database unreachable: %v", err)
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := q.Client().Ping(ctx).Err(); err != nil {
			log.Printf("Health check: redis unreachable: %v", err)
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		w.Write([]byte(`{"status":"` + status + `"}`))
	}
}
