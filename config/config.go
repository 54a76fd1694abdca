package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"tezpay-payment-api/database"
	"tezpay-payment-api/services/payment/iyzico"
)

type Config struct {
	Database database.DatabaseConfig
	Gateway  iyzico.Config
	Server   ServerConfig
	Redis    RedisConfig
	Session  SessionConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	Port string
	// CallbackBaseURL is this service's public base URL, used to build the
	// 3DS callback endpoint handed to the gateway.
	CallbackBaseURL string
}

type RedisConfig struct {
	URL               string
	WorkerConcurrency int
}

type SessionConfig struct {
	Secret string
	Domain string
	MaxAge int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	workerConcurrency := 2
	if v := os.Getenv("WORKER_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			workerConcurrency = n
		}
	}

	sessionMaxAge := 900
	if v := os.Getenv("SESSION_MAX_AGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			sessionMaxAge = n
		}
	}

	cfg := &Config{
		Database: database.DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
		},
		Gateway: iyzico.Config{
			APIKey:      os.Getenv("GATEWAY_API_KEY"),
			APISecret:   os.Getenv("GATEWAY_API_SECRET"),
			Environment: os.Getenv("GATEWAY_ENVIRONMENT"),
		},
		Server: ServerConfig{
			Port:            os.Getenv("SERVER_PORT"),
			CallbackBaseURL: os.Getenv("CALLBACK_BASE_URL"),
		},
		Redis: RedisConfig{
			URL:               os.Getenv("REDIS_URL"),
			WorkerConcurrency: workerConcurrency,
		},
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
			Domain: os.Getenv("SESSION_DOMAIN"),
			MaxAge: sessionMaxAge,
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: os.Getenv("JWT_ISSUER"),
		},
	}

	if cfg.Redis.URL == "" {
		cfg.Redis.URL = "redis://localhost:6379/0"
		log.Printf("Warning: REDIS_URL not set, using default: %s", cfg.Redis.URL)
	}

	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "tezpay-payment-api"
	}

	return cfg
}
