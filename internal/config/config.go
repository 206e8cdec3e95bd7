package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries every environment-driven setting for the service.
type Config struct {
	Port string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int

	JWTSecret string

	// Optional integrations; empty disables the feature.
	RedisAddr           string
	AmqpURL             string
	AmqpExchange        string
	LogisticsWebhookURL string

	// Public base URL used to build per-provider webhook callbacks.
	PublicBaseURL string

	SchedulerPollSeconds int
	OutboxPollSeconds    int

	GoEnv      string
	CORSOrigin string
}

// Load reads the environment. DATABASE_URL (handled by infra/db) can stand
// in for the discrete postgres settings, so those are not hard-required.
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RedisAddr:           os.Getenv("REDIS_ADDR"),
		AmqpURL:             os.Getenv("RABBITMQ_URL"),
		AmqpExchange:        getenv("RABBITMQ_EXCHANGE", "pedido.exchange"),
		LogisticsWebhookURL: os.Getenv("LOGISTICS_WEBHOOK_URL"),

		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),

		GoEnv:      getenv("GO_ENV", "dev"),
		CORSOrigin: getenv("CORS_ORIGIN", "*"),
	}

	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("POSTGRES_PORT must be number: %w", err)
		}
		cfg.PostgresPort = p
	}

	poll, err := atoiDefault("SCHEDULER_POLL_SECONDS", 15)
	if err != nil {
		return Config{}, err
	}
	cfg.SchedulerPollSeconds = poll

	outboxPoll, err := atoiDefault("OUTBOX_POLL_SECONDS", 10)
	if err != nil {
		return Config{}, err
	}
	cfg.OutboxPollSeconds = outboxPoll

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
