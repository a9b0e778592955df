package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SwaggerHost string
	Gateway     GatewayConfig
	Ledger      LedgerConfig
}

// GatewayConfig holds payment gateway credentials.
type GatewayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
}

// LedgerConfig holds ledger (blockchain audit trail) settings. Services
// receive this struct at construction; nothing reads it ambiently.
type LedgerConfig struct {
	Enabled         bool
	Network         string
	RPCURL          string
	PrivateKey      string
	ContractAddress string
	GasPrice        int64
	GasLimit        uint64
	ConfirmInterval time.Duration
	ConfirmAttempts int
	MaxRetries      int
	SweepInterval   time.Duration
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		MySQLDSN:    getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
		Gateway: GatewayConfig{
			KeyID:         os.Getenv("GATEWAY_KEY_ID"),
			KeySecret:     getEnv("GATEWAY_KEY_SECRET", "change-me"),
			WebhookSecret: getEnv("GATEWAY_WEBHOOK_SECRET", "change-me"),
		},
		Ledger: LedgerConfig{
			Enabled:         getEnvBool("LEDGER_ENABLED", true),
			Network:         getEnv("LEDGER_NETWORK", "polygon-mumbai"),
			RPCURL:          getEnv("LEDGER_RPC_URL", "https://rpc-mumbai.maticvigil.com"),
			PrivateKey:      os.Getenv("LEDGER_PRIVATE_KEY"),
			ContractAddress: os.Getenv("LEDGER_CONTRACT_ADDRESS"),
			GasPrice:        getEnvInt64("LEDGER_GAS_PRICE", 1000000000),
			GasLimit:        uint64(getEnvInt64("LEDGER_GAS_LIMIT", 300000)),
			ConfirmInterval: getEnvDuration("LEDGER_CONFIRM_INTERVAL", 3*time.Second),
			ConfirmAttempts: getEnvInt("LEDGER_CONFIRM_ATTEMPTS", 40),
			MaxRetries:      getEnvInt("LEDGER_MAX_RETRIES", 3),
			SweepInterval:   getEnvDuration("LEDGER_SWEEP_INTERVAL", 5*time.Minute),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
