package infrastructure

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	ChainNodeUrl             string        `validate:"required,url"`
	SS58Prefix               int           `validate:"gte=0,lte=16383"`
	WatchAddresses           []string      `validate:"dive,required"`
	DbDriverName             string        `validate:"required,oneof=sqlite3 postgres"`
	DbDSN                    string        `validate:"required"`
	ApiListenAddr            string        `validate:"required"`
	WorkerProcessInterval    time.Duration `validate:"gt=0"`
	WorkerFailureRetryDelay  time.Duration `validate:"gt=0"`
	ChainQueryRetryAttempts  int           `validate:"gte=1"`
	ChainQueryRetryDelay     time.Duration `validate:"gte=0"`
	ExposureCacheSize        int           `validate:"gt=0"`
	ServiceMaxErrorCount     int           `validate:"gte=1"`
	StakeCacheKeyBase        string        `validate:"required"`
	MailFromAddress          string        `validate:"omitempty,email"`
	MailToAddress            string        `validate:"omitempty,email"`
	SendgridApiKey           string
	CoingeckoApiUrl          string `validate:"omitempty,url"`
	CoingeckoTokenId         string
	CoingeckoCurrency        string
	BalanceDisplayFixedPoint int32  `validate:"gte=0"`
	StakingAssetName         string
	LogLevel                 string `validate:"oneof=trace debug info warn error"`
}

// NewConfig New returns a new Config struct
func NewConfig() *Config {
	return &Config{
		ChainNodeUrl:             getEnv("CHAIN_NODE_URL", "ws://127.0.0.1:9944"),
		SS58Prefix:               getEnvAsInt("SS58_PREFIX", 42),
		WatchAddresses:           getEnvAsSlice("WATCH_ADDRESSES", []string{}, ","),
		DbDriverName:             getEnv("DB_DRIVER_NAME", "sqlite3"),
		DbDSN:                    getEnv("DB_DSN", "stake-tracker.db"),
		ApiListenAddr:            getEnv("API_LISTEN_ADDR", ":8080"),
		WorkerProcessInterval:    getEnvAsDuration("WORKER_PROCESS_INTERVAL", time.Minute),
		WorkerFailureRetryDelay:  getEnvAsDuration("WORKER_FAILURE_RETRY_DELAY", time.Second*5),
		ChainQueryRetryAttempts:  getEnvAsInt("CHAIN_QUERY_RETRY_ATTEMPTS", 3),
		ChainQueryRetryDelay:     getEnvAsDuration("CHAIN_QUERY_RETRY_DELAY", time.Millisecond*500),
		ExposureCacheSize:        getEnvAsInt("EXPOSURE_CACHE_SIZE", 1024),
		ServiceMaxErrorCount:     getEnvAsInt("SERVICE_MAX_ERROR_COUNT", 5),
		StakeCacheKeyBase:        getEnv("STAKE_CACHE_KEY_BASE", "stakes"),
		MailFromAddress:          getEnv("MAIL_FROM_ADDRESS", ""),
		MailToAddress:            getEnv("MAIL_TO_ADDRESS", ""),
		SendgridApiKey:           getEnv("SENDGRID_API_KEY", ""),
		CoingeckoApiUrl:          getEnv("COINGECKO_API_URL", "https://api.coingecko.com/api/v3"),
		CoingeckoTokenId:         getEnv("COINGECKO_TOKEN_ID", ""),
		CoingeckoCurrency:        getEnv("COINGECKO_CURRENCY", "usd"),
		BalanceDisplayFixedPoint: int32(getEnvAsInt("BALANCE_DISPLAY_FIXED_POINT", 4)),
		StakingAssetName:         getEnv("STAKING_ASSET_NAME", "CENNZ"),
		LogLevel:                 strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Simple helper function to read an environment or return a default value
func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

// Simple helper function to read an environment variable into integer or return a default value
func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(strings.TrimSpace(valueStr)); err == nil {
		return value
	}

	return defaultVal
}

// Helper to read an environment variable into a string slice or return default value
func getEnvAsSlice(name string, defaultVal []string, sep string) []string {
	valStr := getEnv(name, "")

	if valStr == "" {
		return defaultVal
	}

	var val []string
	for _, part := range strings.Split(valStr, sep) {
		if part = strings.TrimSpace(part); part != "" {
			val = append(val, part)
		}
	}

	return val
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(name, "")
	if valStr == "" {
		return defaultVal
	}
	if duration, err := time.ParseDuration(valStr); err == nil {
		return duration
	}
	return defaultVal
}
