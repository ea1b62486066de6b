package app

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/todolist/internal/todo/service"
	"github.com/aussiebroadwan/todolist/pkg/jwtx"
)

type Config struct {
	DatabaseURL    string        // Optional: postgres:// URL or sqlite file path (default: todolist.db)
	PepperFile     string        // Optional: file holding the password pepper (default: pepper)
	SessionSecret  string        // Optional: pepper value, takes precedence over PepperFile
	SessionTTL     time.Duration // Optional: session cookie lifetime (default: 14 days)
	CookieSecure   bool          // Optional: set Secure on the session cookie (default: true outside dev/test)
	Issuer         string        // Optional: iss claim of access tokens (default: todolist)
	AccessTokenTTL time.Duration // Optional: bearer token lifetime (default: 15m)
	SigningKeyFile string        // Optional: Ed25519 PEM key, generated when missing (default: signing.pem)
	SigningKeyID   string        // Optional: kid of the signing key (default: todolist-key-001)

	BotToken            string        // Optional: Telegram bot token; the bot is disabled without it
	TelegramAPIEndpoint string        // Optional: Bot API URL template (default: https://api.telegram.org/bot%s/%s)
	TelegramPollTimeout int           // Optional: long-poll timeout in seconds (default: 30)
	TelegramCodeTTL     time.Duration // Optional: verification code lifetime (default: 1h)

	Env                  string        // Environment (dev, test, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// LoadConfig reads the environment after loading an optional .env file from
// the working directory. Variables already set win over the file.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("ignoring unreadable .env file: %v", err)
	}

	cfg := Config{
		DatabaseURL:    getEnvOrDefault("DATABASE_URL", "todolist.db"),
		PepperFile:     getEnvOrDefault("PEPPER_FILE", "pepper"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		SessionTTL:     getEnvDurationOrDefault("SESSION_TTL", service.DefaultSessionTTL),
		Issuer:         getEnvOrDefault("JWT_ISSUER", "todolist"),
		AccessTokenTTL: getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		SigningKeyFile: getEnvOrDefault("SIGNING_KEY_FILE", "signing.pem"),
		SigningKeyID:   getEnvOrDefault("SIGNING_KEY_ID", "todolist-key-001"),

		BotToken:            os.Getenv("BOT_TOKEN"),
		TelegramAPIEndpoint: os.Getenv("TELEGRAM_API_ENDPOINT"),
		TelegramPollTimeout: getEnvIntOrDefault("TELEGRAM_POLL_TIMEOUT", service.DefaultPollTimeout),
		TelegramCodeTTL:     getEnvDurationOrDefault("TELEGRAM_CODE_TTL", service.DefaultCodeTTL),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	// Plain http is normal in dev and test containers
	cfg.CookieSecure = getEnvBoolOrDefault("COOKIE_SECURE", cfg.Env != "dev" && cfg.Env != "test")

	return cfg
}

// UsesPostgres reports whether DatabaseURL selects the postgres driver.
func (c Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
