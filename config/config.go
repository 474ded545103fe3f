package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "wgwatcher/pkg/errors"
)

// State backends selectable via STATE_BACKEND.
const (
	StateBackendFile     = "file"
	StateBackendMemcache = "memcache"
)

const defaultSearchURL = "https://www.wg-gesucht.de/wg-zimmer-in-Tuebingen.127.0.1.0.html?offer_filter=1&city_id=127&sort_order=0&noDeact=1&categories%5B%5D=0&rMax=430"

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

// Config represents the application configuration
type Config struct {
	// Search page configuration
	SearchURL string
	UserAgent string
	HTMLFile  string

	// Seen-set persistence
	StateBackend string
	StatePath    string
	MemcacheAddr string

	// Telegram configuration
	TelegramAPIURL     string
	TelegramToken      string
	TelegramChatID     string
	DisableLinkPreview bool

	// Redis event stream configuration (disabled when RedisAddr is empty)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int64

	// HTTP and pacing
	RequestTimeout time.Duration
	SendDelay      time.Duration

	// Debugging
	DebugDumpHTML bool
	DebugDumpPath string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "512"))
	timeoutSecs, _ := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SECONDS", "20"))
	sendDelayMs, _ := strconv.Atoi(getEnv("SEND_DELAY_MS", "800"))

	return &Config{
		SearchURL:            getEnv("WG_URL", defaultSearchURL),
		UserAgent:            getEnv("USER_AGENT", defaultUserAgent),
		HTMLFile:             getEnv("HTML_FILE", ""),
		StateBackend:         getEnv("STATE_BACKEND", StateBackendFile),
		StatePath:            getEnv("STATE_PATH", "data/seen_listings.json"),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		TelegramAPIURL:       getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		TelegramToken:        getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:       getEnv("TELEGRAM_CHAT_ID", ""),
		DisableLinkPreview:   getEnvBool("TELEGRAM_DISABLE_PREVIEW", false),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "wglistings"),
		RedisStreamMaxLength: int64(streamMaxLen),
		RequestTimeout:       time.Duration(timeoutSecs) * time.Second,
		SendDelay:            time.Duration(sendDelayMs) * time.Millisecond,
		DebugDumpHTML:        getEnvBool("DEBUG_DUMP_HTML", false),
		DebugDumpPath:        getEnv("DEBUG_DUMP_PATH", "data/last_search.html"),
		Environment:          getEnv("WGWATCHER_ENVIRONMENT", "development"),
	}
}

// Validate checks that the loaded configuration is usable
func (c *Config) Validate() error {
	if c.SearchURL == "" && c.HTMLFile == "" {
		return apperrors.NewConfig("WG_URL must not be empty", nil)
	}
	if c.RequestTimeout <= 0 {
		return apperrors.NewConfig("REQUEST_TIMEOUT_SECONDS must be positive", nil)
	}
	if c.SendDelay < 0 {
		return apperrors.NewConfig("SEND_DELAY_MS must not be negative", nil)
	}
	switch c.StateBackend {
	case StateBackendFile:
		if c.StatePath == "" {
			return apperrors.NewConfig("STATE_PATH must not be empty", nil)
		}
	case StateBackendMemcache:
		if c.MemcacheAddr == "" {
			return apperrors.NewConfig("MEMCACHE_ADDR must not be empty", nil)
		}
	default:
		return apperrors.NewConfig("STATE_BACKEND must be \"file\" or \"memcache\"", nil)
	}
	if c.RedisAddr != "" && c.RedisStreamMaxLength <= 0 {
		return apperrors.NewConfig("REDIS_STREAM_MAX_LENGTH must be positive", nil)
	}
	return nil
}

// TelegramEnabled reports whether both Telegram credentials are present
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool interprets "1" and "true" (any case) as true
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || strings.EqualFold(value, "true")
}
