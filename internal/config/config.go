package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// SQLite
	SQLiteDBPath string

	// Firestore / Firebase
	FirebaseProjectID   string
	FirebaseCredentials string

	// Identity
	AuthBackend string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Market data
	MarketAPIURL   string
	MarketAPIKey   string
	MarketCacheTTL time.Duration

	// Rate limiting
	RateLimitPerMinute int
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/moneymentor.db"),

		FirebaseProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS_FILE", ""),

		AuthBackend: getEnv("AUTH_BACKEND", "none"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "moneymentor"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "budget_snapshots"),

		MarketAPIURL:   getEnv("MARKET_API_URL", ""),
		MarketAPIKey:   getEnv("MARKET_API_KEY", ""),
		MarketCacheTTL: getEnvDuration("MARKET_CACHE_TTL", 5*time.Minute),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "sqlite", "firestore"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.DataBackend == "firestore" && c.FirebaseProjectID == "" {
		errors = append(errors, "Firebase project ID is required when using firestore backend")
	}

	validAuth := []string{"none", "firebase"}
	isValidAuth := false
	for _, backend := range validAuth {
		if c.AuthBackend == backend {
			isValidAuth = true
			break
		}
	}
	if !isValidAuth {
		errors = append(errors, fmt.Sprintf("invalid auth backend '%s': must be one of %v", c.AuthBackend, validAuth))
	}
	if c.AuthBackend == "firebase" && c.FirebaseProjectID == "" {
		errors = append(errors, "Firebase project ID is required when using firebase auth")
	}

	if c.FirebaseCredentials != "" {
		if _, err := os.Stat(c.FirebaseCredentials); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("Firebase credentials file does not exist: %s", c.FirebaseCredentials))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.MarketAPIURL != "" {
		if parsedURL, err := url.Parse(c.MarketAPIURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid market API URL '%s': %v", c.MarketAPIURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid market API URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	if c.MarketCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid market cache TTL %v: must be at least 1 second", c.MarketCacheTTL))
	} else if c.MarketCacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid market cache TTL %v: must be at most 24 hours", c.MarketCacheTTL))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimitPerMinute))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
