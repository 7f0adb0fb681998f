package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Env helpers for the NewXxxConfigFromEnv constructors. Unset or unparsable
// values fall back to the given default.

func GetEnv(key string) string {
	return os.Getenv(key)
}

func GetEnvOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// GetEnvUint16 is meant for ports.
func GetEnvUint16(key string, fallback uint16) uint16 {
	n, err := strconv.ParseUint(os.Getenv(key), 10, 16)
	if err != nil {
		return fallback
	}
	return uint16(n)
}

// GetEnvBool accepts true/false, 1/0, yes/no and on/off in any case.
func GetEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return fallback
	}
}

// GetEnvDuration parses Go duration strings such as "90m" or "24h".
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}
