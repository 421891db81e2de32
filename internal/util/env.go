package util

import (
	"os"
	"strconv"
	"time"
)

// Getenv will return an environment variable or a default value
func Getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val != "" {
		return val
	}

	return defaultValue
}

// GetenvDuration returns an environment variable parsed as a duration
// Plain integers are treated as seconds
func GetenvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}

	return d
}

// SetEnv sets an environment variable and returns a function that restores the previous value
func SetEnv(key, value string) func() {
	prev, found := os.LookupEnv(key)
	_ = os.Setenv(key, value)

	return func() {
		if found {
			_ = os.Setenv(key, prev)
			return
		}

		_ = os.Unsetenv(key)
	}
}
