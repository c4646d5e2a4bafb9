// Package env provides small helpers for reading process environment
// variables with fallbacks, for the few values read outside the main
// envconfig-driven configuration.
package env

import "os"

// Get returns the named environment variable, or fallback when it is
// unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
