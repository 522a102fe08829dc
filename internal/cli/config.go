package cli

import "os"

// Config holds CLI configuration
type Config struct {
	ServerURL string
}

// DefaultConfig returns the default CLI configuration, honoring the
// QUIZ_SERVER environment variable
func DefaultConfig() *Config {
	serverURL := os.Getenv("QUIZ_SERVER")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}
	return &Config{ServerURL: serverURL}
}
