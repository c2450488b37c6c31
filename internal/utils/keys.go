package utils

import "github.com/google/uuid"

// GenerateKey generates a random key for activation links, password reset
// requests, and auth tokens.
func GenerateKey() string {
	return uuid.NewString()
}
