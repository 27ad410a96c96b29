package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateJoinCode generates a random workspace join code in the format
// XXXX-XXXX-XXXX.
func GenerateJoinCode() (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	code := strings.ToUpper(hex.EncodeToString(bytes))
	return fmt.Sprintf("%s-%s-%s",
		code[0:4],
		code[4:8],
		code[8:12],
	), nil
}

// NormalizeJoinCode uppercases a user-typed code and drops surrounding space
// so it can be compared against the stored hash.
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
