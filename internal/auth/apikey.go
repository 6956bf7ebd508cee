package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Agent API keys are "pt_" + 48 hex chars. Only the bcrypt hash is stored;
// the 16-char prefix stays in clear so the row to compare against can be
// found without scanning every agent.
const (
	apiKeyScheme    = "pt_"
	apiKeyRandBytes = 24
	KeyPrefixLen    = 16
)

// GenerateAPIKey returns a new plaintext key, its lookup prefix, and the
// bcrypt hash to store.
func GenerateAPIKey() (key, prefix, hash string, err error) {
	buf := make([]byte, apiKeyRandBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", "", fmt.Errorf("generate api key: %w", err)
	}

	key = apiKeyScheme + hex.EncodeToString(buf)
	prefix = key[:KeyPrefixLen]

	hash, err = HashPassword(key)
	if err != nil {
		return "", "", "", fmt.Errorf("hash api key: %w", err)
	}
	return key, prefix, hash, nil
}

// APIKeyPrefix extracts the lookup prefix from a presented key.
// Returns an error for keys too short or missing the scheme.
func APIKeyPrefix(key string) (string, error) {
	if len(key) < KeyPrefixLen || !strings.HasPrefix(key, apiKeyScheme) {
		return "", fmt.Errorf("malformed api key")
	}
	return key[:KeyPrefixLen], nil
}

// CompareAPIKey checks a presented key against the stored hash.
func CompareAPIKey(hash, key string) error {
	return ComparePassword(hash, key)
}
