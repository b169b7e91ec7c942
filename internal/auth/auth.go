// internal/auth/auth.go
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Annany2002/bookshelf-backend/internal/logger"
)

var (
	ErrMissingCredentials = errors.New("not authenticated")
	ErrTokenMalformed     = errors.New("invalid authentication credentials")
	ErrForbidden          = errors.New("invalid api key")
	ErrAPIKeyGeneration   = errors.New("failed to generate api key")
	ErrAdminSecretInvalid = errors.New("invalid admin secret")
	customLog             = logger.NewLogger()
)

// --- API Key Utilities ---

// GenerateAPIKey returns a fresh random (version 4) UUID in canonical string form.
func GenerateAPIKey() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		customLog.Warnf("Error reading randomness for API key: %v", err)
		return "", fmt.Errorf("%w: %v", ErrAPIKeyGeneration, err)
	}
	return id.String(), nil
}

// ParseBearer extracts the credentials from an Authorization header value.
// The scheme must be "Bearer" (any case) followed by a non-empty token.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingCredentials
	}

	scheme, credentials, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", fmt.Errorf("%w: authorization header format must be Bearer {token}", ErrTokenMalformed)
	}

	credentials = strings.TrimSpace(credentials)
	if credentials == "" {
		return "", fmt.Errorf("%w: empty bearer token", ErrTokenMalformed)
	}
	return credentials, nil
}

// --- Admin Secret Utilities ---

// HashSecret generates a bcrypt hash for the given secret
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		customLog.Warnf("Error generating bcrypt hash: %v", err)
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(bytes), nil
}

// CheckSecretHash compares a presented secret with a stored bcrypt hash
func CheckSecretHash(secret, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		customLog.Warnf("Unexpected error comparing secret hash: %v", err)
	}
	return err == nil
}
