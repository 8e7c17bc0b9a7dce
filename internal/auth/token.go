package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken is returned when an access token does not match the
// configured hash.
var ErrInvalidToken = errors.New("invalid access token")

// HashAccessToken hashes an admin access token with bcrypt for storage in
// configuration.
func HashAccessToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckAccessToken compares a presented token against the configured bcrypt
// hash.
func CheckAccessToken(token, hash string) error {
	if hash == "" {
		return ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
		return ErrInvalidToken
	}
	return nil
}
