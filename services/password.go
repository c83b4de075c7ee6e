package services

import (
	"strings"

	"github.com/matthewhartstonge/argon2"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes new passwords with one scheme and verifies hashes
// of any supported scheme, detected from the encoded prefix.
type PasswordHasher struct {
	scheme string
	argon  argon2.Config
}

func NewPasswordHasher(scheme string) *PasswordHasher {
	return &PasswordHasher{scheme: scheme, argon: argon2.DefaultConfig()}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	if h.scheme == "argon2" {
		encoded, err := h.argon.HashEncoded([]byte(password))
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *PasswordHasher) Verify(encodedHash, password string) (bool, error) {
	if strings.HasPrefix(encodedHash, "$argon2") {
		return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	}
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return false, nil
	}
	return err == nil, err
}
