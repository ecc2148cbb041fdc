package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"joiny/internal/domain"
)

// DefaultCost is the bcrypt cost used by the server.
const DefaultCost = 12

const saltBytes = 32

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a PasswordHasher that bcrypts a SHA-256 digest of salt+password.
// The digest keeps inputs under bcrypt's 72-byte limit.
func NewBcryptHasher(cost int) domain.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) GenerateSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (h *bcryptHasher) Hash(salt, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(salt, password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare returns domain.ErrInvalidCredentials when the password does not match.
func (h *bcryptHasher) Compare(hash, salt, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), prehash(salt, password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrInvalidCredentials
	}
	return err
}

func prehash(salt, password string) []byte {
	sum := sha256.Sum256([]byte(salt + password))
	return []byte(hex.EncodeToString(sum[:]))
}
