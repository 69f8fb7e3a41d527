package auth

import (
	"errors"
	"sync"

	"github.com/medlex/medlex-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext equivalent.
	// Returns nil on success, or an error on failure (e.g., mismatch).
	Compare(hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements the PasswordVerifier interface using bcrypt.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// dummyHash is compared against when the username is unknown, so a miss
// costs the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("medlex-placeholder-password"), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hash)
})

// verifyUserPassword checks password against user, which may be nil.
// Every failure is reported as ErrInvalidCredentials.
func verifyUserPassword(v PasswordVerifier, user *domain.User, password string) error {
	if user == nil {
		_ = v.Compare(dummyHash(), password)
		return ErrInvalidCredentials
	}
	if err := v.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return errors.Join(ErrInvalidCredentials, err)
	}
	return nil
}
