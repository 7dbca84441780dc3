package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Role is the access level of a caller.
type Role string

const (
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

// ErrInvalidCredentials is returned when a username or password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier checks a username and password and returns the caller's role.
type Verifier interface {
	Verify(username, password string) (Role, error)
}

// StaticVerifier knows a single admin account configured at startup.
// Empty credentials are treated as a guest.
type StaticVerifier struct {
	username     string
	passwordHash []byte
}

// NewStaticVerifier creates a verifier for the admin username and bcrypt hash.
func NewStaticVerifier(username, passwordHash string) *StaticVerifier {
	return &StaticVerifier{
		username:     username,
		passwordHash: []byte(passwordHash),
	}
}

func (v *StaticVerifier) Verify(username, password string) (Role, error) {
	if username == "" && password == "" {
		return RoleGuest, nil
	}
	// Run bcrypt even on a username mismatch so both paths take the same time.
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1
	err := bcrypt.CompareHashAndPassword(v.passwordHash, []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to compare password hash: %w", err)
	}
	if !userOK {
		return "", ErrInvalidCredentials
	}
	return RoleAdmin, nil
}

// HashPassword returns the bcrypt hash to put in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
