// Package auth implements the login gate in front of the code workflows.
//
// The gate compares a submitted username/password pair against the single
// pair supplied through configuration. It has no lockout and no rate limiting.
package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/dshills/codelens/internal/config"
)

var (
	// ErrMissingCredentials is returned when either field is empty.
	ErrMissingCredentials = errors.New("please enter your username and password to log in")
	// ErrInvalidCredentials is returned for any mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Gate checks credentials against a configured pair.
type Gate struct {
	username string
	password string
	hash     []byte
}

// NewGate builds a gate from configuration. When PasswordHash is set it is
// treated as a bcrypt hash and Password is ignored.
func NewGate(cfg config.AuthConfig) *Gate {
	g := &Gate{username: cfg.Username, password: cfg.Password}
	if cfg.PasswordHash != "" {
		g.hash = []byte(cfg.PasswordHash)
	}
	return g
}

// Configured reports whether the gate can ever accept a login.
func (g *Gate) Configured() bool {
	return g.username != "" && (g.password != "" || len(g.hash) > 0)
}

// Check returns nil only for the exact configured pair.
func (g *Gate) Check(username, password string) error {
	if username == "" || password == "" {
		return ErrMissingCredentials
	}
	if !g.Configured() {
		return ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	var passOK bool
	if len(g.hash) > 0 {
		passOK = bcrypt.CompareHashAndPassword(g.hash, []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1
	}
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// Message returns the text shown to the user for a Check result.
func Message(err error) string {
	switch {
	case err == nil:
		return "Login successful!"
	case errors.Is(err, ErrMissingCredentials):
		return "Please enter your username and password to log in."
	default:
		return "Invalid credentials. Please try again."
	}
}

// HashPassword returns a bcrypt hash suitable for auth.passwordHash.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
