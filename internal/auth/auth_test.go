package auth

import (
	"errors"
	"testing"

	"github.com/dshills/codelens/internal/config"
)

func TestGate_Check(t *testing.T) {
	g := NewGate(config.AuthConfig{Username: "admin", Password: "password123"})

	tests := []struct {
		name     string
		user     string
		pass     string
		wantErr  error
		wantText string
	}{
		{"exact pair", "admin", "password123", nil, "Login successful!"},
		{"wrong password", "admin", "password", ErrInvalidCredentials, "Invalid credentials. Please try again."},
		{"wrong user", "root", "password123", ErrInvalidCredentials, "Invalid credentials. Please try again."},
		{"case differs", "Admin", "password123", ErrInvalidCredentials, "Invalid credentials. Please try again."},
		{"trailing space", "admin ", "password123", ErrInvalidCredentials, "Invalid credentials. Please try again."},
		{"both empty", "", "", ErrMissingCredentials, "Please enter your username and password to log in."},
		{"empty password", "admin", "", ErrMissingCredentials, "Please enter your username and password to log in."},
		{"empty user", "", "password123", ErrMissingCredentials, "Please enter your username and password to log in."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Check(tt.user, tt.pass)
			if !errors.Is(err, tt.wantErr) || (err == nil) != (tt.wantErr == nil) {
				t.Fatalf("Check(%q, %q) = %v, want %v", tt.user, tt.pass, err, tt.wantErr)
			}
			if got := Message(err); got != tt.wantText {
				t.Errorf("Message = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestGate_Unconfigured(t *testing.T) {
	g := NewGate(config.AuthConfig{})
	if g.Configured() {
		t.Fatal("empty gate should not be configured")
	}
	if err := g.Check("", ""); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("Check empty = %v, want ErrMissingCredentials", err)
	}
	if err := g.Check("admin", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Check = %v, want ErrInvalidCredentials", err)
	}
}

func TestGate_BcryptHash(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	g := NewGate(config.AuthConfig{Username: "admin", Password: "ignored", PasswordHash: hash})

	if err := g.Check("admin", "hunter2"); err != nil {
		t.Errorf("Check with hashed password = %v, want nil", err)
	}
	if err := g.Check("admin", "ignored"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("plain password must be ignored when a hash is set, got %v", err)
	}
}
