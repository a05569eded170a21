package license

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAuthenticateMissingToken(t *testing.T) {
	if err := Authenticate(t.TempDir()); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("err = %v, want ErrMissingToken", err)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "TOKEN"), []byte("not-the-token"), 0o644); err != nil {
		t.Fatalf("write token: %v", err)
	}
	if err := Authenticate(dir); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	dir := t.TempDir()
	// Surrounding whitespace is tolerated, the token itself must match.
	if err := os.WriteFile(filepath.Join(dir, "TOKEN"), []byte(partnershipToken+"\n"), 0o644); err != nil {
		t.Fatalf("write token: %v", err)
	}
	if err := Authenticate(dir); err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
}
