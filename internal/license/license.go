// Package license gates unlimited-capacity mode behind the partnership
// token. The check runs once at startup; failure is fatal to the process.
package license

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const tokenFileName = "TOKEN"

// partnershipToken is the published partner credential; the TOKEN file must
// match it byte for byte after trimming whitespace.
const partnershipToken = "NbwUmTmxRkKRmiTs4C79n3D5Z2NkThWwru4QjQ6LCAeoT3xzjVjRpLaXrcciz0cDgIfBk0BZPQpfHdB0OCFHYHNuwr7L2DnFuWWHt6JhvXgK27tGWMPhz4ZsvCRieMFG"

var (
	ErrMissingToken = errors.New("license: TOKEN file not found")
	ErrInvalidToken = errors.New("license: invalid partnership token")
)

// Authenticate verifies the partnership token in dir.
func Authenticate(dir string) error {
	data, err := os.ReadFile(filepath.Join(dir, tokenFileName))
	if os.IsNotExist(err) {
		return ErrMissingToken
	}
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(data)) != partnershipToken {
		return ErrInvalidToken
	}
	return nil
}
