package key

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultKeyFile is the key file consulted when no explicit key or
// file is configured.
const DefaultKeyFile = ".cfkey"

// ErrMissingKey is returned when no source yields a token.
var ErrMissingKey = errors.New("key: no API key or key file provided, and default key file does not exist")

// Provider supplies the API authorization token.
//
// Precedence: an explicit key value wins over a named key file, which
// wins over the default key file in the working directory. The token
// is whitespace-trimmed.
type Provider struct {
	// Explicit is a key passed directly (e.g. via --key). Highest
	// precedence.
	Explicit string

	// File is a key file path (e.g. via --key-file). Used when
	// Explicit is empty.
	File string
}

// Get returns the token, or ErrMissingKey when neither an explicit
// value nor a readable file yields one.
func (p Provider) Get() (string, error) {
	if p.Explicit != "" {
		return strings.TrimSpace(p.Explicit), nil
	}

	if p.File != "" {
		data, err := os.ReadFile(p.File)
		if err != nil {
			return "", fmt.Errorf("key: read key file %s: %w", p.File, err)
		}
		return trimmed(data, p.File)
	}

	data, err := os.ReadFile(DefaultKeyFile)
	if err != nil {
		return "", ErrMissingKey
	}
	return trimmed(data, DefaultKeyFile)
}

func trimmed(data []byte, source string) (string, error) {
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("key: key file %s is empty: %w", source, ErrMissingKey)
	}
	return token, nil
}
