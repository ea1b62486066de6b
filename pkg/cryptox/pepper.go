package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const pepperSize = 32

var (
	pepperMu   sync.Mutex
	pepper     string
	pepperPath = "pepper"
)

// SetPepperPath sets the file the pepper is read from (or written to on
// first start). It also forgets any pepper already loaded.
func SetPepperPath(path string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	pepperPath = path
	pepper = ""
}

// SetPepper overrides the pepper directly. The SESSION_SECRET setting ends up
// here so deployments without a writable disk still hash consistently.
func SetPepper(value string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	pepper = value
}

// Pepper returns the process pepper, loading or generating the pepper file on
// first use.
func Pepper() (string, error) {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	if pepper != "" {
		return pepper, nil
	}

	loaded, err := loadOrCreatePepper(pepperPath)
	if err != nil {
		return "", err
	}
	pepper = loaded
	return pepper, nil
}

func loadOrCreatePepper(path string) (string, error) {
	path = filepath.Clean(path)

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		value := strings.TrimSpace(string(raw))
		if value == "" {
			return "", fmt.Errorf("cryptox: pepper file %s is empty", path)
		}
		return value, nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("cryptox: read pepper: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("cryptox: create pepper dir: %w", err)
	}

	buf := make([]byte, pepperSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: generate pepper: %w", err)
	}
	value := base64.RawURLEncoding.EncodeToString(buf)

	if err := os.WriteFile(path, []byte(value), 0o600); err != nil {
		return "", fmt.Errorf("cryptox: write pepper: %w", err)
	}
	return value, nil
}
