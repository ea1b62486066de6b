package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// GenerateEd25519Key returns a fresh Ed25519 private key as a PKCS8 PEM block.
func GenerateEd25519Key() ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: generate Ed25519 key: %w", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("cryptox: marshal PKCS8 key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// LoadOrGenerateEd25519Key reads a PEM key from path. An empty path, or a
// path that does not exist yet, gets a freshly generated key (written to path
// when one was given) so tokens survive restarts once the file exists.
func LoadOrGenerateEd25519Key(path string) ([]byte, error) {
	if path != "" {
		if raw, err := os.ReadFile(path); err == nil {
			return raw, nil
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("cryptox: read signing key: %w", err)
		}
	}

	key, err := GenerateEd25519Key()
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := os.WriteFile(path, key, 0o600); err != nil {
			return nil, fmt.Errorf("cryptox: write signing key: %w", err)
		}
	}
	return key, nil
}
