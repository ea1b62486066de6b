package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/todolist/pkg/cryptox"
	"github.com/aussiebroadwan/todolist/pkg/jwtx"
)

// Keys is the token signing material: the signer for new tokens and the key
// set published at /.well-known/jwks.json that verifies them.
type Keys struct {
	KeySet   *jwtx.KeySet
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
}

// InitKeys loads the Ed25519 signing key from cfg.SigningKeyFile, generating
// and saving one on first start so tokens survive restarts.
func InitKeys(cfg Config, logger *slog.Logger) (*Keys, error) {
	pemKey, err := cryptox.LoadOrGenerateEd25519Key(cfg.SigningKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	signer, err := jwtx.NewEdDSASigner(cfg.SigningKeyID, pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("failed to publish signing key: %w", err)
	}

	logger.Info("signing key loaded",
		"kid", signer.KID(),
		"algorithm", "EdDSA",
		"issuer", cfg.Issuer,
	)

	return &Keys{
		KeySet:   keys,
		Signer:   signer,
		Verifier: jwtx.NewEdDSAVerifier(keys, cfg.Issuer),
	}, nil
}
