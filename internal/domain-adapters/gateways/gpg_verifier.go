package gateways

import (
	"context"
	"fmt"
	"strings"

	"github.com/ochairo/jfintegrity/internal/external-adapters/gpg"
)

// gpgVerifier wraps the external GPG adapter to implement the domain SignatureVerifier
type gpgVerifier struct {
	newVerifier func() *gpg.Verifier
}

// NewGPGVerifier creates a new GPG verifier gateway
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewGPGVerifier() *gpgVerifier {
	return &gpgVerifier{newVerifier: gpg.NewVerifier}
}

// VerifyList loads the keyring and verifies the detached signature over the list.
// Each call starts from an empty keyring so trust never leaks between lists.
func (g *gpgVerifier) VerifyList(ctx context.Context, listPath, sigPath, keyringRef string) (string, error) {
	if keyringRef == "" {
		return "", fmt.Errorf("no keyring configured")
	}

	verifier := g.newVerifier()

	if strings.HasPrefix(keyringRef, "https://") || strings.HasPrefix(keyringRef, "http://") {
		if err := verifier.ImportKeysFromURL(ctx, keyringRef); err != nil {
			return "", fmt.Errorf("failed to import keyring from URL: %w", err)
		}
	} else if err := verifier.ImportKeyFromFile(keyringRef); err != nil {
		return "", fmt.Errorf("failed to import keyring from file: %w", err)
	}

	fingerprint, err := verifier.VerifySignatureFromFile(listPath, sigPath)
	if err != nil {
		return "", fmt.Errorf("GPG signature verification failed: %w", err)
	}
	return fingerprint, nil
}
