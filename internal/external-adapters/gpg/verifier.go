// Package gpg provides OpenPGP detached signature verification.
package gpg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
)

const (
	armoredSignaturePrefix = "-----BEGIN PGP SIGNATURE---"
	// maxKeyringSize limits keyrings fetched over HTTP
	maxKeyringSize = 10 * 1024 * 1024
	// maxSignatureSize limits detached signatures; real ones are well under 1KB
	maxSignatureSize = 64 * 1024
)

// ErrEmptyKeyring is returned when verifying before any key was imported
var ErrEmptyKeyring = errors.New("no OpenPGP keys imported")

// Verifier checks detached signatures against an in-memory keyring using
// ProtonMail's maintained go-crypto fork
type Verifier struct {
	keyring    openpgp.EntityList
	httpClient *http.Client
}

// NewVerifier creates a new verifier with an empty keyring
func NewVerifier() *Verifier {
	return &Verifier{
		keyring: make(openpgp.EntityList, 0),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ImportKeysFromURL imports every public key of an armored keyring served over HTTP
func (v *Verifier) ImportKeysFromURL(ctx context.Context, keysURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, keysURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download keyring: %w", err)
	}
	//nolint:errcheck // Defer close
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("keyring download failed with status %d", resp.StatusCode)
	}

	keys, err := openpgp.ReadArmoredKeyRing(io.LimitReader(resp.Body, maxKeyringSize))
	if err != nil {
		return fmt.Errorf("failed to parse keyring: %w", err)
	}
	if len(keys) == 0 {
		return fmt.Errorf("no keys found in keyring")
	}

	v.keyring = append(v.keyring, keys...)
	return nil
}

// ImportKeyFromFile imports public keys from an armored or binary keyring file
func (v *Verifier) ImportKeyFromFile(keyPath string) error {
	//nolint:gosec // G304: keyPath is the operator-selected trusted keyring
	data, err := os.ReadFile(keyPath)
	if err != nil {
		return fmt.Errorf("failed to open key file: %w", err)
	}

	keys, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	if err != nil {
		keys, err = openpgp.ReadKeyRing(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(keys) == 0 {
		return fmt.Errorf("no keys found in file")
	}

	v.keyring = append(v.keyring, keys...)
	return nil
}

// VerifySignatureFromFile verifies a detached signature, armored or binary, over
// filePath and returns the signer's fingerprint in upper-case hex
func (v *Verifier) VerifySignatureFromFile(filePath, sigPath string) (string, error) {
	if len(v.keyring) == 0 {
		return "", ErrEmptyKeyring
	}

	//nolint:gosec // G304: sigPath accompanies the operator-supplied list
	sigFile, err := os.Open(sigPath)
	if err != nil {
		return "", fmt.Errorf("failed to open signature file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer sigFile.Close()

	sigData, err := io.ReadAll(io.LimitReader(sigFile, maxSignatureSize))
	if err != nil {
		return "", fmt.Errorf("failed to read signature: %w", err)
	}

	//nolint:gosec // G304: filePath is the operator-supplied list
	dataFile, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open data file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer dataFile.Close()

	var signer *openpgp.Entity
	if bytes.HasPrefix(sigData, []byte(armoredSignaturePrefix)) {
		signer, err = openpgp.CheckArmoredDetachedSignature(v.keyring, dataFile, bytes.NewReader(sigData), nil)
	} else {
		signer, err = openpgp.CheckDetachedSignature(v.keyring, dataFile, bytes.NewReader(sigData), nil)
	}
	if err != nil {
		return "", fmt.Errorf("signature verification failed: %w", err)
	}

	return fmt.Sprintf("%X", signer.PrimaryKey.Fingerprint), nil
}

// GetKeyringSize returns the number of keys in the keyring
func (v *Verifier) GetKeyringSize() int {
	return len(v.keyring)
}

// ClearKeyring clears all imported keys
func (v *Verifier) ClearKeyring() {
	v.keyring = make(openpgp.EntityList, 0)
}
