package gateways

import "context"

// SignatureVerifier checks that an input list was signed by a trusted key
type SignatureVerifier interface {
	// VerifyList verifies sigPath over listPath against the keyring at keyringRef
	// (a file path or an http(s) URL) and returns the signer fingerprint
	VerifyList(ctx context.Context, listPath, sigPath, keyringRef string) (string, error)
}
