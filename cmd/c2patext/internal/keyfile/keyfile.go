// Package keyfile loads and generates raw Ed25519 key files for the
// c2patext CLI: each file holds the fixed-size raw key bytes, with no PEM
// or other wrapping.
package keyfile

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"
)

// LoadPrivate reads a raw Ed25519 private key from path.
func LoadPrivate(path string) (ed25519.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading private key %q: %w", path, err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("private key %q has %d bytes, want %d", path, len(raw), ed25519.PrivateKeySize)
	}
	return ed25519.PrivateKey(raw), nil
}

// LoadPublic reads a raw Ed25519 public key from path.
func LoadPublic(path string) (ed25519.PublicKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading public key %q: %w", path, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key %q has %d bytes, want %d", path, len(raw), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(raw), nil
}

// Generate creates a fresh Ed25519 keypair and writes it to privatePath
// (mode 0600) and publicPath (mode 0644).
func Generate(privatePath, publicPath string) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generating Ed25519 keypair: %w", err)
	}
	if err := os.WriteFile(privatePath, private, 0600); err != nil {
		return nil, nil, fmt.Errorf("writing private key: %w", err)
	}
	if err := os.WriteFile(publicPath, public, 0644); err != nil {
		return nil, nil, fmt.Errorf("writing public key: %w", err)
	}
	return public, private, nil
}
