// Package keyresolver defines the single-method key-resolution capability
// the core consumes from its environment: given a signer identifier,
// produce a verification key. The core never stores or closes over
// private key material beyond the lifetime of one call.
package keyresolver

import (
	"context"
	"crypto/ed25519"
	"crypto/x509"
	"fmt"
)

// VerificationKey is either a raw Ed25519 public key or a certificate chain
// whose leaf resolves to one.
type VerificationKey struct {
	PublicKey ed25519.PublicKey
	Chain     []*x509.Certificate
}

// Ed25519Key returns the leaf Ed25519 public key, preferring PublicKey and
// falling back to the chain's leaf certificate.
func (k VerificationKey) Ed25519Key() (ed25519.PublicKey, error) {
	if len(k.PublicKey) == ed25519.PublicKeySize {
		return k.PublicKey, nil
	}
	if len(k.Chain) > 0 {
		pub, ok := k.Chain[0].PublicKey.(ed25519.PublicKey)
		if !ok {
			return nil, fmt.Errorf("keyresolver: leaf certificate public key is not Ed25519")
		}
		return pub, nil
	}
	return nil, fmt.Errorf("keyresolver: verification key is empty")
}

// Resolver resolves a signer identifier to a verification key. Resolvers
// must be pure with respect to any one Verify call.
type Resolver interface {
	Resolve(ctx context.Context, signerID string) (VerificationKey, bool, error)
}

// ResolverFunc adapts a plain function to a Resolver.
type ResolverFunc func(ctx context.Context, signerID string) (VerificationKey, bool, error)

func (f ResolverFunc) Resolve(ctx context.Context, signerID string) (VerificationKey, bool, error) {
	return f(ctx, signerID)
}
