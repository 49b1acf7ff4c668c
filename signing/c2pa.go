// Package signing implements two Ed25519 signer/verifier pairs: COSE_Sign1
// over canonical CBOR for the C2PA format, and a raw
// format_tag||0x00||payload scheme for the legacy formats. Both share
// the same key-resolver capability and error taxonomy.
package signing

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/encypherai/c2patext/c2paerr"
	"github.com/encypherai/c2patext/canonical"
	"github.com/encypherai/c2patext/cose"
	"github.com/encypherai/c2patext/keyresolver"
	"github.com/encypherai/c2patext/model"
)

// SignC2PA signs manifest with priv under signerID, returning the
// COSE_Sign1 wire bytes. The payload inside the envelope is the canonical
// CBOR encoding of manifest.
func SignC2PA(manifest model.C2PAManifest, priv ed25519.PrivateKey, signerID string) ([]byte, error) {
	const op = "signing.SignC2PA"

	if len(priv) != ed25519.PrivateKeySize {
		return nil, c2paerr.New(op, c2paerr.KindInvalidPrivateKey, fmt.Errorf("private key is %d bytes, want %d", len(priv), ed25519.PrivateKeySize))
	}

	payload, err := canonical.CBOR(manifest)
	if err != nil {
		return nil, c2paerr.New(op, c2paerr.KindInvalidPayload, err)
	}

	protected, err := cose.EncodeProtected(signerID)
	if err != nil {
		return nil, c2paerr.New(op, c2paerr.KindInvalidInput, err)
	}

	sigInput, err := cose.SigStructure(protected, payload)
	if err != nil {
		return nil, c2paerr.New(op, c2paerr.KindInvalidInput, err)
	}

	signature := ed25519.Sign(priv, sigInput)

	wire, err := cose.Sign1{Protected: protected, Payload: payload, Signature: signature}.Marshal()
	if err != nil {
		return nil, c2paerr.New(op, c2paerr.KindInvalidInput, err)
	}
	return wire, nil
}

// C2PAVerification is the outcome of a successful VerifyC2PA.
type C2PAVerification struct {
	SignerID string
	Manifest model.C2PAManifest
}

// VerifyC2PA verifies coseBytes and parses the manifest payload. It never
// panics; every failure returns a *c2paerr.Error of an appropriate kind.
func VerifyC2PA(ctx context.Context, coseBytes []byte, resolver keyresolver.Resolver) (C2PAVerification, error) {
	const op = "signing.VerifyC2PA"

	env, err := cose.Unmarshal(coseBytes)
	if err != nil {
		return C2PAVerification{}, c2paerr.New(op, c2paerr.KindMalformedEnvelope, err)
	}

	alg, kid, err := cose.DecodeProtected(env.Protected)
	if err != nil {
		return C2PAVerification{}, c2paerr.New(op, c2paerr.KindMalformedEnvelope, err)
	}
	if alg != cose.AlgEdDSA {
		return C2PAVerification{}, c2paerr.New(op, c2paerr.KindMalformedEnvelope, fmt.Errorf("unsupported COSE algorithm %d", alg))
	}

	key, ok, err := resolver.Resolve(ctx, kid)
	if err != nil {
		return C2PAVerification{}, c2paerr.New(op, c2paerr.KindUnknownSigner, err)
	}
	if !ok {
		return C2PAVerification{}, c2paerr.New(op, c2paerr.KindUnknownSigner, fmt.Errorf("no verification key for signer %q", kid))
	}

	pub, err := key.Ed25519Key()
	if err != nil {
		return C2PAVerification{}, c2paerr.New(op, c2paerr.KindInvalidPublicKey, err)
	}

	sigInput, err := cose.SigStructure(env.Protected, env.Payload)
	if err != nil {
		return C2PAVerification{}, c2paerr.New(op, c2paerr.KindMalformedEnvelope, err)
	}
	if !ed25519.Verify(pub, sigInput, env.Signature) {
		return C2PAVerification{}, c2paerr.New(op, c2paerr.KindBadSignature, nil)
	}

	var manifest model.C2PAManifest
	if err := canonical.DecodeCBOR(env.Payload, &manifest); err != nil {
		return C2PAVerification{}, c2paerr.New(op, c2paerr.KindMalformedEnvelope, err)
	}

	return C2PAVerification{SignerID: kid, Manifest: manifest}, nil
}
