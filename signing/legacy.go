package signing

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/encypherai/c2patext/c2paerr"
	"github.com/encypherai/c2patext/canonical"
	"github.com/encypherai/c2patext/keyresolver"
	"github.com/encypherai/c2patext/model"
)

// LegacyEnvelope is the signed shape for Basic/LegacyManifest payloads:
// {payload_bytes, signature, signer_id, format_tag}.
type LegacyEnvelope struct {
	PayloadBytes []byte
	Signature    []byte
	SignerID     string
	FormatTag    model.Format
}

// legacyEnvelopeArray mirrors LegacyEnvelope as a toarray-tagged struct, the
// on-text wire shape for the envelope once it is split across legacy
// selector sites.
type legacyEnvelopeArray struct {
	_            struct{} `cbor:",toarray"`
	PayloadBytes []byte
	Signature    []byte
	SignerID     string
	FormatTag    string
}

// EncodeEnvelope canonically CBOR-encodes env for embedding via legacysite.
func EncodeEnvelope(env LegacyEnvelope) ([]byte, error) {
	return canonical.CBOR(legacyEnvelopeArray{
		PayloadBytes: env.PayloadBytes,
		Signature:    env.Signature,
		SignerID:     env.SignerID,
		FormatTag:    string(env.FormatTag),
	})
}

// DecodeEnvelope parses the wire bytes produced by EncodeEnvelope.
func DecodeEnvelope(b []byte) (LegacyEnvelope, error) {
	var arr legacyEnvelopeArray
	if err := canonical.DecodeCBOR(b, &arr); err != nil {
		return LegacyEnvelope{}, c2paerr.New("signing.DecodeEnvelope", c2paerr.KindMalformedEnvelope, err)
	}
	return LegacyEnvelope{
		PayloadBytes: arr.PayloadBytes,
		Signature:    arr.Signature,
		SignerID:     arr.SignerID,
		FormatTag:    model.Format(arr.FormatTag),
	}, nil
}

func legacyMessage(formatTag model.Format, payload []byte) []byte {
	msg := make([]byte, 0, len(formatTag)+1+len(payload))
	msg = append(msg, []byte(formatTag)...)
	msg = append(msg, 0x00)
	msg = append(msg, payload...)
	return msg
}

// SignLegacy signs payloadBytes for formatTag, returning the envelope.
func SignLegacy(payloadBytes []byte, priv ed25519.PrivateKey, signerID string, formatTag model.Format) (LegacyEnvelope, error) {
	const op = "signing.SignLegacy"
	if len(priv) != ed25519.PrivateKeySize {
		return LegacyEnvelope{}, c2paerr.New(op, c2paerr.KindInvalidPrivateKey, fmt.Errorf("private key is %d bytes, want %d", len(priv), ed25519.PrivateKeySize))
	}
	sig := ed25519.Sign(priv, legacyMessage(formatTag, payloadBytes))
	return LegacyEnvelope{
		PayloadBytes: payloadBytes,
		Signature:    sig,
		SignerID:     signerID,
		FormatTag:    formatTag,
	}, nil
}

// VerifyLegacy verifies env's signature against the key resolver.
func VerifyLegacy(ctx context.Context, env LegacyEnvelope, resolver keyresolver.Resolver) error {
	const op = "signing.VerifyLegacy"

	key, ok, err := resolver.Resolve(ctx, env.SignerID)
	if err != nil {
		return c2paerr.New(op, c2paerr.KindUnknownSigner, err)
	}
	if !ok {
		return c2paerr.New(op, c2paerr.KindUnknownSigner, fmt.Errorf("no verification key for signer %q", env.SignerID))
	}

	pub, err := key.Ed25519Key()
	if err != nil {
		return c2paerr.New(op, c2paerr.KindInvalidPublicKey, err)
	}

	if !ed25519.Verify(pub, legacyMessage(env.FormatTag, env.PayloadBytes), env.Signature) {
		return c2paerr.New(op, c2paerr.KindBadSignature, nil)
	}
	return nil
}
