package signing_test

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encypherai/c2patext/c2paerr"
	"github.com/encypherai/c2patext/keyresolver"
	"github.com/encypherai/c2patext/model"
	"github.com/encypherai/c2patext/signing"
)

func keyPair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return pub, priv
}

func TestSignVerifyC2PARoundTrip(t *testing.T) {
	pub, priv := keyPair(t)
	resolver := keyresolver.NewInMemory()
	resolver.Register("s1", keyresolver.VerificationKey{PublicKey: pub})

	manifest := model.C2PAManifest{ClaimGenerator: "test/1.0", InstanceID: "abc"}
	coseBytes, err := signing.SignC2PA(manifest, priv, "s1")
	require.NoError(t, err)

	result, err := signing.VerifyC2PA(context.Background(), coseBytes, resolver)
	require.NoError(t, err)
	assert.Equal(t, "s1", result.SignerID)
	assert.Equal(t, manifest.ClaimGenerator, result.Manifest.ClaimGenerator)
}

func TestVerifyC2PAUnknownSigner(t *testing.T) {
	_, priv := keyPair(t)
	resolver := keyresolver.NewInMemory()

	coseBytes, err := signing.SignC2PA(model.C2PAManifest{}, priv, "missing")
	require.NoError(t, err)

	_, err = signing.VerifyC2PA(context.Background(), coseBytes, resolver)
	require.Error(t, err)
	assert.ErrorIs(t, err, c2paerr.ErrUnknownSigner)
}

func TestVerifyC2PABadSignature(t *testing.T) {
	pub, priv := keyPair(t)
	resolver := keyresolver.NewInMemory()
	resolver.Register("s1", keyresolver.VerificationKey{PublicKey: pub})

	coseBytes, err := signing.SignC2PA(model.C2PAManifest{InstanceID: "x"}, priv, "s1")
	require.NoError(t, err)
	coseBytes[len(coseBytes)-1] ^= 0xFF

	_, err = signing.VerifyC2PA(context.Background(), coseBytes, resolver)
	require.Error(t, err)
}

func TestSignC2PARejectsBadKeyLength(t *testing.T) {
	_, err := signing.SignC2PA(model.C2PAManifest{}, []byte("too-short"), "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, c2paerr.ErrInvalidPrivateKey)
}

func TestSignVerifyLegacyRoundTrip(t *testing.T) {
	pub, priv := keyPair(t)
	resolver := keyresolver.NewInMemory()
	resolver.Register("s1", keyresolver.VerificationKey{PublicKey: pub})

	env, err := signing.SignLegacy([]byte("payload"), priv, "s1", model.FormatBasic)
	require.NoError(t, err)

	err = signing.VerifyLegacy(context.Background(), env, resolver)
	assert.NoError(t, err)
}

func TestEncodeDecodeEnvelopeRoundTrip(t *testing.T) {
	_, priv := keyPair(t)
	env, err := signing.SignLegacy([]byte("payload"), priv, "s1", model.FormatManifestCBOR)
	require.NoError(t, err)

	wire, err := signing.EncodeEnvelope(env)
	require.NoError(t, err)

	decoded, err := signing.DecodeEnvelope(wire)
	require.NoError(t, err)
	assert.Equal(t, env, decoded)
}

func TestDecodeEnvelopeRejectsGarbage(t *testing.T) {
	_, err := signing.DecodeEnvelope([]byte{0xFF, 0xFF})
	require.Error(t, err)
	assert.ErrorIs(t, err, c2paerr.ErrMalformedEnvelope)
}

func TestVerifyLegacyBadSignature(t *testing.T) {
	pub, priv := keyPair(t)
	resolver := keyresolver.NewInMemory()
	resolver.Register("s1", keyresolver.VerificationKey{PublicKey: pub})

	env, err := signing.SignLegacy([]byte("payload"), priv, "s1", model.FormatBasic)
	require.NoError(t, err)
	env.PayloadBytes = []byte("tampered")

	err = signing.VerifyLegacy(context.Background(), env, resolver)
	require.Error(t, err)
	assert.ErrorIs(t, err, c2paerr.ErrBadSignature)
}
