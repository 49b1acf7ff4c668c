package cose_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encypherai/c2patext/cose"
)

func TestProtectedHeaderRoundTrip(t *testing.T) {
	b, err := cose.EncodeProtected("signer-1")
	require.NoError(t, err)

	alg, kid, err := cose.DecodeProtected(b)
	require.NoError(t, err)
	assert.Equal(t, int64(cose.AlgEdDSA), alg)
	assert.Equal(t, "signer-1", kid)
}

func TestSign1MarshalUnmarshalRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	_ = pub

	protected, err := cose.EncodeProtected("s1")
	require.NoError(t, err)
	payload := []byte("payload-bytes")

	sig, err := cose.SigStructure(protected, payload)
	require.NoError(t, err)
	signature := ed25519.Sign(priv, sig)

	env := cose.Sign1{Protected: protected, Payload: payload, Signature: signature}
	wire, err := env.Marshal()
	require.NoError(t, err)

	decoded, err := cose.Unmarshal(wire)
	require.NoError(t, err)
	assert.Equal(t, protected, decoded.Protected)
	assert.Equal(t, payload, decoded.Payload)
	assert.Equal(t, signature, decoded.Signature)
}

func TestSigStructureIsDeterministic(t *testing.T) {
	protected, err := cose.EncodeProtected("s1")
	require.NoError(t, err)

	a, err := cose.SigStructure(protected, []byte("x"))
	require.NoError(t, err)
	b, err := cose.SigStructure(protected, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
