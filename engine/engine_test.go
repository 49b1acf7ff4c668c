package engine_test

import (
	"context"
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encypherai/c2patext/c2paconfig"
	"github.com/encypherai/c2patext/engine"
	"github.com/encypherai/c2patext/keyresolver"
	"github.com/encypherai/c2patext/legacysite"
	"github.com/encypherai/c2patext/model"
	"github.com/encypherai/c2patext/wrapper"
)

func genKeyPair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return pub, priv
}

func resolverFor(pub ed25519.PublicKey, signerID string) *keyresolver.InMemory {
	r := keyresolver.NewInMemory()
	r.Register(signerID, keyresolver.VerificationKey{PublicKey: pub})
	return r
}

func TestEmbedVerifyC2PAEmptyText(t *testing.T) {
	pub, priv := genKeyPair(t)
	out, err := engine.Embed("", model.FormatC2PA, nil, priv, "s1", engine.EmbedOptions{
		ClaimGenerator: "test/1.0",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, rune(wrapper.Sentinel), []rune(out)[0])

	valid, signerID, extracted, err := engine.Verify(context.Background(), out, resolverFor(pub, "s1"), engine.VerifyOptions{})
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, "s1", signerID)
	require.NotNil(t, extracted)
	require.NotNil(t, extracted.C2PAManifest)
	_, ok := extracted.C2PAManifest.Assertion(model.AssertionActions)
	assert.True(t, ok)
	_, ok = extracted.C2PAManifest.Assertion(model.AssertionSoftBind)
	assert.True(t, ok)
	_, ok = extracted.C2PAManifest.Assertion(model.AssertionHashData)
	assert.True(t, ok)
	assert.Equal(t, digest.FromString("").String(), extracted.ContentDigest)
}

func TestEmbedVerifyC2PAASCIIRoundTrip(t *testing.T) {
	pub, priv := genKeyPair(t)
	when := "2025-01-01T00:00:00Z"
	out, err := engine.Embed("Hello, world.", model.FormatC2PA, nil, priv, "s1", engine.EmbedOptions{
		ClaimGenerator: "test/1.0",
		Actions:        []model.Action{{Label: model.ActionCreated, When: &when}},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Hello, world."))

	valid, signerID, extracted, err := engine.Verify(context.Background(), out, resolverFor(pub, "s1"), engine.VerifyOptions{})
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, "s1", signerID)
	require.Len(t, extracted.C2PAManifest.Actions, 1)
	assert.Equal(t, when, *extracted.C2PAManifest.Actions[0].When)
}

func TestVerifyDetectsTamperedBody(t *testing.T) {
	pub, priv := genKeyPair(t)
	out, err := engine.Embed("Hello, world.", model.FormatC2PA, nil, priv, "s1", engine.EmbedOptions{
		ClaimGenerator: "test/1.0",
	})
	require.NoError(t, err)

	tampered := strings.Replace(out, "world", "earth", 1)
	valid, _, _, err := engine.Verify(context.Background(), tampered, resolverFor(pub, "s1"), engine.VerifyOptions{})
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyDetectsTamperedWrapper(t *testing.T) {
	pub, priv := genKeyPair(t)
	out, err := engine.Embed("Hello, world.", model.FormatC2PA, nil, priv, "s1", engine.EmbedOptions{
		ClaimGenerator: "test/1.0",
	})
	require.NoError(t, err)

	runes := []rune(out)
	lastByte, ok := decodeLastSelector(runes)
	require.True(t, ok)
	_ = lastByte

	// Flip the last selector to a different, still-valid selector.
	runes[len(runes)-1] = flipSelector(runes[len(runes)-1])
	tampered := string(runes)

	valid, _, _, err := engine.Verify(context.Background(), tampered, resolverFor(pub, "s1"), engine.VerifyOptions{})
	require.NoError(t, err)
	assert.False(t, valid)
}

func decodeLastSelector(runes []rune) (rune, bool) {
	if len(runes) == 0 {
		return 0, false
	}
	return runes[len(runes)-1], true
}

func flipSelector(r rune) rune {
	if r == 0xFE00 || r == 0xE0100 {
		return r + 1
	}
	return r - 1
}

func TestExtractNeverErrorsOnPlainText(t *testing.T) {
	_, ok := engine.Extract("just some ordinary text")
	assert.False(t, ok)
}

func TestVerifyFalseOnPlainText(t *testing.T) {
	pub, _ := genKeyPair(t)
	valid, _, _, err := engine.Verify(context.Background(), "just plain text", resolverFor(pub, "s1"), engine.VerifyOptions{})
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestEmbedVerifyBasicPayload(t *testing.T) {
	pub, priv := genKeyPair(t)
	modelID := "model-x"
	out, err := engine.Embed("some plain text here", model.FormatBasic, model.Basic{ModelID: &modelID}, priv, "s1", engine.EmbedOptions{
		Target: legacysite.Whitespace,
	})
	require.NoError(t, err)

	valid, signerID, extracted, err := engine.Verify(context.Background(), out, resolverFor(pub, "s1"), engine.VerifyOptions{})
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, "s1", signerID)
	require.NotNil(t, extracted.Basic)
	assert.Equal(t, modelID, *extracted.Basic.ModelID)
}

func TestEmbedBasicOmitsKeys(t *testing.T) {
	_, priv := genKeyPair(t)
	out, err := engine.Embed("some plain text here", model.FormatBasic,
		model.Basic{CustomMetadata: map[string]any{"keep": "yes", "drop": "no"}},
		priv, "s1", engine.EmbedOptions{
			Target:   legacysite.Whitespace,
			OmitKeys: []string{"drop"},
		})
	require.NoError(t, err)

	extracted, ok := engine.Extract(out)
	require.True(t, ok)
	require.NotNil(t, extracted.Basic)
	_, hasDrop := extracted.Basic.CustomMetadata["drop"]
	assert.False(t, hasDrop)
	assert.Equal(t, "yes", extracted.Basic.CustomMetadata["keep"])
}

func TestEmbedBasicOmitsTopLevelField(t *testing.T) {
	_, priv := genKeyPair(t)
	org := "acme corp"
	out, err := engine.Embed("some plain text here", model.FormatBasic,
		model.Basic{Organization: &org, CustomMetadata: map[string]any{"keep": "yes"}},
		priv, "s1", engine.EmbedOptions{
			Target:   legacysite.Whitespace,
			OmitKeys: []string{"organization"},
		})
	require.NoError(t, err)

	extracted, ok := engine.Extract(out)
	require.True(t, ok)
	require.NotNil(t, extracted.Basic)
	assert.Nil(t, extracted.Basic.Organization)
	assert.Equal(t, "yes", extracted.Basic.CustomMetadata["keep"])
}

func TestVerifyRejectsUnacceptedContext(t *testing.T) {
	pub, priv := genKeyPair(t)
	out, err := engine.Embed("hello", model.FormatC2PA, nil, priv, "s1", engine.EmbedOptions{
		ClaimGenerator: "test/1.0",
		Context:        "https://example.com/not-an-accepted-context",
	})
	require.NoError(t, err)

	valid, signerID, extracted, err := engine.Verify(context.Background(), out, resolverFor(pub, "s1"), engine.VerifyOptions{})
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Equal(t, "s1", signerID)
	require.NotNil(t, extracted)

	// An explicit allowlist containing the custom context accepts it.
	valid, _, _, err = engine.Verify(context.Background(), out, resolverFor(pub, "s1"), engine.VerifyOptions{
		Config: c2paconfig.Config{AcceptedContexts: map[string]bool{"https://example.com/not-an-accepted-context": true}},
	})
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestEmbedVerifyLegacyManifestJSON(t *testing.T) {
	pub, priv := genKeyPair(t)
	manifest := model.LegacyManifest{
		ClaimGenerator: "test/1.0",
		Assertions:     []model.LegacyAssertion{{Label: "c2pa.created", Data: map[string]any{"x": "y"}}},
	}
	out, err := engine.Embed("a legacy sentence.", model.FormatManifestJSON, manifest, priv, "s1", engine.EmbedOptions{
		Target: legacysite.EndOfText,
	})
	require.NoError(t, err)

	valid, _, extracted, err := engine.Verify(context.Background(), out, resolverFor(pub, "s1"), engine.VerifyOptions{})
	require.NoError(t, err)
	assert.True(t, valid)
	require.NotNil(t, extracted.LegacyManifest)
	assert.Equal(t, "test/1.0", extracted.LegacyManifest.ClaimGenerator)
}

func TestEmbedVerifyLegacyDistributed(t *testing.T) {
	pub, priv := genKeyPair(t)
	manifest := model.LegacyManifest{ClaimGenerator: "test/1.0"}
	// The signed envelope is 112 bytes; at the default fanout of 4 bytes per
	// site that needs 28 whitespace sites, so the text carries 30.
	sample := strings.Repeat("one two three four five six seven eight nine ten ", 3)
	out, err := engine.Embed(sample, model.FormatManifestCBOR, manifest, priv, "s1", engine.EmbedOptions{
		Target:                  legacysite.Whitespace,
		DistributeAcrossTargets: true,
	})
	require.NoError(t, err)

	valid, _, extracted, err := engine.Verify(context.Background(), out, resolverFor(pub, "s1"), engine.VerifyOptions{})
	require.NoError(t, err)
	assert.True(t, valid)
	require.NotNil(t, extracted.LegacyManifest)
}

func TestEmbedRejectsBadPrivateKey(t *testing.T) {
	_, err := engine.Embed("text", model.FormatC2PA, nil, []byte("short"), "s1", engine.EmbedOptions{})
	require.Error(t, err)
}
