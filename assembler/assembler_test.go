package assembler_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encypherai/c2patext/assembler"
	"github.com/encypherai/c2patext/model"
)

func genKey(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return priv
}

func TestBuildWithoutHardBinding(t *testing.T) {
	priv := genKey(t)
	result, err := assembler.Build("hello world", priv, "s1", assembler.Options{
		ClaimGenerator: "test/1.0",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.WrapperText)
	assert.NotEmpty(t, result.ManifestStore)
	_, ok := result.Manifest.Assertion(model.AssertionActions)
	assert.True(t, ok)
	_, ok = result.Manifest.Assertion(model.AssertionSoftBind)
	assert.True(t, ok)
	_, ok = result.Manifest.Assertion(model.AssertionHashData)
	assert.False(t, ok)
	require.Len(t, result.Manifest.Actions, 1)
	assert.Equal(t, model.ActionCreated, result.Manifest.Actions[0].Label)
}

func TestBuildWithHardBindingConverges(t *testing.T) {
	priv := genKey(t)
	result, err := assembler.Build("hello world, this is provenance-bearing text", priv, "signer-42", assembler.Options{
		ClaimGenerator: "test/1.0",
		AddHardBinding: true,
	})
	require.NoError(t, err)

	hashAssertion, ok := result.Manifest.Assertion(model.AssertionHashData)
	require.True(t, ok)
	exclusions, ok := hashAssertion.Data["exclusions"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, exclusions, 1)

	declaredLength := exclusions[0]["length"].(int)
	assert.Equal(t, len(result.ManifestStore)+13, declaredLength)
}

func TestBuildUsesFreshInstanceIDEachCall(t *testing.T) {
	priv := genKey(t)
	opts := assembler.Options{ClaimGenerator: "test/1.0", AddHardBinding: true}

	result1, err := assembler.Build("same text", priv, "s1", opts)
	require.NoError(t, err)
	result2, err := assembler.Build("same text", priv, "s1", opts)
	require.NoError(t, err)

	// instance_id is fresh random per Build, so manifests differ, but both
	// must independently converge to a self-consistent exclusion.
	assert.NotEqual(t, result1.Manifest.InstanceID, result2.Manifest.InstanceID)
}

func TestBuildUsesProvidedActions(t *testing.T) {
	priv := genKey(t)
	agent := "my-agent/1.0"
	result, err := assembler.Build("text", priv, "s1", assembler.Options{
		ClaimGenerator: "test/1.0",
		Actions:        []model.Action{{Label: model.ActionEdited, SoftwareAgent: &agent}},
	})
	require.NoError(t, err)
	require.Len(t, result.Manifest.Actions, 1)
	assert.Equal(t, model.ActionEdited, result.Manifest.Actions[0].Label)
}
