package canonical_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encypherai/c2patext/canonical"
)

func TestCBORDeterministic(t *testing.T) {
	type point struct {
		B int    `cbor:"b"`
		A string `cbor:"a"`
	}
	a, err := canonical.CBOR(point{B: 2, A: "x"})
	require.NoError(t, err)
	b, err := canonical.CBOR(point{B: 2, A: "x"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCBORRejectsFloats(t *testing.T) {
	_, err := canonical.CBOR(map[string]any{"x": 1.5})
	require.Error(t, err)
}

func TestJSONCanonicalOrdering(t *testing.T) {
	a, err := canonical.JSON(map[string]any{"b": 1, "a": 2})
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":1}`, string(a))
}

func TestJSONRejectsFloats(t *testing.T) {
	_, err := canonical.JSON(map[string]any{"x": 1.5})
	require.Error(t, err)
}

func TestJSONNoInsignificantWhitespace(t *testing.T) {
	out, err := canonical.JSON(map[string]any{"a": []int{1, 2, 3}})
	require.NoError(t, err)
	assert.NotContains(t, string(out), " ")
	assert.NotContains(t, string(out), "\n")
}
