package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encypherai/c2patext/selector"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for b := 0; b <= 255; b++ {
		r := selector.Encode(byte(b))
		got, ok := selector.Decode(r)
		require.True(t, ok, "byte %d did not decode back", b)
		assert.Equal(t, byte(b), got)
	}
}

func TestDecodeRejectsNonSelectors(t *testing.T) {
	for _, r := range []rune{'a', ' ', 0xFEFF, 0x1F600} {
		_, ok := selector.Decode(r)
		assert.False(t, ok, "rune %U should not decode as a selector", r)
	}
}

func TestScanRunStopsAtNonSelector(t *testing.T) {
	rs := []rune{selector.Encode(1), selector.Encode(2), 'x', selector.Encode(3)}
	end := selector.ScanRun(rs, 0)
	assert.Equal(t, 2, end)

	end = selector.ScanRun(rs, 2)
	assert.Equal(t, 2, end, "non-selector start yields empty run")
}

func TestEncodeBytesDecodeRun(t *testing.T) {
	in := []byte{0, 1, 15, 16, 17, 255}
	rs := selector.EncodeBytes(in)
	end := selector.ScanRun(rs, 0)
	require.Equal(t, len(rs), end)
	out := selector.DecodeRun(rs, 0, end)
	assert.Equal(t, in, out)
}
