package jumbf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encypherai/c2patext/c2paerr"
	"github.com/encypherai/c2patext/jumbf"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	cose := []byte{0x84, 0x01, 0x02, 0x03, 0x04}
	packed := jumbf.PackManifestStore(cose)

	out, err := jumbf.UnpackManifestStore(packed)
	require.NoError(t, err)
	assert.Equal(t, cose, out)
}

func TestPackUnpackEmptyPayload(t *testing.T) {
	packed := jumbf.PackManifestStore(nil)
	out, err := jumbf.UnpackManifestStore(packed)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestUnpackRejectsTruncated(t *testing.T) {
	packed := jumbf.PackManifestStore([]byte("hello"))
	_, err := jumbf.UnpackManifestStore(packed[:len(packed)-2])
	require.Error(t, err)
	assert.ErrorIs(t, err, c2paerr.ErrCorruptedWrapper)
}

func TestUnpackRejectsWrongSuperboxType(t *testing.T) {
	packed := jumbf.PackManifestStore([]byte("hello"))
	corrupted := append([]byte(nil), packed...)
	copy(corrupted[4:8], []byte("XXXX"))
	_, err := jumbf.UnpackManifestStore(corrupted)
	require.Error(t, err)
	assert.ErrorIs(t, err, c2paerr.ErrCorruptedWrapper)
}

func TestUnpackRejectsBadUUID(t *testing.T) {
	packed := jumbf.PackManifestStore([]byte("hello"))
	corrupted := append([]byte(nil), packed...)
	// description box UUID starts right after the superbox header (8) + description box header (8).
	copy(corrupted[16:32], []byte("0123456789abcdef"))
	_, err := jumbf.UnpackManifestStore(corrupted)
	require.Error(t, err)
	assert.ErrorIs(t, err, c2paerr.ErrCorruptedWrapper)
}
