// Package wrapper implements the C2PATextManifestWrapper: a U+FEFF
// sentinel followed by a run of variation selectors encoding
// H || M, where H is a 13-byte header (magic, version, length) and M is
// the JUMBF-wrapped manifest store.
package wrapper

import (
	"encoding/binary"
	"fmt"

	"github.com/encypherai/c2patext/c2paerr"
	"github.com/encypherai/c2patext/selector"
)

const (
	// Sentinel precedes every wrapper's selector run.
	Sentinel = '\uFEFF'
	// Version is the only wrapper version this module understands.
	Version = 1
	// HeaderSize is len(Magic) + 1 version byte + 4 length bytes.
	HeaderSize = 13
)

// Magic is the 8-byte wrapper header tag, "C2PATXT\0".
var Magic = [8]byte{'C', '2', 'P', 'A', 'T', 'X', 'T', 0x00}

// MaxManifestLen is the largest manifest store length the 32-bit length
// field in H can represent.
const MaxManifestLen = 1<<32 - 1

// Result is the outcome of a successful FindAndDecode.
type Result struct {
	// ManifestBytes is M, the JUMBF manifest store payload.
	ManifestBytes []byte
	// CleanText is the input with the wrapper removed.
	CleanText string
	// SpanStart/SpanEnd are the code-point (rune) indices of the wrapper
	// within the original input, SpanEnd exclusive.
	SpanStart, SpanEnd int
}

// Encode builds "FEFF || V*" encoding H || manifestStore.
func Encode(manifestStore []byte) (string, error) {
	const op = "wrapper.Encode"
	if len(manifestStore) > MaxManifestLen {
		return "", c2paerr.New(op, c2paerr.KindInvalidInput, fmt.Errorf("manifest store is %d bytes, exceeds max %d", len(manifestStore), MaxManifestLen))
	}

	header := make([]byte, 0, HeaderSize)
	header = append(header, Magic[:]...)
	header = append(header, byte(Version))
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(manifestStore)))
	header = append(header, lenBuf...)

	full := append(header, manifestStore...)
	runes := make([]rune, 0, 1+len(full))
	runes = append(runes, Sentinel)
	runes = append(runes, selector.EncodeBytes(full)...)
	return string(runes), nil
}

// FindAndDecode scans s for a single decodable wrapper. If none is found,
// it returns a zero Result and a nil error (no wrapper is not an error at
// this layer). If more than one decodable wrapper is found,
// c2paerr.ErrMultipleWrappers is returned.
func FindAndDecode(s string) (Result, bool, error) {
	const op = "wrapper.FindAndDecode"
	runes := []rune(s)

	found := false
	var result Result

	i := 0
	for i < len(runes) {
		if runes[i] != Sentinel {
			i++
			continue
		}
		runStart := i + 1
		runEnd := selector.ScanRun(runes, runStart)

		decoded, ok, err := tryDecode(runes, runStart, runEnd)
		if err != nil {
			return Result{}, false, c2paerr.New(op, c2paerr.KindCorruptedWrapper, err)
		}
		if ok {
			if found {
				return Result{}, false, c2paerr.New(op, c2paerr.KindMultipleWrappers, fmt.Errorf("more than one decodable wrapper found"))
			}
			found = true
			pre := string(runes[:i])
			post := string(runes[runEnd:])
			result = Result{
				ManifestBytes: decoded,
				CleanText:     pre + post,
				SpanStart:     i,
				SpanEnd:       runEnd,
			}
			i = runEnd
			continue
		}
		i++
	}

	if !found {
		return Result{}, false, nil
	}
	return result, true, nil
}

// tryDecode attempts to decode runes[start:end] as a wrapper body (H||M).
// ok is false (no error) when the run is simply too short to be a header —
// that is not itself corruption, just "not a wrapper here". Once a magic
// match is found, subsequent structural violations are reported as errors.
func tryDecode(runes []rune, start, end int) (manifest []byte, ok bool, err error) {
	if end-start < HeaderSize {
		return nil, false, nil
	}
	body := selector.DecodeRun(runes, start, end)

	var magic [8]byte
	copy(magic[:], body[:8])
	if magic != Magic {
		return nil, false, nil
	}

	version := body[8]
	if version != Version {
		return nil, false, fmt.Errorf("unsupported wrapper version %d", version)
	}

	length := binary.BigEndian.Uint32(body[9:13])
	if int(HeaderSize)+int(length) != len(body) {
		return nil, false, fmt.Errorf("wrapper declares manifest length %d, run carries %d bytes", length, len(body)-HeaderSize)
	}

	out := make([]byte, length)
	copy(out, body[HeaderSize:])
	return out, true, nil
}
