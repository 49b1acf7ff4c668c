// Package text implements NFC normalization and exclusion-aware SHA-256
// hashing over the UTF-8 bytes of normalized text, as used for the hard
// binding (c2pa.hash.data.v1). The soft binding digest does not go through
// this package.
package text

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/encypherai/c2patext/c2paerr"
)

// Exclusion is a byte range, in the NFC-normalized UTF-8 byte sequence, to
// remove before hashing.
type Exclusion struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// Normalize returns s in Unicode Normalization Form C.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// UTF8 returns the UTF-8 byte encoding of s.
func UTF8(s string) []byte {
	return []byte(s)
}

// HashResult is the output of Hash.
type HashResult struct {
	Normalized string
	Bytes      []byte
	Hex        string
}

// Hash normalizes text, validates exclusions, removes the union of excluded
// byte ranges, and returns the SHA-256 digest of what remains.
//
// Exclusions must be non-overlapping, within bounds, and supplied in
// ascending order by Start; any violation returns c2paerr.ErrInvalidExclusion.
func Hash(s string, exclusions []Exclusion) (HashResult, error) {
	const op = "text.Hash"

	normalized := Normalize(s)
	raw := UTF8(normalized)

	if err := validateExclusions(exclusions, len(raw)); err != nil {
		return HashResult{}, c2paerr.New(op, c2paerr.KindInvalidExclusion, err)
	}

	filtered := removeExclusions(raw, exclusions)

	sum := sha256.Sum256(filtered)
	return HashResult{
		Normalized: normalized,
		Bytes:      filtered,
		Hex:        hex.EncodeToString(sum[:]),
	}, nil
}

func validateExclusions(exclusions []Exclusion, totalLen int) error {
	prevEnd := -1
	for i, ex := range exclusions {
		if ex.Start < 0 || ex.Length < 0 {
			return errNegativeRange
		}
		end := ex.Start + ex.Length
		// An exclusion anchored exactly at the current buffer end describes
		// bytes appended after hashing (the wrapper's own on-text footprint,
		// sized by a not-yet-final guess): there is nothing there yet to be
		// out of bounds, so only a Start strictly inside the buffer is held
		// to the end <= totalLen bound.
		if end > totalLen && ex.Start != totalLen {
			return errOutOfBounds
		}
		if i > 0 {
			if ex.Start < exclusions[i-1].Start {
				return errUnsorted
			}
			if ex.Start < prevEnd {
				return errOverlap
			}
		}
		prevEnd = end
	}
	return nil
}

func removeExclusions(b []byte, exclusions []Exclusion) []byte {
	if len(exclusions) == 0 {
		return b
	}
	// exclusions are already validated sorted/non-overlapping.
	sorted := exclusions
	out := make([]byte, 0, len(b))
	cursor := 0
	for _, ex := range sorted {
		if ex.Start > cursor {
			out = append(out, b[cursor:ex.Start]...)
		}
		cursor = ex.Start + ex.Length
	}
	if cursor < len(b) {
		out = append(out, b[cursor:]...)
	}
	return out
}

// SortExclusions returns a copy of exclusions sorted ascending by Start, for
// callers assembling exclusion lists from unordered sources.
func SortExclusions(exclusions []Exclusion) []Exclusion {
	out := make([]Exclusion, len(exclusions))
	copy(out, exclusions)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
