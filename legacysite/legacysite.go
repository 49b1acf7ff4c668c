// Package legacysite implements the site-selection policy used to embed
// the legacy (Basic / LegacyManifest) signed envelope into text as one or
// more variation-selector runs. Unlike the C2PA wrapper (package wrapper),
// legacy embedding carries no FEFF sentinel or magic header — the
// envelope bytes are self-describing via their format_tag field once
// CBOR-decoded, so the on-text footprint is just the selector run(s)
// themselves.
package legacysite

import (
	"fmt"
	"unicode"

	"github.com/encypherai/c2patext/c2paerr"
	"github.com/encypherai/c2patext/selector"
	"github.com/encypherai/c2patext/wrapper"
)

// Target names a site-selection policy.
type Target int

const (
	Whitespace Target = iota
	Punctuation
	FirstLetterOfWord
	LastLetterOfWord
	AllCharacters
	EndOfText
	EndOfTextFEFF
)

// String names target the way ParseTarget expects to read it back.
func (t Target) String() string {
	switch t {
	case Whitespace:
		return "whitespace"
	case Punctuation:
		return "punctuation"
	case FirstLetterOfWord:
		return "first-letter"
	case LastLetterOfWord:
		return "last-letter"
	case AllCharacters:
		return "all"
	case EndOfText:
		return "end"
	case EndOfTextFEFF:
		return "end-feff"
	default:
		return "unknown"
	}
}

// ParseTarget parses the CLI-facing spelling of a Target, as produced by
// Target.String.
func ParseTarget(name string) (Target, error) {
	switch name {
	case "whitespace":
		return Whitespace, nil
	case "punctuation":
		return Punctuation, nil
	case "first-letter":
		return FirstLetterOfWord, nil
	case "last-letter":
		return LastLetterOfWord, nil
	case "all":
		return AllCharacters, nil
	case "end":
		return EndOfText, nil
	case "end-feff":
		return EndOfTextFEFF, nil
	default:
		return 0, fmt.Errorf("unknown site-selection target %q", name)
	}
}

// site describes one candidate insertion point: the rune index immediately
// after which the payload selectors are inserted.
type site struct {
	afterRune int
}

// findSites returns every rune index matching target, in left-to-right
// order, each value being the index immediately after which to insert.
func findSites(runes []rune, target Target) []site {
	var sites []site
	switch target {
	case Whitespace:
		for i, r := range runes {
			if unicode.IsSpace(r) {
				sites = append(sites, site{i + 1})
			}
		}
	case Punctuation:
		for i, r := range runes {
			if unicode.IsPunct(r) {
				sites = append(sites, site{i + 1})
			}
		}
	case FirstLetterOfWord:
		inWord := false
		for i, r := range runes {
			isLetter := unicode.IsLetter(r)
			if isLetter && !inWord {
				sites = append(sites, site{i + 1})
			}
			inWord = isLetter
		}
	case LastLetterOfWord:
		for i, r := range runes {
			if !unicode.IsLetter(r) {
				continue
			}
			if i+1 == len(runes) || !unicode.IsLetter(runes[i+1]) {
				sites = append(sites, site{i + 1})
			}
		}
	case AllCharacters:
		for i := range runes {
			sites = append(sites, site{i + 1})
		}
	case EndOfText, EndOfTextFEFF:
		sites = append(sites, site{len(runes)})
	}
	return sites
}

// Embed inserts payload into text according to target, in single-site mode
// (the default): the full payload is encoded as one selector run placed
// immediately after the first matching site.
func Embed(text string, target Target, payload []byte) (string, error) {
	const op = "legacysite.Embed"
	runes := []rune(text)

	sites := findSites(runes, target)
	if len(sites) == 0 {
		return "", c2paerr.New(op, c2paerr.KindNoViableSite, fmt.Errorf("no site matches target"))
	}

	return spliceAt(runes, sites[0].afterRune, target, payload), nil
}

// EmbedDistributed splits payload into chunks of at most fanout bytes and
// interleaves one chunk per matching site, in order. At least
// ceil(len(payload)/fanout) sites must exist, or c2paerr.ErrNoViableSite is
// returned.
func EmbedDistributed(text string, target Target, payload []byte, fanout int) (string, error) {
	const op = "legacysite.EmbedDistributed"
	if fanout <= 0 {
		return "", c2paerr.New(op, c2paerr.KindInvalidInput, fmt.Errorf("fanout must be positive, got %d", fanout))
	}
	runes := []rune(text)

	chunks := chunk(payload, fanout)
	sites := findSites(runes, target)
	if len(sites) < len(chunks) {
		return "", c2paerr.New(op, c2paerr.KindNoViableSite,
			fmt.Errorf("need %d sites for fanout %d, found %d", len(chunks), fanout, len(sites)))
	}

	// Splice from the last site backward so earlier offsets stay valid.
	out := append([]rune(nil), runes...)
	for i := len(chunks) - 1; i >= 0; i-- {
		out = spliceRunesAt(out, sites[i].afterRune, target, chunks[i])
	}
	return string(out), nil
}

func chunk(payload []byte, size int) [][]byte {
	var out [][]byte
	for i := 0; i < len(payload); i += size {
		end := i + size
		if end > len(payload) {
			end = len(payload)
		}
		out = append(out, payload[i:end])
	}
	if len(out) == 0 {
		out = append(out, nil)
	}
	return out
}

func spliceAt(runes []rune, at int, target Target, payload []byte) string {
	return string(spliceRunesAt(append([]rune(nil), runes...), at, target, payload))
}

func spliceRunesAt(runes []rune, at int, target Target, payload []byte) []rune {
	ins := make([]rune, 0, len(payload)+1)
	if target == EndOfTextFEFF {
		ins = append(ins, wrapper.Sentinel)
	}
	ins = append(ins, selector.EncodeBytes(payload)...)

	out := make([]rune, 0, len(runes)+len(ins))
	out = append(out, runes[:at]...)
	out = append(out, ins...)
	out = append(out, runes[at:]...)
	return out
}

// Extract scans text left to right for every maximal run of variation
// selectors and concatenates their decoded bytes in order, as
// EmbedDistributed requires. ok is false if no selector run is found
// anywhere in text.
//
// FEFF is treated as an ordinary, non-selector rune here: the
// end-of-text-with-FEFF-prefix target embeds one right before its run, but
// a C2PA wrapper also uses it as its sentinel. Distinguishing the two is
// the caller's job — try wrapper.FindAndDecode first and only fall back to
// Extract on the remaining text when that finds nothing, so a genuine C2PA
// wrapper is never double-counted as a legacy site.
func Extract(text string) (payload []byte, ok bool) {
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		if !selector.IsSelector(runes[i]) {
			i++
			continue
		}
		end := selector.ScanRun(runes, i)
		payload = append(payload, selector.DecodeRun(runes, i, end)...)
		ok = true
		i = end
	}
	return payload, ok
}
