package engine

import (
	"encoding/json"

	"github.com/opencontainers/go-digest"

	"github.com/encypherai/c2patext/canonical"
	"github.com/encypherai/c2patext/cose"
	"github.com/encypherai/c2patext/jumbf"
	"github.com/encypherai/c2patext/legacysite"
	"github.com/encypherai/c2patext/model"
	"github.com/encypherai/c2patext/signing"
	"github.com/encypherai/c2patext/wrapper"
)

// Extracted is a typed view of whatever payload was found, without any
// signature verification.
type Extracted struct {
	Format         model.Format
	SignerID       string
	Basic          *model.Basic
	LegacyManifest *model.LegacyManifest
	C2PAManifest   *model.C2PAManifest

	// ContentDigest is the "sha256:<hex>" digest of the clean text (the
	// carrier with the wrapper or selector run removed), for callers that
	// want a content-addressable handle on what was actually verified.
	ContentDigest string
}

// Extract returns a typed view of the embedded payload. It never returns an
// error: a missing or malformed payload simply yields ok == false.
func Extract(input string) (Extracted, bool) {
	result, found, err := wrapper.FindAndDecode(input)
	if err != nil {
		// A decodable-but-corrupt or ambiguous wrapper is still a found
		// payload attempt, just a malformed one: no throw, no payload.
		return Extracted{}, false
	}
	if found {
		extracted, ok := extractC2PA(result.ManifestBytes)
		if ok {
			extracted.ContentDigest = digest.FromString(result.CleanText).String()
		}
		return extracted, ok
	}

	// No C2PA wrapper at all: fall back to the legacy selector-run scheme
	// over the original input.
	raw, ok := legacysite.Extract(input)
	if !ok {
		return Extracted{}, false
	}
	extracted, ok := extractLegacy(raw)
	if ok {
		extracted.ContentDigest = digest.FromString(input).String()
	}
	return extracted, ok
}

func extractC2PA(manifestStoreBytes []byte) (Extracted, bool) {
	coseBytes, err := jumbf.UnpackManifestStore(manifestStoreBytes)
	if err != nil {
		return Extracted{}, false
	}
	env, err := cose.Unmarshal(coseBytes)
	if err != nil {
		return Extracted{}, false
	}
	_, kid, err := cose.DecodeProtected(env.Protected)
	if err != nil {
		return Extracted{}, false
	}
	var manifest model.C2PAManifest
	if err := canonical.DecodeCBOR(env.Payload, &manifest); err != nil {
		return Extracted{}, false
	}
	return Extracted{Format: model.FormatC2PA, SignerID: kid, C2PAManifest: &manifest}, true
}

func extractLegacy(raw []byte) (Extracted, bool) {
	env, err := signing.DecodeEnvelope(raw)
	if err != nil {
		return Extracted{}, false
	}

	switch env.FormatTag {
	case model.FormatBasic:
		var basic model.Basic
		if err := canonical.DecodeCBOR(env.PayloadBytes, &basic); err != nil {
			return Extracted{}, false
		}
		return Extracted{Format: env.FormatTag, SignerID: env.SignerID, Basic: &basic}, true
	case model.FormatManifestCBOR:
		var manifest model.LegacyManifest
		if err := canonical.DecodeCBOR(env.PayloadBytes, &manifest); err != nil {
			return Extracted{}, false
		}
		return Extracted{Format: env.FormatTag, SignerID: env.SignerID, LegacyManifest: &manifest}, true
	case model.FormatManifestJSON:
		var manifest model.LegacyManifest
		if err := json.Unmarshal(env.PayloadBytes, &manifest); err != nil {
			return Extracted{}, false
		}
		return Extracted{Format: env.FormatTag, SignerID: env.SignerID, LegacyManifest: &manifest}, true
	default:
		return Extracted{}, false
	}
}
