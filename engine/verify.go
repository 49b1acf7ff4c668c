package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"unicode/utf8"

	"github.com/opencontainers/go-digest"

	"github.com/encypherai/c2patext/c2paerr"
	"github.com/encypherai/c2patext/canonical"
	"github.com/encypherai/c2patext/jumbf"
	"github.com/encypherai/c2patext/keyresolver"
	"github.com/encypherai/c2patext/legacysite"
	"github.com/encypherai/c2patext/model"
	"github.com/encypherai/c2patext/signing"
	"github.com/encypherai/c2patext/text"
	"github.com/encypherai/c2patext/wrapper"
)

// Verify checks the signed payload embedded in input against resolver,
// re-deriving soft and (when enabled) hard bindings. It never returns an
// error for a malformed or absent payload — failures surface as a false
// verdict, carrying the envelope's signer id whenever the envelope could
// be parsed — except for InvalidInput (input that is not valid UTF-8),
// which propagates directly to the caller.
func Verify(ctx context.Context, input string, resolver keyresolver.Resolver, opts VerifyOptions) (bool, string, *Extracted, error) {
	if !utf8.ValidString(input) {
		return false, "", nil, c2paerr.New("engine.Verify", c2paerr.KindInvalidInput, nil)
	}
	result, found, err := wrapper.FindAndDecode(input)
	if err != nil {
		// CorruptedWrapper or MultipleWrappers: a false verdict, not a
		// thrown error.
		return false, "", nil, nil
	}
	if found {
		return verifyC2PA(ctx, result, resolver, opts)
	}

	raw, ok := legacysite.Extract(input)
	if !ok {
		return false, "", nil, nil
	}
	return verifyLegacy(ctx, raw, input, resolver, opts)
}

func verifyC2PA(ctx context.Context, wrapped wrapper.Result, resolver keyresolver.Resolver, opts VerifyOptions) (bool, string, *Extracted, error) {
	coseBytes, err := jumbf.UnpackManifestStore(wrapped.ManifestBytes)
	if err != nil {
		return false, "", nil, nil
	}

	verification, err := signing.VerifyC2PA(ctx, coseBytes, resolver)
	if err != nil {
		payload := maybeExtractedC2PA(wrapped.ManifestBytes, opts)
		return false, verification.SignerID, payload, nil
	}
	manifest := verification.Manifest

	if !opts.resolvedConfig().AcceptsContext(manifest.Context) {
		// C2PA_ACCEPTED_CONTEXTS allowlist rejection, surfaced only as a
		// false verdict, never a thrown error.
		return false, verification.SignerID, extractedC2PA(manifest, wrapped.CleanText), nil
	}

	softAssertion, ok := manifest.Assertion(model.AssertionSoftBind)
	if !ok {
		return false, verification.SignerID, extractedC2PA(manifest, wrapped.CleanText), nil
	}
	expectedSoftHash, _ := softAssertion.Data["hash"].(string)
	actualSoftHash, err := recomputeSoftBinding(manifest.Actions)
	if err != nil || expectedSoftHash != actualSoftHash {
		// c2paerr.KindSoftBindingMismatch, surfaced only as a false
		// verdict, never a thrown error.
		return false, verification.SignerID, extractedC2PA(manifest, wrapped.CleanText), nil
	}

	if opts.requireHardBinding() {
		hashAssertion, ok := manifest.Assertion(model.AssertionHashData)
		if !ok {
			return false, verification.SignerID, extractedC2PA(manifest, wrapped.CleanText), nil
		}
		valid, err := checkHardBinding(wrapped, hashAssertion)
		if err != nil || !valid {
			return false, verification.SignerID, extractedC2PA(manifest, wrapped.CleanText), nil
		}
	}

	return true, verification.SignerID, extractedC2PA(manifest, wrapped.CleanText), nil
}

// recomputeSoftBinding mirrors assembler's soft-binding digest: SHA-256 of
// the actions list's canonical CBOR encoding.
func recomputeSoftBinding(actions []model.Action) (string, error) {
	raw, err := canonical.CBOR(actions)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// checkHardBinding recomputes the SHA-256 over the clean text (the wrapper
// span already removed) under the recorded exclusions and compares it
// against the manifest's recorded hash.
func checkHardBinding(wrapped wrapper.Result, hashAssertion model.Assertion) (bool, error) {
	expectedHex, _ := hashAssertion.Data["hash"].(string)

	exclusions, err := decodeExclusions(hashAssertion.Data["exclusions"])
	if err != nil {
		return false, err
	}

	result, err := text.Hash(wrapped.CleanText, exclusions)
	if err != nil {
		return false, err
	}
	return result.Hex == expectedHex, nil
}

// decodeExclusions accepts either the []map[string]any shape produced
// in-process by model.NewHashDataAssertion or the []any/map[string]any
// shape a CBOR/JSON round trip produces, since a verified manifest always
// comes back through one of those decoders.
func decodeExclusions(raw any) ([]text.Exclusion, error) {
	var maps []map[string]any
	switch items := raw.(type) {
	case []map[string]any:
		maps = items
	case []any:
		maps = make([]map[string]any, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, c2paerr.New("engine.decodeExclusions", c2paerr.KindInvalidExclusion, nil)
			}
			maps = append(maps, m)
		}
	default:
		return nil, c2paerr.New("engine.decodeExclusions", c2paerr.KindInvalidExclusion, nil)
	}

	out := make([]text.Exclusion, 0, len(maps))
	for _, m := range maps {
		start, _ := toInt(m["start"])
		length, _ := toInt(m["length"])
		out = append(out, text.Exclusion{Start: start, Length: length})
	}
	return out, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	default:
		return 0, false
	}
}

func verifyLegacy(ctx context.Context, raw []byte, input string, resolver keyresolver.Resolver, opts VerifyOptions) (bool, string, *Extracted, error) {
	env, err := signing.DecodeEnvelope(raw)
	if err != nil {
		return false, "", nil, nil
	}
	if err := signing.VerifyLegacy(ctx, env, resolver); err != nil {
		return false, env.SignerID, nil, nil
	}
	extracted, ok := extractLegacy(raw)
	if !ok {
		return true, env.SignerID, nil, nil
	}
	extracted.ContentDigest = digest.FromString(input).String()
	return true, env.SignerID, &extracted, nil
}

func maybeExtractedC2PA(manifestStoreBytes []byte, opts VerifyOptions) *Extracted {
	if !opts.ReturnPayloadOnFailure {
		return nil
	}
	extracted, ok := extractC2PA(manifestStoreBytes)
	if !ok {
		return nil
	}
	return &extracted
}

func extractedC2PA(manifest model.C2PAManifest, cleanText string) *Extracted {
	return &Extracted{Format: model.FormatC2PA, C2PAManifest: &manifest, ContentDigest: digest.FromString(cleanText).String()}
}
