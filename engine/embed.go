// Package engine implements the public Embed/Extract/Verify entry points:
// the single surface callers use to splice a signed payload into text
// and later recover or verify it.
package engine

import (
	"crypto/ed25519"
	"fmt"

	"github.com/encypherai/c2patext/assembler"
	"github.com/encypherai/c2patext/c2paconfig"
	"github.com/encypherai/c2patext/c2paerr"
	"github.com/encypherai/c2patext/canonical"
	"github.com/encypherai/c2patext/legacysite"
	"github.com/encypherai/c2patext/model"
	"github.com/encypherai/c2patext/signing"
	"github.com/encypherai/c2patext/text"
)

// Embed signs payload under signerID with priv and splices the resulting
// envelope into text, returning the new text. format selects which of the
// four wire shapes (basic, manifest-json, manifest-cbor, c2pa) to use;
// payload must match it: model.Basic for FormatBasic, model.LegacyManifest
// for FormatManifestJSON/FormatManifestCBOR, anything (including nil) for
// FormatC2PA, whose content instead comes from opts.
func Embed(input string, format model.Format, payload model.Payload, priv ed25519.PrivateKey, signerID string, opts EmbedOptions) (string, error) {
	const op = "engine.Embed"

	if len(priv) != ed25519.PrivateKeySize {
		return "", c2paerr.New(op, c2paerr.KindInvalidPrivateKey, fmt.Errorf("private key is %d bytes, want %d", len(priv), ed25519.PrivateKeySize))
	}

	if format == model.FormatC2PA {
		return embedC2PA(input, priv, signerID, opts)
	}
	return embedLegacy(input, format, payload, priv, signerID, opts)
}

func embedC2PA(input string, priv ed25519.PrivateKey, signerID string, opts EmbedOptions) (string, error) {
	cfg := opts.resolvedConfig()

	normalized := text.Normalize(input)
	result, err := assembler.Build(normalized, priv, signerID, assembler.Options{
		ClaimGenerator: opts.ClaimGenerator,
		Actions:        opts.Actions,
		AddHardBinding: opts.hardBindingEnabled(cfg),
		AIAssertion:    opts.AIAssertion,
		CustomClaims:   opts.CustomClaims,
		Context:        contextOrDefault(opts.Context, cfg),
	})
	if err != nil {
		return "", err
	}
	return input + result.WrapperText, nil
}

func contextOrDefault(context string, cfg c2paconfig.Config) string {
	if context != "" {
		return context
	}
	return cfg.ContextURL
}

func embedLegacy(input string, format model.Format, payload model.Payload, priv ed25519.PrivateKey, signerID string, opts EmbedOptions) (string, error) {
	const op = "engine.Embed"
	cfg := opts.resolvedConfig()

	payloadBytes, err := serializeLegacyPayload(format, payload, opts.OmitKeys)
	if err != nil {
		return "", err
	}

	env, err := signing.SignLegacy(payloadBytes, priv, signerID, format)
	if err != nil {
		return "", err
	}

	wire, err := signing.EncodeEnvelope(env)
	if err != nil {
		return "", c2paerr.New(op, c2paerr.KindInvalidPayload, err)
	}

	if opts.DistributeAcrossTargets {
		return legacysite.EmbedDistributed(input, opts.Target, wire, cfg.DistributionFanout)
	}
	return legacysite.Embed(input, opts.Target, wire)
}

func serializeLegacyPayload(format model.Format, payload model.Payload, omitKeys []string) ([]byte, error) {
	const op = "engine.Embed"

	switch format {
	case model.FormatBasic:
		basic, ok := payload.(model.Basic)
		if !ok {
			return nil, c2paerr.New(op, c2paerr.KindInvalidPayload, fmt.Errorf("format_basic requires a model.Basic payload"))
		}
		basic = applyOmitKeys(basic, omitKeys)
		return canonical.CBOR(basic)
	case model.FormatManifestJSON:
		manifest, ok := payload.(model.LegacyManifest)
		if !ok {
			return nil, c2paerr.New(op, c2paerr.KindInvalidPayload, fmt.Errorf("manifest-json requires a model.LegacyManifest payload"))
		}
		return canonical.JSON(manifest)
	case model.FormatManifestCBOR:
		manifest, ok := payload.(model.LegacyManifest)
		if !ok {
			return nil, c2paerr.New(op, c2paerr.KindInvalidPayload, fmt.Errorf("manifest-cbor requires a model.LegacyManifest payload"))
		}
		return canonical.CBOR(manifest)
	default:
		return nil, c2paerr.New(op, c2paerr.KindUnsupportedFormat, fmt.Errorf("unsupported format %q", format))
	}
}

// applyOmitKeys strips omitKeys from basic's entire payload shape, not just
// its CustomMetadata map: top-level fields (model_id, organization,
// timestamp, version) are cleared by their wire key the same as nested
// ones, mirroring the original payload-dict-wide recursive strip rather
// than a nested-only one.
func applyOmitKeys(basic model.Basic, omitKeys []string) model.Basic {
	if len(omitKeys) == 0 {
		return basic
	}
	omit := make(map[string]bool, len(omitKeys))
	for _, k := range omitKeys {
		omit[k] = true
	}

	if omit["model_id"] {
		basic.ModelID = nil
	}
	if omit["organization"] {
		basic.Organization = nil
	}
	if omit["timestamp"] {
		basic.Timestamp = nil
	}
	if omit["version"] {
		basic.Version = nil
	}
	if omit["custom_metadata"] {
		basic.CustomMetadata = nil
	} else if len(basic.CustomMetadata) > 0 {
		basic.CustomMetadata, _ = omitKeysRecursive(basic.CustomMetadata, omit).(map[string]any)
	}
	return basic
}

// omitKeysRecursive mirrors the original's whole-payload recursive key
// strip: it walks maps and slices and deletes any map key present in omit
// at every depth, not just the top level of the map it is first called on.
func omitKeysRecursive(v any, omit map[string]bool) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, vv := range val {
			if omit[k] {
				continue
			}
			out[k] = omitKeysRecursive(vv, omit)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, vv := range val {
			out[i] = omitKeysRecursive(vv, omit)
		}
		return out
	default:
		return v
	}
}
