package engine

import (
	"github.com/encypherai/c2patext/c2paconfig"
	"github.com/encypherai/c2patext/legacysite"
	"github.com/encypherai/c2patext/model"
)

// EmbedOptions configures Embed. The zero value is valid and yields
// sensible defaults for every field.
type EmbedOptions struct {
	// AddHardBinding enables the c2pa.hash.data.v1 fixed-point loop for
	// format_c2pa. Ignored for legacy formats. Nil means "use Config's
	// HardBindingDefault".
	AddHardBinding *bool
	// Target selects the legacy site-selection policy. Ignored for
	// format_c2pa, which always appends the wrapper as a suffix.
	Target legacysite.Target
	// DistributeAcrossTargets enables legacy distributed-mode embedding.
	DistributeAcrossTargets bool
	// OmitKeys removes the named keys from a Basic payload before signing:
	// top-level fields by their wire key (model_id, organization,
	// timestamp, version, custom_metadata) and matching keys at any depth
	// inside CustomMetadata.
	OmitKeys []string
	// ClaimGenerator, Actions, AIAssertion, CustomClaims, Context feed the
	// C2PA manifest assembler. Ignored for legacy formats.
	ClaimGenerator string
	Actions        []model.Action
	AIAssertion    map[string]any
	CustomClaims   map[string]any
	Context        string
	// Config is the explicit configuration surface. The zero value falls
	// back to c2paconfig.Default().
	Config c2paconfig.Config
}

// resolvedConfig falls back to c2paconfig.Default() when the caller left
// Config at its zero value (maps aren't comparable, so this checks the
// three scalar/map fields that Default() always populates).
func (o EmbedOptions) resolvedConfig() c2paconfig.Config {
	cfg := o.Config
	if cfg.DistributionFanout == 0 && cfg.ContextURL == "" && len(cfg.AcceptedContexts) == 0 {
		cfg = c2paconfig.Default()
	}
	return cfg
}

func (o EmbedOptions) hardBindingEnabled(cfg c2paconfig.Config) bool {
	if o.AddHardBinding != nil {
		return *o.AddHardBinding
	}
	return cfg.HardBindingDefault
}

// VerifyOptions configures Verify.
type VerifyOptions struct {
	// RequireHardBinding defaults to true; must be disabled for streamed
	// content, which cannot carry a hard binding.
	RequireHardBinding *bool
	// ReturnPayloadOnFailure controls whether the payload is returned
	// alongside a false verdict when a C2PA signature fails to verify. Once
	// a C2PA signature verifies, a failed context, soft-binding or
	// hard-binding check returns the parsed manifest whatever this field
	// says; a legacy payload whose signature fails is never returned.
	ReturnPayloadOnFailure bool
	Config                 c2paconfig.Config
}

func (o VerifyOptions) requireHardBinding() bool {
	if o.RequireHardBinding != nil {
		return *o.RequireHardBinding
	}
	return true
}

// resolvedConfig falls back to c2paconfig.Default() the same way
// EmbedOptions.resolvedConfig does, for the same zero-value reason.
func (o VerifyOptions) resolvedConfig() c2paconfig.Config {
	cfg := o.Config
	if cfg.DistributionFanout == 0 && cfg.ContextURL == "" && len(cfg.AcceptedContexts) == 0 {
		cfg = c2paconfig.Default()
	}
	return cfg
}
