// Package c2paconfig threads the configuration surface explicitly through
// the engine instead of reading environment variables. A process-wide
// default is provided, but every public entry point accepts an override.
package c2paconfig

// Config is the explicit configuration value threaded through every public
// engine entry point.
type Config struct {
	// ContextURL overrides the emitted C2PA @context URL at signing time.
	ContextURL string
	// AcceptedContexts is the allowlist consulted by the verifier.
	AcceptedContexts map[string]bool
	// HardBindingDefault is the default for engine.EmbedOptions.AddHardBinding.
	HardBindingDefault bool
	// DistributionFanout controls legacy distributed-mode site count (k).
	DistributionFanout int
}

const (
	contextV22 = "https://c2pa.org/specifications/specifications/2.2/specs/C2PA_Specification.html"
	contextV23 = "https://c2pa.org/specifications/specifications/2.3/specs/C2PA_Specification.html"
)

// Default returns the documented defaults: both v2.2 and v2.3 canonical
// C2PA context URLs accepted, hard binding on by default, fanout 4.
func Default() Config {
	return Config{
		ContextURL: contextV23,
		AcceptedContexts: map[string]bool{
			contextV22: true,
			contextV23: true,
		},
		HardBindingDefault: true,
		DistributionFanout: 4,
	}
}

// AcceptsContext reports whether url is allowlisted for verification.
func (c Config) AcceptsContext(url string) bool {
	if len(c.AcceptedContexts) == 0 {
		return true
	}
	return c.AcceptedContexts[url]
}

// Streaming returns a copy of c with HardBindingDefault forced off, since
// a streaming session can't compute a hard binding over an unfinished
// text.
func (c Config) Streaming() Config {
	c.HardBindingDefault = false
	return c
}
