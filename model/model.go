// Package model defines the three payload shapes this engine can embed and
// sign — Basic, LegacyManifest, and C2PAManifest — along with the assertion
// and action types the C2PA manifest assembler builds.
package model

// Format names a signed-envelope shape. It doubles as the legacy envelope's
// format_tag.
type Format string

const (
	FormatBasic        Format = "basic"
	FormatManifestJSON Format = "manifest-json"
	FormatManifestCBOR Format = "manifest-cbor"
	FormatC2PA         Format = "c2pa"
)

// Payload is implemented by every embeddable payload shape. It is a closed
// sum type over exactly the three variants defined in this package —
// deliberately not a dynamically registered scheme, since no plugin
// surface is required.
type Payload interface {
	// FormatTag returns this payload's natural default Format. Callers of
	// engine.Embed may still request a different Format for LegacyManifest
	// (manifest-json vs manifest-cbor serialization).
	FormatTag() Format
}

// Basic is a flat key/value payload. All fields are optional.
type Basic struct {
	ModelID        *string        `json:"model_id,omitempty" cbor:"model_id,omitempty"`
	Organization   *string        `json:"organization,omitempty" cbor:"organization,omitempty"`
	CustomMetadata map[string]any `json:"custom_metadata,omitempty" cbor:"custom_metadata,omitempty"`
	Timestamp      any            `json:"timestamp,omitempty" cbor:"timestamp,omitempty"`
	Version        *string        `json:"version,omitempty" cbor:"version,omitempty"`
}

func (Basic) FormatTag() Format { return FormatBasic }

// LegacyAssertion is one entry in a LegacyManifest's assertions list.
type LegacyAssertion struct {
	Label string         `json:"label" cbor:"label"`
	When  *string        `json:"when,omitempty" cbor:"when,omitempty"`
	Data  map[string]any `json:"data" cbor:"data"`
}

// LegacyManifest is the legacy JSON/CBOR manifest payload.
type LegacyManifest struct {
	ClaimGenerator string            `json:"claim_generator" cbor:"claim_generator"`
	Assertions     []LegacyAssertion `json:"assertions,omitempty" cbor:"assertions,omitempty"`
	AIAssertion    map[string]any    `json:"ai_assertion,omitempty" cbor:"ai_assertion,omitempty"`
	CustomClaims   map[string]any    `json:"custom_claims,omitempty" cbor:"custom_claims,omitempty"`
	Timestamp      *string           `json:"timestamp,omitempty" cbor:"timestamp,omitempty"`
}

// FormatTag defaults to manifest-json; engine.Embed may be asked for
// manifest-cbor instead for the same struct.
func (LegacyManifest) FormatTag() Format { return FormatManifestJSON }

// ActionLabel names a well-known C2PA action label as a closed constant
// set instead of a bare string.
type ActionLabel = string

const (
	ActionCreated    ActionLabel = "c2pa.created"
	ActionEdited     ActionLabel = "c2pa.edited"
	ActionPublished  ActionLabel = "c2pa.published"
	ActionRepackaged ActionLabel = "c2pa.repackaged"
	ActionPlaced     ActionLabel = "c2pa.placed"
	ActionUnknown    ActionLabel = "c2pa.unknown"
)

// Action is one entry of a C2PA manifest's actions list.
type Action struct {
	Label         ActionLabel `json:"label" cbor:"label"`
	SoftwareAgent *string     `json:"softwareAgent,omitempty" cbor:"softwareAgent,omitempty"`
	When          *string     `json:"when,omitempty" cbor:"when,omitempty"`
	Description   *string     `json:"description,omitempty" cbor:"description,omitempty"`
}

// Well-known C2PA assertion labels.
const (
	AssertionActions  = "c2pa.actions.v1"
	AssertionSoftBind = "c2pa.soft_binding.v1"
	AssertionHashData = "c2pa.hash.data.v1"
)

// Assertion is one entry of a C2PA manifest's assertions list.
type Assertion struct {
	Label string         `json:"label" cbor:"label"`
	Data  map[string]any `json:"data" cbor:"data"`
}

// NewActionsAssertion builds the c2pa.actions.v1 assertion.
func NewActionsAssertion(actions []Action) Assertion {
	raw := make([]map[string]any, 0, len(actions))
	for _, a := range actions {
		m := map[string]any{"label": a.Label}
		if a.SoftwareAgent != nil {
			m["softwareAgent"] = *a.SoftwareAgent
		}
		if a.When != nil {
			m["when"] = *a.When
		}
		if a.Description != nil {
			m["description"] = *a.Description
		}
		raw = append(raw, m)
	}
	return Assertion{Label: AssertionActions, Data: map[string]any{"actions": raw}}
}

// NewSoftBindingAssertion builds the c2pa.soft_binding.v1 assertion over an
// actions-list digest.
func NewSoftBindingAssertion(hashHex string) Assertion {
	return Assertion{
		Label: AssertionSoftBind,
		Data: map[string]any{
			"alg":          "sha256",
			"hash":         hashHex,
			"algorithm_id": "encypher.unicode_variation_selector.v1",
		},
	}
}

// ExclusionRange mirrors text.Exclusion for wire purposes, avoiding an
// import of the text package from model (kept dependency-free so the
// payload models can be used without pulling in the hashing stack).
type ExclusionRange struct {
	Start  int `json:"start" cbor:"start"`
	Length int `json:"length" cbor:"length"`
}

// NewHashDataAssertion builds the c2pa.hash.data.v1 hard-binding assertion.
func NewHashDataAssertion(hashHex string, exclusions []ExclusionRange) Assertion {
	raw := make([]map[string]any, 0, len(exclusions))
	for _, e := range exclusions {
		raw = append(raw, map[string]any{"start": e.Start, "length": e.Length})
	}
	return Assertion{
		Label: AssertionHashData,
		Data: map[string]any{
			"alg":        "sha256",
			"hash":       hashHex,
			"exclusions": raw,
		},
	}
}

// C2PAManifest is the primary payload shape: a claim generator, an actions
// list, an assertion graph, and a stable instance id.
type C2PAManifest struct {
	Context        string         `json:"@context,omitempty" cbor:"@context,omitempty"`
	ClaimGenerator string         `json:"claim_generator" cbor:"claim_generator"`
	Actions        []Action       `json:"actions" cbor:"actions"`
	Assertions     []Assertion    `json:"assertions" cbor:"assertions"`
	InstanceID     string         `json:"instance_id" cbor:"instance_id"`
	AIAssertion    map[string]any `json:"ai_assertion,omitempty" cbor:"ai_assertion,omitempty"`
	CustomClaims   map[string]any `json:"custom_claims,omitempty" cbor:"custom_claims,omitempty"`
}

func (C2PAManifest) FormatTag() Format { return FormatC2PA }

// Assertion looks up an assertion by label, returning a zero Assertion and
// false if absent.
func (m C2PAManifest) Assertion(label string) (Assertion, bool) {
	for _, a := range m.Assertions {
		if a.Label == label {
			return a, true
		}
	}
	return Assertion{}, false
}

// AIAssertionInfo is the typed shape of the ai_assertion map slot. The
// wire representation remains the generic map; ToMap/AIAssertionInfoFromMap
// convert losslessly.
type AIAssertionInfo struct {
	Generator    string  `json:"generator"`
	ModelName    *string `json:"model_name,omitempty"`
	ModelVersion *string `json:"model_version,omitempty"`
}

// ToMap converts a to the generic map[string]any wire shape.
func (a AIAssertionInfo) ToMap() map[string]any {
	m := map[string]any{"generator": a.Generator}
	if a.ModelName != nil {
		m["model_name"] = *a.ModelName
	}
	if a.ModelVersion != nil {
		m["model_version"] = *a.ModelVersion
	}
	return m
}

// AIAssertionInfoFromMap extracts a typed view from the generic wire map.
// ok is false if m has no "generator" string field.
func AIAssertionInfoFromMap(m map[string]any) (AIAssertionInfo, bool) {
	gen, ok := m["generator"].(string)
	if !ok {
		return AIAssertionInfo{}, false
	}
	info := AIAssertionInfo{Generator: gen}
	if name, ok := m["model_name"].(string); ok {
		info.ModelName = &name
	}
	if ver, ok := m["model_version"].(string); ok {
		info.ModelVersion = &ver
	}
	return info, true
}
