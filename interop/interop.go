// Package interop bridges the internal C2PA manifest model and an
// external, dictionary-shaped C2PA-like representation, including
// historical field-name handling (ai_info as the pre-2.x name for
// ai_assertion).
package interop

import (
	"encoding/base64"

	"github.com/encypherai/c2patext/c2paerr"
	"github.com/encypherai/c2patext/canonical"
	"github.com/encypherai/c2patext/model"
)

// cborB64Marker flags an assertion's Data map, internally, as having
// arrived (or needing to leave) through the data_encoding: "cbor_base64"
// convention, so InternalToExternal can restore the encoding on the way
// back out without the caller repeating the choice.
const cborB64Marker = "__cbor_base64__"

// ExternalToInternal converts an external C2PA-like mapping into the
// internal manifest model. Only the keys @context, claim_generator,
// instance_id, actions, assertions, ai_assertion (or ai_info) and
// custom_claims are carried over; any other top-level key, and any of these
// whose value has an unexpected type, is not kept. A per-assertion "data_encoding": "cbor_base64" sibling to "data" means
// data is a base64 string of canonical CBOR, transparently decoded here.
func ExternalToInternal(ext map[string]any) (model.C2PAManifest, error) {
	const op = "interop.ExternalToInternal"

	m := model.C2PAManifest{}

	if v, ok := ext["@context"].(string); ok {
		m.Context = v
	}
	if v, ok := ext["claim_generator"].(string); ok {
		m.ClaimGenerator = v
	}
	if v, ok := ext["instance_id"].(string); ok {
		m.InstanceID = v
	}

	if raw, ok := ext["actions"]; ok {
		actions, err := decodeActions(raw)
		if err != nil {
			return model.C2PAManifest{}, c2paerr.New(op, c2paerr.KindInvalidPayload, err)
		}
		m.Actions = actions
	}

	if raw, ok := ext["assertions"]; ok {
		assertions, err := decodeAssertions(raw)
		if err != nil {
			return model.C2PAManifest{}, c2paerr.New(op, c2paerr.KindInvalidPayload, err)
		}
		m.Assertions = assertions
	}

	// ai_assertion is the canonical key; ai_info is the pre-2.x name for
	// the same field. If both are present, the canonical key wins.
	if v, ok := ext["ai_assertion"].(map[string]any); ok {
		m.AIAssertion = v
	} else if v, ok := ext["ai_info"].(map[string]any); ok {
		m.AIAssertion = v
	}

	if v, ok := ext["custom_claims"].(map[string]any); ok {
		m.CustomClaims = v
	}

	return m, nil
}

// InternalToExternal converts the internal manifest model into the
// external C2PA-like mapping, always under the canonical (modern) field
// names: ai_assertion, actions, assertions. It is the exact inverse of
// ExternalToInternal on the image of that function.
func InternalToExternal(m model.C2PAManifest) (map[string]any, error) {
	const op = "interop.InternalToExternal"

	ext := map[string]any{
		"claim_generator": m.ClaimGenerator,
		"instance_id":     m.InstanceID,
	}
	if m.Context != "" {
		ext["@context"] = m.Context
	}

	ext["actions"] = encodeActions(m.Actions)

	assertions, err := encodeAssertions(m.Assertions)
	if err != nil {
		return nil, c2paerr.New(op, c2paerr.KindInvalidPayload, err)
	}
	ext["assertions"] = assertions

	if m.AIAssertion != nil {
		ext["ai_assertion"] = m.AIAssertion
	}
	if m.CustomClaims != nil {
		ext["custom_claims"] = m.CustomClaims
	}

	return ext, nil
}

// mapList accepts a list of maps either in the []any shape a JSON/CBOR
// decoder produces or in the []map[string]any shape InternalToExternal emits.
func mapList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []map[string]any:
		items := make([]any, len(v))
		for i, m := range v {
			items[i] = m
		}
		return items, true
	default:
		return nil, false
	}
}

func decodeActions(raw any) ([]model.Action, error) {
	items, ok := mapList(raw)
	if !ok {
		return nil, c2paerr.ErrInvalidPayload
	}
	out := make([]model.Action, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, c2paerr.ErrInvalidPayload
		}
		action := model.Action{}
		if v, ok := m["label"].(string); ok {
			action.Label = v
		}
		if v, ok := m["softwareAgent"].(string); ok {
			action.SoftwareAgent = &v
		}
		if v, ok := m["when"].(string); ok {
			action.When = &v
		}
		if v, ok := m["description"].(string); ok {
			action.Description = &v
		}
		out = append(out, action)
	}
	return out, nil
}

func encodeActions(actions []model.Action) []map[string]any {
	out := make([]map[string]any, 0, len(actions))
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
		out = append(out, m)
	}
	return out
}

func decodeAssertions(raw any) ([]model.Assertion, error) {
	items, ok := mapList(raw)
	if !ok {
		return nil, c2paerr.ErrInvalidPayload
	}
	out := make([]model.Assertion, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, c2paerr.ErrInvalidPayload
		}
		label, _ := entry["label"].(string)

		data, ok := entry["data"].(map[string]any)
		if !ok {
			if encoded, isB64 := entry["data"].(string); isB64 {
				if enc, ok := entry["data_encoding"].(string); ok && enc == "cbor_base64" {
					decoded, err := decodeCBORBase64(encoded)
					if err != nil {
						return nil, err
					}
					decoded[cborB64Marker] = true
					out = append(out, model.Assertion{Label: label, Data: decoded})
					continue
				}
			}
			return nil, c2paerr.ErrInvalidPayload
		}
		out = append(out, model.Assertion{Label: label, Data: data})
	}
	return out, nil
}

func encodeAssertions(assertions []model.Assertion) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(assertions))
	for _, a := range assertions {
		if marked, _ := a.Data[cborB64Marker].(bool); marked {
			clean := make(map[string]any, len(a.Data)-1)
			for k, v := range a.Data {
				if k == cborB64Marker {
					continue
				}
				clean[k] = v
			}
			encoded, err := encodeCBORBase64(clean)
			if err != nil {
				return nil, err
			}
			out = append(out, map[string]any{
				"label":         a.Label,
				"data":          encoded,
				"data_encoding": "cbor_base64",
			})
			continue
		}
		out = append(out, map[string]any{"label": a.Label, "data": a.Data})
	}
	return out, nil
}

func decodeCBORBase64(encoded string) (map[string]any, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, c2paerr.New("interop.decodeCBORBase64", c2paerr.KindInvalidPayload, err)
	}
	var data map[string]any
	if err := canonical.DecodeCBOR(raw, &data); err != nil {
		return nil, c2paerr.New("interop.decodeCBORBase64", c2paerr.KindInvalidPayload, err)
	}
	return data, nil
}

func encodeCBORBase64(data map[string]any) (string, error) {
	raw, err := canonical.CBOR(data)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
