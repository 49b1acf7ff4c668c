// Package canonical provides the two deterministic serializers used to
// produce signing input: canonical CBOR (via fxamacker/cbor/v2's built-in
// canonical encoding mode) and canonical JSON (RFC 8785 JCS, via
// cyberphone/json-canonicalization). Both reject floats, since a signed
// payload's encoding must be bit-for-bit reproducible.
package canonical

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/fxamacker/cbor/v2"

	"github.com/encypherai/c2patext/c2paerr"
)

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	encOpts := cbor.CanonicalEncOptions()
	mode, err := encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("canonical: building canonical CBOR EncMode: %v", err))
	}
	cborEncMode = mode

	// CBOR's default any-typed map target is map[interface{}]interface{}
	// (CBOR permits non-string keys); every manifest map here is
	// string-keyed, so pin the any-typed decode target to map[string]any
	// to match what the rest of this module (and encoding/json) expects.
	decMode, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("canonical: building CBOR DecMode: %v", err))
	}
	cborDecMode = decMode
}

// DecodeCBOR decodes non-canonical (wire) CBOR into v; canonicality only
// constrains what this module produces, not what it accepts. Any-typed map
// values decode as map[string]any, not the CBOR-default
// map[interface{}]interface{}.
func DecodeCBOR(b []byte, v any) error {
	return cborDecMode.Unmarshal(b, v)
}

// CBOR deterministically encodes v: shortest-form integers, sorted map keys,
// definite-length arrays/maps/strings. Two semantically equal values
// encode to identical bytes. Returns c2paerr.ErrInvalidInput if v contains
// a float anywhere in its reachable structure.
func CBOR(v any) ([]byte, error) {
	const op = "canonical.CBOR"
	if err := RejectFloats(v); err != nil {
		return nil, c2paerr.New(op, c2paerr.KindInvalidInput, err)
	}
	b, err := cborEncMode.Marshal(v)
	if err != nil {
		return nil, c2paerr.New(op, c2paerr.KindInvalidInput, err)
	}
	return b, nil
}

// JSON deterministically encodes v as canonical JSON per RFC 8785 (JSON
// Canonicalization Scheme): object members sorted ascending by UTF-16 code
// unit, no insignificant whitespace, numbers in their shortest round-trip
// form. Returns c2paerr.ErrInvalidInput if v contains a float.
func JSON(v any) ([]byte, error) {
	const op = "canonical.JSON"
	if err := RejectFloats(v); err != nil {
		return nil, c2paerr.New(op, c2paerr.KindInvalidInput, err)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, c2paerr.New(op, c2paerr.KindInvalidInput, err)
	}
	out, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return nil, c2paerr.New(op, c2paerr.KindInvalidInput, err)
	}
	return out, nil
}

// RejectFloats walks v's reachable structure (structs, maps, slices,
// pointers, interfaces) and returns an error if any float32/float64 value is
// found. Signed payloads may only carry integers and strings.
func RejectFloats(v any) error {
	return rejectFloats(reflect.ValueOf(v), make(map[uintptr]bool))
}

func rejectFloats(rv reflect.Value, seen map[uintptr]bool) error {
	if !rv.IsValid() {
		return nil
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return fmt.Errorf("floats are not permitted in signed payloads")
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		ptr := rv.Pointer()
		if seen[ptr] {
			return nil
		}
		seen[ptr] = true
		return rejectFloats(rv.Elem(), seen)
	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return rejectFloats(rv.Elem(), seen)
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if !rv.Field(i).CanInterface() {
				continue
			}
			if err := rejectFloats(rv.Field(i), seen); err != nil {
				return err
			}
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if err := rejectFloats(iter.Key(), seen); err != nil {
				return err
			}
			if err := rejectFloats(iter.Value(), seen); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := rejectFloats(rv.Index(i), seen); err != nil {
				return err
			}
		}
	}
	return nil
}
