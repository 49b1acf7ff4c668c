package cose

import "github.com/encypherai/c2patext/canonical"

// cborUnmarshal decodes non-canonical (wire) CBOR; canonicality only
// constrains what this module produces, not what it must accept.
func cborUnmarshal(b []byte, v any) error {
	return canonical.DecodeCBOR(b, v)
}
