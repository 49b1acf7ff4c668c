// Package cose implements the minimal COSE_Sign1 envelope (RFC 8152 §4.4)
// used to carry the C2PA manifest: a single signer, Ed25519 (COSE algorithm
// identifier EdDSA = -8), protected header {1: alg, 4: kid}, empty
// unprotected header.
package cose

import (
	"fmt"

	"github.com/encypherai/c2patext/c2paerr"
	"github.com/encypherai/c2patext/canonical"
)

// AlgEdDSA is the COSE algorithm identifier for Ed25519 (RFC 8152 Table 5).
const AlgEdDSA = -8

const sigContext = "Signature1"

// protectedHeader is the COSE protected header, {1: alg, 4: kid}, encoded
// with integer map keys via the cbor "keyasint" tag option.
type protectedHeader struct {
	Alg int64  `cbor:"1,keyasint"`
	Kid []byte `cbor:"4,keyasint,omitempty"`
}

// EncodeProtected canonically CBOR-encodes the protected header for signer kid.
func EncodeProtected(kid string) ([]byte, error) {
	return canonical.CBOR(protectedHeader{Alg: AlgEdDSA, Kid: []byte(kid)})
}

// DecodeProtected parses a protected header produced by EncodeProtected.
func DecodeProtected(b []byte) (alg int64, kid string, err error) {
	var h protectedHeader
	if err := cborUnmarshal(b, &h); err != nil {
		return 0, "", c2paerr.New("cose.DecodeProtected", c2paerr.KindMalformedEnvelope, err)
	}
	return h.Alg, string(h.Kid), nil
}

// sigStructureArray mirrors the COSE Sig_structure array shape
// ["Signature1", protected, external_aad, payload], toarray-encoded.
type sigStructureArray struct {
	_           struct{} `cbor:",toarray"`
	Context     string
	Protected   []byte
	ExternalAAD []byte
	Payload     []byte
}

// SigStructure builds the canonical-CBOR bytes to be signed/verified,
// per RFC 8152 §4.4, with external_aad = h'' (empty byte string).
func SigStructure(protected, payload []byte) ([]byte, error) {
	return canonical.CBOR(sigStructureArray{
		Context:     sigContext,
		Protected:   protected,
		ExternalAAD: []byte{},
		Payload:     payload,
	})
}

// sign1Array mirrors the wire COSE_Sign1 array
// [protected, unprotected, payload, signature].
type sign1Array struct {
	_           struct{} `cbor:",toarray"`
	Protected   []byte
	Unprotected map[string]any
	Payload     []byte
	Signature   []byte
}

// Sign1 is a decoded COSE_Sign1 envelope.
type Sign1 struct {
	Protected []byte
	Payload   []byte
	Signature []byte
}

// Marshal encodes s as the canonical CBOR COSE_Sign1 array. The unprotected
// header is always the empty map.
func (s Sign1) Marshal() ([]byte, error) {
	b, err := canonical.CBOR(sign1Array{
		Protected:   s.Protected,
		Unprotected: map[string]any{},
		Payload:     s.Payload,
		Signature:   s.Signature,
	})
	if err != nil {
		return nil, c2paerr.New("cose.Sign1.Marshal", c2paerr.KindInvalidInput, err)
	}
	return b, nil
}

// Unmarshal decodes b into a COSE_Sign1 envelope.
func Unmarshal(b []byte) (Sign1, error) {
	const op = "cose.Unmarshal"
	var arr sign1Array
	if err := cborUnmarshal(b, &arr); err != nil {
		return Sign1{}, c2paerr.New(op, c2paerr.KindMalformedEnvelope, err)
	}
	if arr.Protected == nil || arr.Payload == nil || arr.Signature == nil {
		return Sign1{}, c2paerr.New(op, c2paerr.KindMalformedEnvelope, fmt.Errorf("missing required COSE_Sign1 field"))
	}
	return Sign1{Protected: arr.Protected, Payload: arr.Payload, Signature: arr.Signature}, nil
}
