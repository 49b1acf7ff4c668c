// Package c2paerr defines the closed error taxonomy crossing the core's
// boundary. Every public operation in this module returns errors built
// from these kinds so callers can branch with errors.Is/errors.As instead
// of matching strings.
package c2paerr

import "fmt"

// Kind identifies one of the error categories a caller is allowed to observe.
type Kind string

const (
	KindInvalidInput                 Kind = "invalid_input"
	KindInvalidExclusion             Kind = "invalid_exclusion"
	KindInvalidPrivateKey            Kind = "invalid_private_key"
	KindInvalidPublicKey             Kind = "invalid_public_key"
	KindUnknownSigner                Kind = "unknown_signer"
	KindBadSignature                 Kind = "bad_signature"
	KindMalformedEnvelope            Kind = "malformed_envelope"
	KindCorruptedWrapper             Kind = "corrupted_wrapper"
	KindMultipleWrappers             Kind = "multiple_wrappers"
	KindNoViableSite                 Kind = "no_viable_site"
	KindExclusionFixedPointDivergence Kind = "exclusion_fixed_point_divergence"
	KindSoftBindingMismatch          Kind = "soft_binding_mismatch"
	KindHardBindingMismatch          Kind = "hard_binding_mismatch"
	KindUnsupportedFormat            Kind = "unsupported_format"
	KindInvalidPayload               Kind = "invalid_payload"
)

// Error is the concrete error type returned across the core boundary.
// Op names the failing operation (e.g. "wrapper.FindAndDecode") for
// diagnostics; neither Op nor Err may carry source text or key material.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, c2paerr.ErrBadSignature) style comparisons: two
// *Error values match when their Kind matches, regardless of Op/Err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an *Error for op with the given kind, optionally wrapping cause.
func New(op string, kind Kind, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Sentinel values for errors.Is comparisons against a bare kind, e.g.
// errors.Is(err, c2paerr.ErrNoViableSite).
var (
	ErrInvalidInput                  = &Error{Kind: KindInvalidInput}
	ErrInvalidExclusion              = &Error{Kind: KindInvalidExclusion}
	ErrInvalidPrivateKey             = &Error{Kind: KindInvalidPrivateKey}
	ErrInvalidPublicKey              = &Error{Kind: KindInvalidPublicKey}
	ErrUnknownSigner                 = &Error{Kind: KindUnknownSigner}
	ErrBadSignature                  = &Error{Kind: KindBadSignature}
	ErrMalformedEnvelope             = &Error{Kind: KindMalformedEnvelope}
	ErrCorruptedWrapper              = &Error{Kind: KindCorruptedWrapper}
	ErrMultipleWrappers              = &Error{Kind: KindMultipleWrappers}
	ErrNoViableSite                  = &Error{Kind: KindNoViableSite}
	ErrExclusionFixedPointDivergence = &Error{Kind: KindExclusionFixedPointDivergence}
	ErrSoftBindingMismatch           = &Error{Kind: KindSoftBindingMismatch}
	ErrHardBindingMismatch           = &Error{Kind: KindHardBindingMismatch}
	ErrUnsupportedFormat             = &Error{Kind: KindUnsupportedFormat}
	ErrInvalidPayload                = &Error{Kind: KindInvalidPayload}
)

// KindOf extracts the Kind from err if it is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if ok := asError(err, &e); ok {
		return e.Kind, true
	}
	return "", false
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
