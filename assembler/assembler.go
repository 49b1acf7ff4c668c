// Package assembler builds the C2PA manifest assertion graph, signs it,
// and iterates the hard-binding fixed point: the c2pa.hash.data.v1
// assertion excludes the wrapper's own on-text footprint, whose length
// depends on the signed manifest's size.
package assembler

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/encypherai/c2patext/c2paerr"
	"github.com/encypherai/c2patext/canonical"
	"github.com/encypherai/c2patext/jumbf"
	"github.com/encypherai/c2patext/model"
	"github.com/encypherai/c2patext/signing"
	"github.com/encypherai/c2patext/text"
	"github.com/encypherai/c2patext/wrapper"
)

// maxIterations bounds the fixed-point loop over the hard-binding
// exclusion to a small number of iterations.
const maxIterations = 4

// Options configures Build.
type Options struct {
	// ClaimGenerator identifies the software that produced the manifest.
	ClaimGenerator string
	// Actions is the actions list. If empty, a single c2pa.created action
	// with no When is used.
	Actions []model.Action
	// AddHardBinding enables the c2pa.hash.data.v1 fixed-point loop.
	AddHardBinding bool
	// AIAssertion, CustomClaims, Context pass through to the manifest as-is.
	AIAssertion  map[string]any
	CustomClaims map[string]any
	Context      string
}

// Result is the output of Build: the final manifest, the COSE-wrapped
// JUMBF manifest store, and the wire wrapper text to append.
type Result struct {
	Manifest      model.C2PAManifest
	ManifestStore []byte
	WrapperText   string
}

// Build assembles, signs, and packages a C2PA manifest for normalizedText
// (already NFC-normalized by the caller), iterating the hard-binding fixed
// point when opts.AddHardBinding is set.
func Build(normalizedText string, priv ed25519.PrivateKey, signerID string, opts Options) (Result, error) {
	const op = "assembler.Build"

	actions := opts.Actions
	if len(actions) == 0 {
		actions = []model.Action{{Label: model.ActionCreated}}
	}

	manifest := model.C2PAManifest{
		Context:        opts.Context,
		ClaimGenerator: opts.ClaimGenerator,
		Actions:        actions,
		InstanceID:     uuid.NewString(),
		AIAssertion:    opts.AIAssertion,
		CustomClaims:   opts.CustomClaims,
	}

	actionsAssertion := model.NewActionsAssertion(actions)

	softBindAssertion, err := softBinding(actions)
	if err != nil {
		return Result{}, c2paerr.New(op, c2paerr.KindInvalidPayload, err)
	}
	manifest.Assertions = []model.Assertion{actionsAssertion, softBindAssertion}

	if !opts.AddHardBinding {
		store, wire, err := signAndWrap(manifest, priv, signerID)
		if err != nil {
			return Result{}, err
		}
		return Result{Manifest: manifest, ManifestStore: store, WrapperText: wire}, nil
	}

	rawBytes := len(text.UTF8(normalizedText))
	wrapperLenGuess := wrapper.HeaderSize

	for iteration := 0; ; iteration++ {
		if iteration >= maxIterations {
			return Result{}, c2paerr.New(op, c2paerr.KindExclusionFixedPointDivergence,
				fmt.Errorf("hard-binding exclusion did not converge within %d iterations", maxIterations))
		}

		exclusions := []text.Exclusion{{Start: rawBytes, Length: wrapperLenGuess}}
		hash, err := text.Hash(normalizedText, exclusions)
		if err != nil {
			return Result{}, c2paerr.New(op, c2paerr.KindInvalidExclusion, err)
		}

		hashAssertion := model.NewHashDataAssertion(hash.Hex, []model.ExclusionRange{
			{Start: exclusions[0].Start, Length: exclusions[0].Length},
		})
		manifest.Assertions = []model.Assertion{actionsAssertion, softBindAssertion, hashAssertion}

		store, wire, err := signAndWrap(manifest, priv, signerID)
		if err != nil {
			return Result{}, err
		}

		actualLen := len(store) + wrapper.HeaderSize
		if actualLen == wrapperLenGuess {
			return Result{Manifest: manifest, ManifestStore: store, WrapperText: wire}, nil
		}
		wrapperLenGuess = actualLen
	}
}

func signAndWrap(manifest model.C2PAManifest, priv ed25519.PrivateKey, signerID string) (store []byte, wire string, err error) {
	const op = "assembler.signAndWrap"

	coseBytes, err := signing.SignC2PA(manifest, priv, signerID)
	if err != nil {
		return nil, "", err
	}

	store = jumbf.PackManifestStore(coseBytes)

	wire, err = wrapper.Encode(store)
	if err != nil {
		return nil, "", c2paerr.New(op, c2paerr.KindInvalidInput, err)
	}
	return store, wire, nil
}

// softBinding serializes actions deterministically and returns the
// c2pa.soft_binding.v1 assertion over their SHA-256 digest. This hashes the
// raw canonical CBOR bytes directly rather than going through text.Hash,
// which normalizes as Unicode text — not appropriate for arbitrary binary.
func softBinding(actions []model.Action) (model.Assertion, error) {
	raw, err := canonical.CBOR(actions)
	if err != nil {
		return model.Assertion{}, err
	}
	sum := sha256.Sum256(raw)
	return model.NewSoftBindingAssertion(hex.EncodeToString(sum[:])), nil
}
