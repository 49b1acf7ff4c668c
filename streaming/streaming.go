// Package streaming implements the buffered chunk embedder for text arriving
// incrementally. It wraps engine/legacysite with per-session buffering
// state: C2PA is deliberately unsupported here, since its hard binding
// cannot be computed over an unfinished stream.
package streaming

import (
	"crypto/ed25519"
	"fmt"
	"sync"

	"github.com/encypherai/c2patext/c2paerr"
	"github.com/encypherai/c2patext/engine"
	"github.com/encypherai/c2patext/legacysite"
	"github.com/encypherai/c2patext/model"
)

// Options configures a Session. Target and DistributeAcrossTargets mirror
// engine.EmbedOptions' legacy-only fields; OmitKeys likewise.
type Options struct {
	Target                  legacysite.Target
	DistributeAcrossTargets bool
	OmitKeys                []string
}

// Session holds the single mutable buffer and embedded flag for one
// streaming embed. It is not safe for concurrent use by more than one
// goroutine at a time — the contract is single-threaded cooperative, the
// caller drives it synchronously — but a sync.Mutex still serializes calls
// so a misuse (e.g. a concurrent reset) does not race on the state.
type Session struct {
	mu sync.Mutex

	format   model.Format
	payload  model.Payload
	priv     ed25519.PrivateKey
	signerID string
	opts     Options

	buffer   string
	embedded bool
}

// NewSession starts a streaming embed session for one payload/signer pair.
// format must be one of the legacy formats (basic, manifest-json,
// manifest-cbor); format_c2pa is rejected.
func NewSession(format model.Format, payload model.Payload, priv ed25519.PrivateKey, signerID string, opts Options) (*Session, error) {
	const op = "streaming.NewSession"
	if format == model.FormatC2PA {
		return nil, c2paerr.New(op, c2paerr.KindUnsupportedFormat, fmt.Errorf("streaming embed does not support format_c2pa"))
	}
	return &Session{
		format:   format,
		payload:  payload,
		priv:     priv,
		signerID: signerID,
		opts:     opts,
	}, nil
}

// ProcessChunk appends chunk to the session buffer. If the payload has
// already been embedded, it drains and returns the whole buffer verbatim.
// Otherwise it attempts one embed against the buffered text; on success it
// drains and returns the processed text, setting embedded permanently. On
// no viable site it returns "" and keeps buffering. Any other error (bad
// key, malformed payload) is returned as-is.
func (s *Session) ProcessChunk(chunk string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buffer += chunk

	if s.embedded {
		out := s.buffer
		s.buffer = ""
		return out, nil
	}

	out, err := s.tryEmbed(s.buffer)
	if err != nil {
		if kind, ok := c2paerr.KindOf(err); ok && kind == c2paerr.KindNoViableSite {
			return "", nil
		}
		return "", err
	}

	s.embedded = true
	s.buffer = ""
	return out, nil
}

// Finalize attempts one last embed if the payload has not yet landed, then
// resets the session. If no site is ever found, the raw buffered text is
// returned unmodified and will lack provenance.
func (s *Session) Finalize() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer s.resetLocked()

	if s.embedded {
		return s.buffer, nil
	}

	out, err := s.tryEmbed(s.buffer)
	if err != nil {
		if kind, ok := c2paerr.KindOf(err); ok && kind == c2paerr.KindNoViableSite {
			return s.buffer, nil
		}
		return "", err
	}
	return out, nil
}

// Reset clears the buffer and embedded flag. It is the only supported
// mid-stream cancellation; no already-emitted output can be retracted.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.buffer = ""
	s.embedded = false
}

func (s *Session) tryEmbed(text string) (string, error) {
	return engine.Embed(text, s.format, s.payload, s.priv, s.signerID, engine.EmbedOptions{
		Target:                  s.opts.Target,
		DistributeAcrossTargets: s.opts.DistributeAcrossTargets,
		OmitKeys:                s.opts.OmitKeys,
	})
}
