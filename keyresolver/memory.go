package keyresolver

import (
	"context"
	"sync"
)

// InMemory is a Resolver backed by a map, for tests and simple deployments.
type InMemory struct {
	mu   sync.RWMutex
	keys map[string]VerificationKey
}

// NewInMemory returns an empty resolver.
func NewInMemory() *InMemory {
	return &InMemory{keys: make(map[string]VerificationKey)}
}

// Register associates signerID with key, overwriting any prior entry.
func (r *InMemory) Register(signerID string, key VerificationKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[signerID] = key
}

// Resolve implements Resolver.
func (r *InMemory) Resolve(_ context.Context, signerID string) (VerificationKey, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.keys[signerID]
	return key, ok, nil
}
