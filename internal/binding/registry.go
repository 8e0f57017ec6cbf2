// Package binding tracks the live metric source and policy pair of each
// scale intent across reconcile ticks.
package binding

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"k8s.io/apimachinery/pkg/types"

	"github.com/generalscaler/scale-intent-operator/api/v1alpha1"
	"github.com/generalscaler/scale-intent-operator/internal/metrics"
	"github.com/generalscaler/scale-intent-operator/internal/policy"
)

// Binding is the constructed runtime for one intent. It stays alive across
// ticks and is rebuilt only when the intent's spec hash changes.
type Binding struct {
	Source   metrics.Source
	Policy   policy.Policy
	SpecHash string
}

// Close releases the binding's source. Safe on nil.
func (b *Binding) Close() error {
	if b == nil || b.Source == nil {
		return nil
	}
	return b.Source.Close()
}

// SpecHash fingerprints an intent spec. Bindings are rebuilt when the live
// spec's hash no longer matches the stored one.
func SpecHash(spec *v1alpha1.ScaleIntentSpec) (string, error) {
	raw, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("hashing intent spec: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// Registry maps intents to their bindings. All methods are safe for
// concurrent use, though the per-key reconcile guarantee means each key is
// normally touched by one goroutine at a time.
type Registry struct {
	mu       sync.Mutex
	bindings map[types.NamespacedName]*Binding
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{bindings: map[types.NamespacedName]*Binding{}}
}

// Get returns the binding for key, or nil.
func (r *Registry) Get(key types.NamespacedName) *Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bindings[key]
}

// Swap installs b for key and closes the previous binding, if any. The old
// source is closed exactly once.
func (r *Registry) Swap(key types.NamespacedName, b *Binding) error {
	r.mu.Lock()
	old := r.bindings[key]
	r.bindings[key] = b
	r.mu.Unlock()
	return old.Close()
}

// Delete removes and closes the binding for key. Deleting an absent key is
// a no-op.
func (r *Registry) Delete(key types.NamespacedName) error {
	r.mu.Lock()
	old := r.bindings[key]
	delete(r.bindings, key)
	r.mu.Unlock()
	return old.Close()
}

// Len reports how many bindings are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bindings)
}
