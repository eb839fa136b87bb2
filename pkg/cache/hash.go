package cache

import (
	"crypto/sha256"
	"encoding/hex"

	mmacio "github.com/matzehuels/mmac/pkg/io"
	"github.com/matzehuels/mmac/pkg/layered"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// InstanceHash fingerprints the structure of g: layer sizes and edges in
// insertion order. The name and the current layer order do not contribute.
// The hash equals [Hash] of the instance file [mmacio.WriteInstance] produces.
func InstanceHash(g *layered.Graph) string {
	h := sha256.New()
	// WriteInstance fails only when its writer does, and hash.Hash never does.
	_ = mmacio.WriteInstance(h, g)
	return hex.EncodeToString(h.Sum(nil))
}

// Keyer maps cached objects to keys.
type Keyer interface {
	// BestKey returns the key of the best known solution for an instance.
	BestKey(instanceHash string) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// BestKey implements Keyer.
func (DefaultKeyer) BestKey(instanceHash string) string { return "best:" + instanceHash }

// ScopedKeyer prefixes every key, so several users or projects can share
// one Redis database without seeing each other's entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer if inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// BestKey implements Keyer.
func (k *ScopedKeyer) BestKey(instanceHash string) string {
	return k.prefix + k.inner.BestKey(instanceHash)
}
