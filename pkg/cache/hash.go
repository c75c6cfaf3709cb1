package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ArtifactKeyOpts holds every build option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format          string            `json:"format"`
	MinWeight       float64           `json:"min_weight"`
	EdgesProportion float64           `json:"edges_proportion"`
	Policy          string            `json:"policy"`
	Coloring        string            `json:"coloring"`
	Palette         map[string]string `json:"palette,omitempty"`
	Separator       string            `json:"separator,omitempty"`
	Opacity         float64           `json:"opacity,omitempty"`
	AllEdges        bool              `json:"all_edges,omitempty"`
	Detailed        bool              `json:"detailed,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// InputKey identifies a downloaded input graph by the hash of its URL.
	InputKey(inputHash string) string
	// ArtifactKey identifies one rendered output of an input graph.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer builds keys of the form kind:sha256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// InputKey implements Keyer.
func (DefaultKeyer) InputKey(inputHash string) string {
	return hashKey("input", inputHash)
}

// ArtifactKey implements Keyer. The palette map is marshalled with sorted
// keys, so equal options always produce equal keys.
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

// ScopedKeyer prefixes every key of an inner keyer. The viewer server uses
// it to keep its entries apart from CLI builds sharing one Redis.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// InputKey implements Keyer.
func (k *ScopedKeyer) InputKey(inputHash string) string {
	return k.prefix + k.inner.InputKey(inputHash)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, opts)
}
