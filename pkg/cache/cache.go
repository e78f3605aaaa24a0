// Package cache stores rendered artifacts keyed by content hashes so that
// repeated exports of an unchanged layout skip Graphviz entirely.
//
// Two implementations are provided: [FileCache] for the CLI and
// [NullCache] when caching is disabled. Keys are built by a [Keyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the data for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// RenderKeyOpts are the render parameters that change the output bytes.
type RenderKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a compiled layout by tree and layout config hash.
	LayoutKey(treeHash, configHash string) string

	// RenderKey identifies one rendered artifact of a layout.
	RenderKey(layoutHash string, opts RenderKeyOpts) string
}

// DefaultKeyer produces unscoped keys of the form kind:sha256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(treeHash, configHash string) string {
	return hashKey("layout", treeHash, configHash)
}

// RenderKey implements [Keyer].
func (DefaultKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return hashKey("render", layoutHash, opts)
}
