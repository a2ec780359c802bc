// Package cache memoizes expensive intermediate results of bibnet runs.
//
// The expensive step of an analysis is drawing null distributions: each
// optimized-partition sample runs a community detection heuristic over the
// whole network. A seeded draw is deterministic, so its samples can be
// stored and reused when the same network is analyzed again with the same
// sampler settings. Built graphs are cached by the hash of their input
// records in the same way.
//
// Three backends implement [Cache]:
//
//   - [FileCache] stores entries as JSON files under a directory (CLI default)
//   - [RedisCache] stores entries in Redis (shared by API deployments)
//   - [NullCache] stores nothing (caching disabled)
//
// Keys are produced by a [Keyer] so that callers never build key strings by
// hand. [ScopedKeyer] prefixes every key, which keeps several datasets or
// tenants apart in one backend.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLSamples bounds how long a null sample is reused.
	TTLSamples = 30 * 24 * time.Hour

	// TTLGraph bounds how long a built graph is reused.
	TTLGraph = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored at key. A missing or expired entry is
	// reported as hit == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data at key. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// SampleKeyOpts holds every sampler setting that changes the drawn values.
type SampleKeyOpts struct {
	Strategy    string `json:"strategy"`  // "random" or "optimized"
	Statistic   string `json:"statistic"` // "modularity" or "insularity"
	K           int    `json:"k"`
	Samples     int    `json:"samples"`
	MaxAttempts int    `json:"max_attempts"`
	Seed        uint64 `json:"seed"`
}

// Keyer derives cache keys.
type Keyer interface {
	// SampleKey returns the key of a null sample drawn from the graph whose
	// serialized form hashes to graphHash.
	SampleKey(graphHash string, opts SampleKeyOpts) string

	// GraphKey returns the key of a graph of the given kind built from the
	// records whose serialized form hashes to recordsHash.
	GraphKey(recordsHash, kind string) string
}

// DefaultKeyer hashes its inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SampleKey implements [Keyer].
func (DefaultKeyer) SampleKey(graphHash string, opts SampleKeyOpts) string {
	return hashKey("sample", graphHash, opts)
}

// GraphKey implements [Keyer].
func (DefaultKeyer) GraphKey(recordsHash, kind string) string {
	return hashKey("graph", recordsHash, kind)
}

var _ Keyer = DefaultKeyer{}
