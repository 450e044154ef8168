package config

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/ajitpratap0/triton/pkg/logger"
)

const (
	// DefaultChunkBytes is the byte budget of one pool chunk
	DefaultChunkBytes = 16 * 1024
	// DefaultMaxChunks bounds how many chunks a pool may own
	DefaultMaxChunks = 64
	// DefaultHashCacheBytes is the byte budget of a pool's hash cache
	DefaultHashCacheBytes = 4 * 1024
	// DefaultAlignment is the alignment requested from factory allocators
	DefaultAlignment = 64
)

// Config is the root configuration structure.
type Config struct {
	// Pool holds the chunked pool parameters
	Pool PoolConfig `yaml:"pool" json:"pool"`

	// Factory holds the object factory parameters
	Factory FactoryConfig `yaml:"factory" json:"factory"`

	// Logging configures the global zap logger
	Logging logger.Config `yaml:"logging" json:"logging"`

	// Metrics configures Prometheus collection
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// PoolConfig contains the construction parameters of a chunked pool.
// They are fixed for the pool's lifetime.
type PoolConfig struct {
	// ChunkBytes is the byte capacity of one chunk
	ChunkBytes int `yaml:"chunk_bytes" json:"chunk_bytes"`
	// MaxChunks is the ceiling on the number of chunks
	MaxChunks int `yaml:"max_chunks" json:"max_chunks"`
	// HashCacheBytes is the byte budget of the direct-mapped hash cache
	HashCacheBytes int `yaml:"hash_cache_bytes" json:"hash_cache_bytes"`
	// Hasher selects the cache hash function (xxhash, maphash)
	Hasher string `yaml:"hasher" json:"hasher"`
}

// FactoryConfig contains object factory settings.
type FactoryConfig struct {
	// Alignment is passed to the allocator with every request
	Alignment int `yaml:"alignment" json:"alignment"`
	// MaxObjects caps the creation counter (0 = unlimited)
	MaxObjects uint64 `yaml:"max_objects" json:"max_objects"`
	// Allocator selects the allocator (heap, arrow)
	Allocator string `yaml:"allocator" json:"allocator"`
	// MemoryLimitBytes bounds the arrow allocator (0 = unlimited)
	MemoryLimitBytes int `yaml:"memory_limit_bytes" json:"memory_limit_bytes"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled turns pool and factory collectors on
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Pool: PoolConfig{
			ChunkBytes:     DefaultChunkBytes,
			MaxChunks:      DefaultMaxChunks,
			HashCacheBytes: DefaultHashCacheBytes,
			Hasher:         "xxhash",
		},
		Factory: FactoryConfig{
			Alignment: DefaultAlignment,
			Allocator: "heap",
		},
		Logging: logger.Config{
			Level:    "warn",
			Encoding: "json",
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// Validate checks the configuration for correctness. Checks that depend
// on the element size happen when a pool is constructed.
func (c *Config) Validate() error {
	if err := c.Pool.Validate(); err != nil {
		return err
	}
	return c.Factory.Validate()
}

// Validate checks the pool parameters that do not depend on the element type.
func (p *PoolConfig) Validate() error {
	if p.ChunkBytes <= 0 {
		return fmt.Errorf("chunk_bytes must be positive")
	}
	if p.MaxChunks <= 0 {
		return fmt.Errorf("max_chunks must be positive")
	}
	if uint64(p.MaxChunks) > math.MaxUint32 {
		return fmt.Errorf("max_chunks cannot exceed %d", uint64(math.MaxUint32))
	}
	if p.HashCacheBytes <= 0 {
		return fmt.Errorf("hash_cache_bytes must be positive")
	}
	switch p.Hasher {
	case "", "xxhash", "maphash":
	default:
		return fmt.Errorf("unknown hasher %q", p.Hasher)
	}
	return nil
}

// Validate checks the factory parameters.
func (f *FactoryConfig) Validate() error {
	if f.Alignment <= 0 || bits.OnesCount(uint(f.Alignment)) != 1 {
		return fmt.Errorf("alignment must be a positive power of two")
	}
	if f.MemoryLimitBytes < 0 {
		return fmt.Errorf("memory_limit_bytes cannot be negative")
	}
	switch f.Allocator {
	case "", "heap", "arrow":
	default:
		return fmt.Errorf("unknown allocator %q", f.Allocator)
	}
	return nil
}

// Limit returns the creation counter ceiling, mapping 0 to unlimited.
func (f *FactoryConfig) Limit() uint64 {
	if f.MaxObjects == 0 {
		return math.MaxUint64
	}
	return f.MaxObjects
}
