package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestPoolConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PoolConfig)
		wantErr string
	}{
		{"zero chunk bytes", func(p *PoolConfig) { p.ChunkBytes = 0 }, "chunk_bytes"},
		{"zero max chunks", func(p *PoolConfig) { p.MaxChunks = 0 }, "max_chunks"},
		{"negative hash bytes", func(p *PoolConfig) { p.HashCacheBytes = -1 }, "hash_cache_bytes"},
		{"unknown hasher", func(p *PoolConfig) { p.Hasher = "crc" }, "unknown hasher"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg.Pool)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFactoryConfig_Validate(t *testing.T) {
	cfg := Default()
	cfg.Factory.Allocator = "slab"
	assert.ErrorContains(t, cfg.Validate(), "unknown allocator")

	cfg = Default()
	cfg.Factory.MemoryLimitBytes = -5
	assert.ErrorContains(t, cfg.Validate(), "memory_limit_bytes")
}

func TestFactoryConfig_Limit(t *testing.T) {
	f := FactoryConfig{}
	assert.Equal(t, uint64(math.MaxUint64), f.Limit())

	f.MaxObjects = 10
	assert.Equal(t, uint64(10), f.Limit())
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("TRITON_TEST_CHUNKS", "3")

	path := filepath.Join(t.TempDir(), "triton.yaml")
	content := `
pool:
  chunk_bytes: 256
  max_chunks: ${TRITON_TEST_CHUNKS}
  hasher: maphash
factory:
  allocator: arrow
  memory_limit_bytes: 1024
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.Pool.ChunkBytes)
	assert.Equal(t, 3, cfg.Pool.MaxChunks)
	assert.Equal(t, "maphash", cfg.Pool.Hasher)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultHashCacheBytes, cfg.Pool.HashCacheBytes)
	assert.Equal(t, DefaultAlignment, cfg.Factory.Alignment)
	assert.Equal(t, "arrow", cfg.Factory.Allocator)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pool:\n  max_chunks: 0\n"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "max_chunks must be positive")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	cfg := Default()
	cfg.Pool.MaxChunks = 7
	cfg.Metrics.Enabled = true
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
