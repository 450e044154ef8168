// Package config provides configuration management for Triton's object
// storage core.
//
// # Key Features
//
//   - Config: one structure for pools, factories, logging and metrics
//   - YAML files with ${VAR_NAME} environment substitution
//   - Defaults via Default() and validation via Validate()
//
// # Usage
//
//	cfg, err := config.Load("triton.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	actors, err := pool.NewChunkedPoolFromConfig[Actor](cfg.Pool)
//
// # Example File
//
//	pool:
//	  chunk_bytes: 65536
//	  max_chunks: 32
//	  hash_cache_bytes: ${TRITON_HASH_BYTES}
//	  hasher: xxhash
//	factory:
//	  alignment: 64
//	  allocator: arrow
//	  memory_limit_bytes: 1048576
//	logging:
//	  level: info
//	metrics:
//	  enabled: true
//
// Checks that depend on the element size, such as whether one object fits
// in a chunk, run when the pool is constructed and surface as
// configuration errors from pkg/errors.
package config
