package config_test

import (
	"fmt"
	"log"

	"github.com/ajitpratap0/triton/pkg/config"
)

// ExampleDefault demonstrates the default configuration values.
func ExampleDefault() {
	cfg := config.Default()

	fmt.Printf("Chunk Bytes: %d\n", cfg.Pool.ChunkBytes)
	fmt.Printf("Max Chunks: %d\n", cfg.Pool.MaxChunks)
	fmt.Printf("Hasher: %s\n", cfg.Pool.Hasher)

	// Output:
	// Chunk Bytes: 16384
	// Max Chunks: 64
	// Hasher: xxhash
}

// ExampleConfig_Validate shows how to validate a configuration
// before building pools from it.
func ExampleConfig_Validate() {
	cfg := config.Default()
	cfg.Pool.MaxChunks = 2
	cfg.Factory.Allocator = "arrow"
	cfg.Factory.MemoryLimitBytes = 4096

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	fmt.Println("Configuration is valid!")

	cfg.Factory.Alignment = 24
	fmt.Println(cfg.Validate())

	// Output:
	// Configuration is valid!
	// alignment must be a positive power of two
}
