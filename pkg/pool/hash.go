package pool

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/dolthub/maphash"
)

// Hasher maps an identifier to the 64-bit value masked into the hash cache.
type Hasher func(s string) uint64

// XXHash is the default hasher. It is stable across processes, which keeps
// cache placement reproducible in tests and benchmarks.
var XXHash Hasher = xxhash.Sum64String

// NewRuntimeHasher returns a hasher backed by the Go runtime's seeded
// string hash. Placement differs between processes.
func NewRuntimeHasher() Hasher {
	h := maphash.NewHasher[string]()
	return h.Hash
}

// HasherByName resolves a configured hasher name. The empty name selects
// XXHash.
func HasherByName(name string) (Hasher, error) {
	switch name {
	case "", "xxhash":
		return XXHash, nil
	case "maphash":
		return NewRuntimeHasher(), nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
}

// cacheSlot is one entry of the direct-mapped hash cache: where the
// element last inserted under this hash was placed.
type cacheSlot struct {
	chunk    uint32
	position uint32
}

// cacheSlotBytes is the footprint of one cacheSlot, used to turn the
// configured byte budget into a slot count.
const cacheSlotBytes = 8

// hashMask returns the largest power of two not exceeding slots, minus one.
// slots must be positive.
func hashMask(slots int) uint64 {
	m := uint64(1)
	for m<<1 <= uint64(slots) {
		m <<= 1
	}
	return m - 1
}
