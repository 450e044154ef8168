// Package handle defines the non-owning reference type into pooled storage.
package handle

import "fmt"

// Handle names a pool slot together with the generation that slot had when
// the handle was issued. The pool bumps a slot's generation whenever its
// occupant changes, so a handle whose generation no longer matches refers
// to a recycled slot and must not be dereferenced.
//
// Generations start at 1; the zero Handle never resolves.
type Handle struct {
	Index      uint32
	Generation uint64
}

// Nil is the handle that refers to nothing.
var Nil Handle

// IsNil reports whether h was never issued by a pool.
func (h Handle) IsNil() bool {
	return h.Generation == 0
}

// Equal reports whether both handles name the same slot generation.
func (h Handle) Equal(other Handle) bool {
	return h == other
}

func (h Handle) String() string {
	return fmt.Sprintf("%d@%d", h.Index, h.Generation)
}
