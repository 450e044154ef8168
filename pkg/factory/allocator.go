package factory

import (
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/ajitpratap0/triton/pkg/errors"
)

// Allocator reserves memory for objects created by a Factory. The Go runtime
// always provides the typed storage of an object; the allocator accounts for
// it and may refuse a request, which makes Create fail.
//
// Implementations must be safe for concurrent use.
type Allocator interface {
	// Allocate reserves size bytes at the given alignment. alignment is a
	// positive power of two.
	Allocate(size, alignment int) (Block, error)
	// Deallocate releases a block returned by Allocate. The zero Block is
	// ignored.
	Deallocate(b Block)
}

// Block is one reservation made by an Allocator.
type Block struct {
	// Size is the requested size in bytes.
	Size int
	// Alignment is the requested alignment in bytes.
	Alignment int

	buf []byte
}

// IsZero reports whether b holds no reservation.
func (b Block) IsZero() bool {
	return b.Alignment == 0
}

// Reserved returns the number of bytes held by b, which is Size rounded up
// to Alignment.
func (b Block) Reserved() int {
	return alignUp(b.Size, b.Alignment)
}

func checkAlignment(alignment int) error {
	if alignment <= 0 || bits.OnesCount(uint(alignment)) != 1 {
		return errors.Newf(errors.ErrorTypeValidation, "alignment %d is not a positive power of two", alignment)
	}
	return nil
}

func alignUp(size, alignment int) int {
	if alignment <= 1 {
		return size
	}
	return (size + alignment - 1) &^ (alignment - 1)
}

// HeapAllocator accepts every request and counts what it reserved. Storage
// is left entirely to the Go runtime.
type HeapAllocator struct {
	allocations   atomic.Int64
	deallocations atomic.Int64
	inUse         atomic.Int64
}

// NewHeapAllocator creates an unlimited allocator.
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{}
}

// Allocate implements Allocator.
func (h *HeapAllocator) Allocate(size, alignment int) (Block, error) {
	if err := checkAlignment(alignment); err != nil {
		return Block{}, err
	}
	b := Block{Size: size, Alignment: alignment}
	h.allocations.Add(1)
	h.inUse.Add(int64(b.Reserved()))
	return b, nil
}

// Deallocate implements Allocator.
func (h *HeapAllocator) Deallocate(b Block) {
	if b.IsZero() {
		return
	}
	h.deallocations.Add(1)
	h.inUse.Add(-int64(b.Reserved()))
}

// Allocations returns the number of successful Allocate calls.
func (h *HeapAllocator) Allocations() int64 { return h.allocations.Load() }

// Deallocations returns the number of Deallocate calls that released a block.
func (h *HeapAllocator) Deallocations() int64 { return h.deallocations.Load() }

// InUse returns the bytes currently reserved.
func (h *HeapAllocator) InUse() int64 { return h.inUse.Load() }

// ArrowAllocator reserves aligned byte buffers from an Arrow memory
// allocator, optionally bounded by a byte limit.
type ArrowAllocator struct {
	mem   memory.Allocator
	limit int64

	mu    sync.Mutex
	inUse int64
}

// NewArrowAllocator wraps mem. A nil mem selects memory.NewGoAllocator().
// A limit of 0 or less means unlimited.
func NewArrowAllocator(mem memory.Allocator, limit int64) *ArrowAllocator {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &ArrowAllocator{mem: mem, limit: limit}
}

// Allocate implements Allocator. It fails with an allocator error wrapping
// errors.ErrAllocatorExhausted when the reservation would exceed the limit.
func (a *ArrowAllocator) Allocate(size, alignment int) (Block, error) {
	if err := checkAlignment(alignment); err != nil {
		return Block{}, err
	}
	reserved := alignUp(size, alignment)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.limit > 0 && a.inUse+int64(reserved) > a.limit {
		return Block{}, errors.Wrap(errors.ErrAllocatorExhausted, errors.ErrorTypeAllocator, "memory limit reached").
			WithDetail("requested", reserved).
			WithDetail("in_use", a.inUse).
			WithDetail("limit", a.limit)
	}

	a.inUse += int64(reserved)
	return Block{
		Size:      size,
		Alignment: alignment,
		buf:       a.mem.Allocate(reserved),
	}, nil
}

// Deallocate implements Allocator.
func (a *ArrowAllocator) Deallocate(b Block) {
	if b.IsZero() {
		return
	}
	a.mu.Lock()
	a.inUse -= int64(b.Reserved())
	a.mu.Unlock()
	a.mem.Free(b.buf)
}

// InUse returns the bytes currently reserved.
func (a *ArrowAllocator) InUse() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}

// Limit returns the configured byte limit, 0 meaning unlimited.
func (a *ArrowAllocator) Limit() int64 {
	if a.limit < 0 {
		return 0
	}
	return a.limit
}
