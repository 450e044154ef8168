package testutil

import (
	"sync"

	"github.com/ajitpratap0/triton/pkg/errors"
	"github.com/ajitpratap0/triton/pkg/factory"
)

// CountingAllocator records every call made to the allocator it wraps and
// can be told to refuse requests.
type CountingAllocator struct {
	next factory.Allocator

	mu            sync.Mutex
	allocations   int
	deallocations int
	refuse        bool
}

// NewCountingAllocator wraps next. A nil next selects a HeapAllocator.
func NewCountingAllocator(next factory.Allocator) *CountingAllocator {
	if next == nil {
		next = factory.NewHeapAllocator()
	}
	return &CountingAllocator{next: next}
}

// Allocate implements factory.Allocator.
func (c *CountingAllocator) Allocate(size, alignment int) (factory.Block, error) {
	c.mu.Lock()
	refuse := c.refuse
	c.mu.Unlock()
	if refuse {
		return factory.Block{}, errors.Wrap(errors.ErrAllocatorExhausted, errors.ErrorTypeAllocator, "refused by test allocator")
	}

	b, err := c.next.Allocate(size, alignment)
	if err == nil {
		c.mu.Lock()
		c.allocations++
		c.mu.Unlock()
	}
	return b, err
}

// Deallocate implements factory.Allocator.
func (c *CountingAllocator) Deallocate(b factory.Block) {
	c.mu.Lock()
	c.deallocations++
	c.mu.Unlock()
	c.next.Deallocate(b)
}

// Refuse makes every following Allocate fail until called with false.
func (c *CountingAllocator) Refuse(refuse bool) {
	c.mu.Lock()
	c.refuse = refuse
	c.mu.Unlock()
}

// Allocations returns the number of successful Allocate calls.
func (c *CountingAllocator) Allocations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allocations
}

// Deallocations returns the number of Deallocate calls.
func (c *CountingAllocator) Deallocations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deallocations
}
