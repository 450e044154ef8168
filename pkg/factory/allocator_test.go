package factory

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/triton/pkg/errors"
)

func TestAlignUp(t *testing.T) {
	tests := []struct {
		size, alignment, want int
	}{
		{0, 64, 0},
		{1, 64, 64},
		{64, 64, 64},
		{65, 64, 128},
		{24, 8, 24},
		{25, 8, 32},
		{7, 1, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, alignUp(tt.size, tt.alignment), "alignUp(%d, %d)", tt.size, tt.alignment)
	}
}

func TestHeapAllocator(t *testing.T) {
	h := NewHeapAllocator()

	b, err := h.Allocate(40, 16)
	require.NoError(t, err)
	assert.False(t, b.IsZero())
	assert.Equal(t, 48, b.Reserved())
	assert.Equal(t, int64(1), h.Allocations())
	assert.Equal(t, int64(48), h.InUse())

	h.Deallocate(b)
	h.Deallocate(Block{})
	assert.Equal(t, int64(1), h.Deallocations())
	assert.Equal(t, int64(0), h.InUse())

	_, err = h.Allocate(40, 12)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestArrowAllocator_Accounting(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	a := NewArrowAllocator(mem, 0)

	b1, err := a.Allocate(10, 64)
	require.NoError(t, err)
	b2, err := a.Allocate(100, 64)
	require.NoError(t, err)

	assert.Len(t, b1.buf, 64)
	assert.Len(t, b2.buf, 128)
	assert.Equal(t, 192, mem.CurrentAlloc())
	assert.Equal(t, int64(192), a.InUse())

	a.Deallocate(b1)
	a.Deallocate(b2)
	mem.AssertSize(t, 0)
	assert.Equal(t, int64(0), a.InUse())
}

func TestArrowAllocator_Limit(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	a := NewArrowAllocator(mem, 128)
	assert.Equal(t, int64(128), a.Limit())

	b1, err := a.Allocate(50, 64)
	require.NoError(t, err)
	b2, err := a.Allocate(64, 64)
	require.NoError(t, err)

	_, err = a.Allocate(1, 64)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAllocator))
	assert.True(t, errors.Is(err, errors.ErrAllocatorExhausted))
	assert.Equal(t, 128, mem.CurrentAlloc())

	a.Deallocate(b1)
	b3, err := a.Allocate(1, 64)
	require.NoError(t, err)

	a.Deallocate(b2)
	a.Deallocate(b3)
	mem.AssertSize(t, 0)
}

func TestArrowAllocator_Defaults(t *testing.T) {
	a := NewArrowAllocator(nil, -1)
	assert.Equal(t, int64(0), a.Limit())

	b, err := a.Allocate(1<<20, 64)
	require.NoError(t, err)
	a.Deallocate(b)
	assert.Equal(t, int64(0), a.InUse())
}
