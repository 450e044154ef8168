package errors

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CapturesStack(t *testing.T) {
	err := New(ErrorTypeInternal, "broken")

	require.NotEmpty(t, err.Stack)
	assert.Contains(t, err.Stack[0].Function, "TestNew_CapturesStack")
	assert.Equal(t, "internal: broken", err.Error())
}

func TestWrap_PreservesCauseAndStack(t *testing.T) {
	inner := New(ErrorTypeAllocator, "refused")
	outer := Wrap(inner, ErrorTypeCapacity, "create failed")

	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, stderrors.Is(outer, inner))
	assert.Equal(t, "capacity: create failed: allocator: refused", outer.Error())
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, "nothing"))
}

func TestIsType(t *testing.T) {
	err := Wrap(io.EOF, ErrorTypeConfig, "read config")

	assert.True(t, IsType(err, ErrorTypeConfig))
	assert.True(t, IsConfig(err))
	assert.False(t, IsCapacity(err))
	assert.False(t, IsType(io.EOF, ErrorTypeConfig))
}

func TestSentinels(t *testing.T) {
	err := Wrap(ErrCounterExhausted, ErrorTypeCapacity, "cannot create Actor")

	assert.True(t, Is(err, ErrCounterExhausted))
	assert.False(t, Is(err, ErrPoolFull))

	var typed *Error
	require.True(t, As(err, &typed))
	assert.Equal(t, ErrorTypeCapacity, typed.Type)
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeValidation, "bad index").WithDetail("index", 4).WithDetail("len", 2)

	assert.Equal(t, map[string]interface{}{"index": 4, "len": 2}, err.Details)
}
