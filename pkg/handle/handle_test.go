package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandle(t *testing.T) {
	assert.True(t, Nil.IsNil())
	assert.True(t, Handle{Index: 3}.IsNil())

	h := Handle{Index: 3, Generation: 7}
	assert.False(t, h.IsNil())
	assert.True(t, h.Equal(Handle{Index: 3, Generation: 7}))
	assert.False(t, h.Equal(Handle{Index: 3, Generation: 8}))
	assert.False(t, h.Equal(Handle{Index: 4, Generation: 7}))
	assert.Equal(t, "3@7", h.String())
}
