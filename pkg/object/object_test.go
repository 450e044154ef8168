package object

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajitpratap0/triton/pkg/identifier"
)

type widget struct {
	Base
	finalized bool
}

func (*widget) TypeTag() string { return "Widget" }

func (w *widget) Finalize() { w.finalized = true }

type plain struct {
	Base
}

func (*plain) TypeTag() string { return "Plain" }

func TestTypeTagOf(t *testing.T) {
	assert.Equal(t, "Widget", TypeTagOf[widget]())
	assert.Equal(t, "Plain", TypeTagOf[plain]())
}

func TestBase_Identifier(t *testing.T) {
	var w widget
	assert.True(t, w.Identifier().IsZero())

	w.SetIdentifier(identifier.Identifier("Widget9"))
	assert.Equal(t, identifier.Identifier("Widget9"), w.Identifier())
}

func TestFinalize(t *testing.T) {
	w := &widget{}
	Finalize[widget](w)
	assert.True(t, w.finalized)

	// types without a Finalizer are left alone
	Finalize[plain](&plain{})
}

func TestTag(t *testing.T) {
	tag := NewTag("player")
	assert.True(t, tag.Compare("player"))
	assert.False(t, tag.Compare("play"))
	assert.False(t, tag.Compare("players"))
	assert.Equal(t, 6, tag.Len())
	assert.Equal(t, "player", tag.String())
	assert.False(t, tag.IsZero())
	assert.Equal(t, NewTag("player"), tag)
}

func TestTag_Limits(t *testing.T) {
	fits := strings.Repeat("x", MaxTagSize-1)
	assert.True(t, NewTag(fits).Compare(fits))

	tooLong := strings.Repeat("x", MaxTagSize)
	assert.True(t, NewTag(tooLong).IsZero())
	assert.False(t, NewTag(tooLong).Compare(tooLong))

	var empty Tag
	assert.True(t, empty.IsZero())
	assert.True(t, empty.Compare(""))
	assert.Equal(t, empty, NewTag(""))
}
