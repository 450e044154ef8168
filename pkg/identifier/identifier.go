// Package identifier issues the string identifiers that name every object
// created by a pool or a factory.
//
// An identifier is the object's type tag followed by a sequence number,
// for example "Actor17". Sequence numbers come from a single monotonically
// increasing counter per Generator, so they are never reused after an
// object is destroyed and identifiers of different type tags never
// collide. Identifiers are unique for the lifetime of the process only.
package identifier

import (
	"strconv"
	"sync/atomic"
)

// Identifier is an opaque object name of the form "<Type><N>".
type Identifier string

// String returns the identifier text.
func (id Identifier) String() string {
	return string(id)
}

// IsZero reports whether the identifier was never assigned.
func (id Identifier) IsZero() bool {
	return id == ""
}

// Generator hands out identifiers. The zero value is ready to use and safe
// for concurrent use.
type Generator struct {
	counter atomic.Uint64
}

// NewGenerator returns a generator with its own counter, independent of
// the process-wide default.
func NewGenerator() *Generator {
	return &Generator{}
}

var defaultGenerator Generator

// Default returns the process-wide generator.
func Default() *Generator {
	return &defaultGenerator
}

// Generate returns a fresh identifier for an object of the given type tag.
func (g *Generator) Generate(tag string) Identifier {
	n := g.counter.Add(1) - 1

	var scratch [64]byte
	buf := append(scratch[:0], tag...)
	if endsInDigit(tag) {
		// keep "Cell1"+"2" apart from "Cell"+"12"
		buf = append(buf, '-')
	}
	buf = strconv.AppendUint(buf, n, 10)

	return Identifier(buf)
}

// Issued returns how many identifiers the generator has produced.
func (g *Generator) Issued() uint64 {
	return g.counter.Load()
}

// Generate returns a fresh identifier from the default generator.
func Generate(tag string) Identifier {
	return defaultGenerator.Generate(tag)
}

func endsInDigit(s string) bool {
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	return c >= '0' && c <= '9'
}
