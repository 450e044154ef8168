// Package object defines the contract every pooled or factory-managed type
// satisfies: a static type tag and an identifier slot.
//
// Types embed Base and add a TypeTag method:
//
//	type Actor struct {
//		object.Base
//		Name string
//	}
//
//	func (*Actor) TypeTag() string { return "Actor" }
//
// TypeTag is called on a nil *T to obtain the tag before any instance
// exists, so it must not read the receiver.
package object

import "github.com/ajitpratap0/triton/pkg/identifier"

// Base carries the identifier of a managed object.
type Base struct {
	id identifier.Identifier
}

// Identifier returns the identifier stamped at creation.
func (b *Base) Identifier() identifier.Identifier {
	return b.id
}

// SetIdentifier stamps the object. Pools and factories call it once per
// construction.
func (b *Base) SetIdentifier(id identifier.Identifier) {
	b.id = id
}

// Object is the constraint for *T where T is a managed type.
type Object[T any] interface {
	*T
	TypeTag() string
	Identifier() identifier.Identifier
	SetIdentifier(identifier.Identifier)
}

// Finalizer is implemented by types that hold resources which must be
// released before their storage is reused.
type Finalizer interface {
	Finalize()
}

// TypeTagOf returns the static type tag of T.
func TypeTagOf[T any, P Object[T]]() string {
	return P(nil).TypeTag()
}

// Finalize runs the Finalizer of p, if any.
func Finalize[T any, P Object[T]](p P) {
	if f, ok := any(p).(Finalizer); ok {
		f.Finalize()
	}
}
