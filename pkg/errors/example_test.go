// Package errors provides examples of structured error handling in Triton.
package errors_test

import (
	"fmt"

	"github.com/ajitpratap0/triton/pkg/errors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := errors.New(errors.ErrorTypeConfig, "object does not fit in chunk").
		WithDetail("chunk_bytes", 16).
		WithDetail("object_bytes", 32)

	fmt.Println(err.Error())

	// Output:
	// config: object does not fit in chunk
}

// ExampleWrap shows how capacity failures keep their sentinel cause.
func ExampleWrap() {
	err := errors.Wrap(errors.ErrPoolFull, errors.ErrorTypeCapacity, "cannot add Actor").
		WithDetail("capacity", 8)

	if errors.IsCapacity(err) {
		fmt.Println("capacity error")
	}
	if errors.Is(err, errors.ErrPoolFull) {
		fmt.Println("pool is full")
	}

	// Output:
	// capacity error
	// pool is full
}

// ExampleIsType shows how to branch on error categories.
func ExampleIsType() {
	err := errors.Newf(errors.ErrorTypeValidation, "index %d out of range", 12)

	switch {
	case errors.IsType(err, errors.ErrorTypeValidation):
		fmt.Println("bad argument:", err.Message)
	case errors.IsConfig(err):
		fmt.Println("bad configuration")
	}

	// Output:
	// bad argument: index 12 out of range
}
