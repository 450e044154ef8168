// Package pool provides example usage of the chunked object pool.
package pool_test

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/ajitpratap0/triton/pkg/errors"
	"github.com/ajitpratap0/triton/pkg/identifier"
	"github.com/ajitpratap0/triton/pkg/object"
	"github.com/ajitpratap0/triton/pkg/pool"
)

type Light struct {
	object.Base
	Intensity float64
}

func (*Light) TypeTag() string { return "Light" }

// Example demonstrates adding, finding and deleting pooled objects.
func Example() {
	size := int(unsafe.Sizeof(Light{}))
	lights, err := pool.NewChunkedPool[Light](4*size, 2, 64,
		pool.WithGenerator(identifier.NewGenerator()),
		pool.WithLogger(zap.NewNop()))
	if err != nil {
		panic(err)
	}

	sun, _ := lights.Add(func(l *Light) error {
		l.Intensity = 100
		return nil
	})
	lamp, _ := lights.Add(nil)
	// Delete may move elements, so keep identifiers rather than pointers.
	sunID, lampID := sun.Identifier(), lamp.Identifier()

	found, ok := lights.Find(sunID)
	fmt.Println(found.Identifier(), ok, found.Intensity)

	lights.Delete(sunID)
	_, ok = lights.Find(sunID)
	fmt.Println(ok, lights.Len())

	found, _ = lights.Find(lampID)
	fmt.Println(found.Identifier())

	// Output:
	// Light0 true 100
	// false 1
	// Light1
}

// ExampleChunkedPool_Add shows the capacity failure of a full pool.
func ExampleChunkedPool_Add() {
	size := int(unsafe.Sizeof(Light{}))
	lights, _ := pool.NewChunkedPool[Light](2*size, 1, 64, pool.WithLogger(zap.NewNop()))

	for i := 0; i < 3; i++ {
		if _, err := lights.Add(nil); err != nil {
			fmt.Println(errors.IsCapacity(err), errors.Is(err, errors.ErrPoolFull))
		}
	}
	fmt.Println(lights.Len(), lights.Cap())

	// Output:
	// true true
	// 2 2
}
