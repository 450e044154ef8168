// Package factory creates typed objects one at a time, either in storage it
// reserves from an Allocator or in place inside a buffer the caller owns.
//
// Every creation returns a Record that remembers which of the two it was, so
// Destroy only gives storage back to the allocator when the factory took it
// from there:
//
//	controllers := factory.New[Controller](
//	    factory.WithAllocator(factory.NewArrowAllocator(nil, 1<<20)),
//	)
//
//	rec, err := controllers.Create(func(c *Controller) error {
//	    c.Speed = 4
//	    return nil
//	})
//	if err != nil {
//	    return err
//	}
//	defer controllers.Destroy(&rec)
//
//	buf := make([]Controller, 8)
//	inPlace, _ := controllers.CreateAt(buf, 3, nil) // External: buf keeps the storage
//
// Two allocators are provided. HeapAllocator never refuses and only counts.
// ArrowAllocator draws aligned buffers from an Arrow memory.Allocator and can
// enforce a byte limit.
package factory
