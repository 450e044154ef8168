// Package pool implements Triton's object storage: a chunked, densely
// packed pool of typed elements with identifier lookup, and the generic
// recycling pool it uses for chunk storage.
//
// # Architecture
//
// ChunkedPool[T] owns an ordered sequence of fixed-capacity chunks. The
// number of elements per chunk is the chunk byte budget divided by the
// size of T; the number of chunks is bounded by a configured maximum. The
// first chunk is allocated at construction, later ones when the live
// element count crosses a chunk boundary, and the last chunk is released
// again once deletions empty it.
//
// Elements are dense: the live elements occupy global positions
// [0, Len()) with no gaps. Delete keeps them dense with a swap-remove,
// moving the last element into the freed position.
//
// # Lookup
//
// Each pool has a direct-mapped hash cache of (chunk, position) pairs,
// sized once from a byte budget and indexed by hash(id) & mask. Add
// overwrites the slot of the new element's hash, whatever it held. Find
// trusts a cached slot only after comparing the element's identifier with
// the query; otherwise it scans every live element. Lookups are O(1) on a
// cache hit and O(n) on a miss, and never wrong.
//
//	actors, err := pool.NewChunkedPool[Actor](64*1024, 16, 4096)
//	if err != nil {
//	    return err // configuration error
//	}
//
//	a, err := actors.Add(func(a *Actor) error {
//	    a.Name = "player"
//	    return nil
//	})
//	if errors.IsCapacity(err) {
//	    // pool is full
//	}
//
//	if found, ok := actors.Find(a.Identifier()); ok {
//	    found.Name = "hero"
//	}
//	actors.Delete(a.Identifier())
//
// # Handles
//
// Handle(id) returns a handle.Handle naming the element's global position
// and the generation of that slot. Resolve rejects a handle once the slot's
// occupant changed, which includes an element being moved into it by a
// swap-remove.
//
// # Ownership
//
// A ChunkedPool has one owner. It performs no locking and must not be
// mutated from several goroutines. Pool[T], the recycling pool, wraps
// sync.Pool and is safe for concurrent use.
package pool
