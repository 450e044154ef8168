// Package triton provides object storage for a game engine core: densely
// packed pools of typed objects addressed by string identifiers, and a
// factory for objects that live outside any pool.
//
// # Architecture
//
// Triton is built from four small pieces:
//
// 1. Identifiers (pkg/identifier): every object is stamped at creation with
// "<TypeTag><N>", N drawn from an atomic counter that is never reused.
//
// 2. Chunked pools (pkg/pool): objects of one type live contiguously in
// fixed-size chunks. Lookups go through a direct-mapped hash cache that is
// always re-validated and falls back to a linear scan, so a lookup is never
// wrong, only sometimes slower. Deletion swaps the last object into the hole
// to keep storage dense.
//
// 3. Factories (pkg/factory): standalone objects are created either from an
// allocator (owned) or in place inside caller memory (external). Destroy
// only returns owned storage to the allocator.
//
// 4. Handles (pkg/handle): an index plus a generation that detects when a
// pool slot has changed occupant.
//
// # Quick Start
//
//	type Actor struct {
//	    object.Base
//	    Name string
//	}
//
//	func (*Actor) TypeTag() string { return "Actor" }
//
//	actors, err := pool.NewChunkedPoolFromConfig[Actor](config.Default().Pool)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	hero, _ := actors.Add(func(a *Actor) error {
//	    a.Name = "hero"
//	    return nil
//	})
//	found, ok := actors.Find(hero.Identifier())
//
// # Configuration
//
// Pool and factory parameters, logging and metrics are read from YAML with
// ${VAR} substitution (pkg/config). The triton command prints, writes and
// exercises a configuration:
//
//	triton config --defaults --write triton.yaml
//	triton scenario
//	triton bench --count 50000 --config triton.yaml
//
// # Observability
//
// Components log through zap (pkg/logger) and, when metrics are enabled,
// export pool occupancy, lookup paths and factory activity to Prometheus
// (pkg/metrics).
package triton
