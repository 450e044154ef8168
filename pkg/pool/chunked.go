package pool

import (
	"math"
	"unsafe"

	"go.uber.org/zap"

	"github.com/ajitpratap0/triton/pkg/config"
	"github.com/ajitpratap0/triton/pkg/errors"
	"github.com/ajitpratap0/triton/pkg/handle"
	"github.com/ajitpratap0/triton/pkg/identifier"
	"github.com/ajitpratap0/triton/pkg/logger"
	"github.com/ajitpratap0/triton/pkg/metrics"
	"github.com/ajitpratap0/triton/pkg/object"
)

// chunk is one fixed-capacity block of elements. gens holds the slot
// generation of every element for handle validation; 0 marks a slot with
// no live occupant.
type chunk[T any] struct {
	items []T
	gens  []uint64
}

// ChunkedStats is a snapshot of a ChunkedPool's counters.
type ChunkedStats struct {
	Live             int   `json:"live"`
	Capacity         int   `json:"capacity"`
	Chunks           int   `json:"chunks"`
	PerChunk         int   `json:"per_chunk"`
	CacheSlots       int   `json:"cache_slots"`
	CacheHits        int64 `json:"cache_hits"`
	Fallbacks        int64 `json:"fallbacks"`
	Misses           int64 `json:"misses"`
	ChunkAllocs      int64 `json:"chunk_allocs"`
	ChunkReleases    int64 `json:"chunk_releases"`
	CapacityFailures int64 `json:"capacity_failures"`
	RecycledChunks   int64 `json:"recycled_chunks"`
}

// ChunkedPool stores instances of T densely in a growable sequence of
// fixed-capacity chunks and finds them by identifier through a
// direct-mapped hash cache backed by a linear scan.
//
// Elements live at global positions [0, Len()). Delete moves the last
// element into the freed position, so positions are not stable across
// deletions; identifiers are. The cache never grows and colliding inserts
// overwrite each other, so every cache hit is re-validated against the
// element's identifier and any mismatch falls back to the scan.
//
// A ChunkedPool has a single owner and is not safe for concurrent use.
// Pointers returned by Add and Find are valid until the next Delete or
// Reset on the pool. Callbacks run by the pool (Each, constructors passed to
// Add and Finalize hooks) must not add or delete elements; doing so panics.
type ChunkedPool[T any, P object.Object[T]] struct {
	name      string
	typeTag   string
	perChunk  int
	maxChunks int
	chunks    []*chunk[T]
	live      int

	cache  []cacheSlot
	mask   uint64
	hasher Hasher

	generator  *identifier.Generator
	generation uint64
	storage    *Pool[*chunk[T]]
	busy       int

	logger  *zap.Logger
	metrics *metrics.PoolRecorder
	stats   ChunkedStats
}

// ChunkedOption configures a ChunkedPool.
type ChunkedOption func(*chunkedOptions)

type chunkedOptions struct {
	name      string
	logger    *zap.Logger
	hasher    Hasher
	generator *identifier.Generator
	metrics   bool
}

// WithName sets the pool name used in logs and metric labels. It defaults
// to the element type tag.
func WithName(name string) ChunkedOption {
	return func(o *chunkedOptions) { o.name = name }
}

// WithLogger sets the logger. It defaults to the global logger.
func WithLogger(l *zap.Logger) ChunkedOption {
	return func(o *chunkedOptions) { o.logger = l }
}

// WithHasher replaces the cache hasher. It defaults to XXHash.
func WithHasher(h Hasher) ChunkedOption {
	return func(o *chunkedOptions) { o.hasher = h }
}

// WithGenerator sets the identifier generator. It defaults to the
// process-wide generator.
func WithGenerator(g *identifier.Generator) ChunkedOption {
	return func(o *chunkedOptions) { o.generator = g }
}

// WithMetrics enables Prometheus reporting for the pool.
func WithMetrics(enabled bool) ChunkedOption {
	return func(o *chunkedOptions) { o.metrics = enabled }
}

// NewChunkedPool creates a pool whose chunks hold chunkBytes/sizeof(T)
// elements, with at most maxChunks chunks and a hash cache of
// hashCacheBytes. The first chunk is allocated immediately.
//
// It returns a configuration error when an element does not fit in a
// chunk, when T has zero size, or when the cache budget holds no slot.
func NewChunkedPool[T any, P object.Object[T]](chunkBytes, maxChunks, hashCacheBytes int, opts ...ChunkedOption) (*ChunkedPool[T, P], error) {
	typeTag := object.TypeTagOf[T, P]()

	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize == 0 {
		return nil, errors.Newf(errors.ErrorTypeConfig, "type %s has zero size", typeTag)
	}
	if chunkBytes <= 0 || maxChunks <= 0 {
		return nil, errors.New(errors.ErrorTypeConfig, "chunk size and chunk count must be positive").
			WithDetail("chunk_bytes", chunkBytes).
			WithDetail("max_chunks", maxChunks)
	}

	perChunk := chunkBytes / elemSize
	if perChunk == 0 {
		return nil, errors.Newf(errors.ErrorTypeConfig, "%s of %d bytes does not fit in a chunk of %d bytes", typeTag, elemSize, chunkBytes).
			WithDetail("object_bytes", elemSize).
			WithDetail("chunk_bytes", chunkBytes)
	}
	if uint64(perChunk)*uint64(maxChunks) > math.MaxUint32 {
		return nil, errors.Newf(errors.ErrorTypeConfig, "capacity of %d chunks of %d exceeds the handle index range", maxChunks, perChunk)
	}

	slots := hashCacheBytes / cacheSlotBytes
	if slots < 1 {
		return nil, errors.Newf(errors.ErrorTypeConfig, "hash cache budget of %d bytes holds no slot", hashCacheBytes)
	}

	o := chunkedOptions{hasher: XXHash, generator: identifier.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		o.name = typeTag
	}
	if o.logger == nil {
		o.logger = logger.Get()
	}

	mask := hashMask(slots)
	p := &ChunkedPool[T, P]{
		name:      o.name,
		typeTag:   typeTag,
		perChunk:  perChunk,
		maxChunks: maxChunks,
		chunks:    make([]*chunk[T], 0, maxChunks),
		cache:     make([]cacheSlot, mask+1),
		mask:      mask,
		hasher:    o.hasher,
		generator: o.generator,
		logger:    o.logger.With(zap.String("pool", o.name), zap.String("type", typeTag)),
	}
	if o.metrics {
		p.metrics = metrics.NewPoolRecorder(o.name, typeTag)
	}
	p.storage = New(
		func() *chunk[T] {
			return &chunk[T]{
				items: make([]T, perChunk),
				gens:  make([]uint64, perChunk),
			}
		},
		func(c *chunk[T]) {
			clear(c.items)
			clear(c.gens)
		},
	)

	p.allocateChunk()

	p.logger.Debug("chunked pool created",
		zap.Int("object_bytes", elemSize),
		zap.Int("per_chunk", perChunk),
		zap.Int("max_chunks", maxChunks),
		zap.Int("cache_slots", len(p.cache)))

	return p, nil
}

// NewChunkedPoolFromConfig creates a pool from a validated PoolConfig.
func NewChunkedPoolFromConfig[T any, P object.Object[T]](cfg config.PoolConfig, opts ...ChunkedOption) (*ChunkedPool[T, P], error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid pool config")
	}
	hasher, err := HasherByName(cfg.Hasher)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid pool config")
	}
	opts = append([]ChunkedOption{WithHasher(hasher)}, opts...)
	return NewChunkedPool[T, P](cfg.ChunkBytes, cfg.MaxChunks, cfg.HashCacheBytes, opts...)
}

// Add constructs a new element at the end of the dense sequence and
// returns it. ctor, when non-nil, runs on the zeroed element before it is
// stamped with a fresh identifier; if it fails the pool is left unchanged.
//
// Add fails with a capacity error wrapping errors.ErrPoolFull when the
// pool already holds maxChunks*perChunk elements.
func (p *ChunkedPool[T, P]) Add(ctor func(P) error) (P, error) {
	p.mustBeIdle("Add")

	if p.live >= p.Cap() {
		p.stats.CapacityFailures++
		p.metrics.Full()
		p.logger.Warn("pool is full", zap.Int("capacity", p.Cap()))
		return nil, errors.Wrap(errors.ErrPoolFull, errors.ErrorTypeCapacity, "cannot add "+p.typeTag).
			WithDetail("pool", p.name).
			WithDetail("capacity", p.Cap())
	}

	ci, pos := p.locate(p.live)
	grown := false
	if ci == len(p.chunks) {
		p.allocateChunk()
		grown = true
	}

	c := p.chunks[ci]
	obj := P(&c.items[pos])
	if ctor != nil {
		if err := p.construct(obj, ctor); err != nil {
			var zero T
			c.items[pos] = zero
			if grown {
				p.releaseLastChunk()
			}
			return nil, errors.Wrap(err, errors.ErrorTypeConstruct, "constructor failed for "+p.typeTag).
				WithDetail("pool", p.name)
		}
	}

	id := p.generator.Generate(p.typeTag)
	obj.SetIdentifier(id)
	p.live++
	c.gens[pos] = p.nextGeneration()
	p.cache[p.slotOf(id)] = cacheSlot{chunk: uint32(ci), position: uint32(pos)}

	p.metrics.SetLive(p.live)
	return obj, nil
}

// Find returns the element carrying id. The boolean is false when no live
// element does.
func (p *ChunkedPool[T, P]) Find(id identifier.Identifier) (P, bool) {
	ci, pos, ok := p.lookup(id)
	if !ok {
		return nil, false
	}
	return P(&p.chunks[ci].items[pos]), true
}

// Delete removes the element carrying id and reports whether one existed.
// The last element of the pool is moved into the freed position; if that
// leaves the last chunk empty the chunk is released. Chunk 0 is never
// released.
func (p *ChunkedPool[T, P]) Delete(id identifier.Identifier) bool {
	p.mustBeIdle("Delete")

	ci, pos, ok := p.lookup(id)
	if !ok {
		return false
	}

	target := &p.chunks[ci].items[pos]
	p.inCallback(func() { object.Finalize[T, P](P(target)) })

	lastCi, lastPos := p.locate(p.live - 1)
	lastChunk := p.chunks[lastCi]
	if lastCi != ci || lastPos != pos {
		*target = lastChunk.items[lastPos]
		p.chunks[ci].gens[pos] = p.nextGeneration()
	}

	var zero T
	lastChunk.items[lastPos] = zero
	lastChunk.gens[lastPos] = 0
	p.live--

	// the cache is left as is: lookups re-validate every cached slot
	if lastPos == 0 && lastCi > 0 {
		p.releaseLastChunk()
	}

	p.metrics.SetLive(p.live)
	return true
}

// Handle returns the handle of the live element carrying id.
func (p *ChunkedPool[T, P]) Handle(id identifier.Identifier) (handle.Handle, bool) {
	ci, pos, ok := p.lookup(id)
	if !ok {
		return handle.Nil, false
	}
	return handle.Handle{
		Index:      uint32(ci*p.perChunk + pos),
		Generation: p.chunks[ci].gens[pos],
	}, true
}

// Resolve returns the element h refers to. It fails once the slot's
// occupant has changed since h was issued, including when another element
// was moved into it by Delete.
func (p *ChunkedPool[T, P]) Resolve(h handle.Handle) (P, bool) {
	if h.IsNil() || int(h.Index) >= p.live {
		return nil, false
	}
	ci, pos := p.locate(int(h.Index))
	c := p.chunks[ci]
	if c.gens[pos] != h.Generation {
		return nil, false
	}
	return P(&c.items[pos]), true
}

// Each calls fn for every live element in dense order until fn returns
// false. fn must not add or delete elements; doing so panics.
func (p *ChunkedPool[T, P]) Each(fn func(P) bool) {
	p.busy++
	defer func() { p.busy-- }()

	remaining := p.live
	for _, c := range p.chunks {
		n := min(remaining, p.perChunk)
		for i := 0; i < n; i++ {
			if !fn(P(&c.items[i])) {
				return
			}
		}
		remaining -= n
		if remaining == 0 {
			return
		}
	}
}

// Reset finalizes and removes every element and releases every chunk but
// the first.
func (p *ChunkedPool[T, P]) Reset() {
	p.mustBeIdle("Reset")

	p.Each(func(obj P) bool {
		object.Finalize[T, P](obj)
		return true
	})
	for len(p.chunks) > 1 {
		p.releaseLastChunk()
	}
	clear(p.chunks[0].items)
	clear(p.chunks[0].gens)
	p.live = 0

	p.metrics.SetLive(0)
	p.logger.Debug("pool reset")
}

// Len returns the number of live elements.
func (p *ChunkedPool[T, P]) Len() int { return p.live }

// Cap returns the maximum number of elements the pool can hold.
func (p *ChunkedPool[T, P]) Cap() int { return p.maxChunks * p.perChunk }

// ChunkCount returns the number of allocated chunks.
func (p *ChunkedPool[T, P]) ChunkCount() int { return len(p.chunks) }

// PerChunk returns how many elements fit in one chunk.
func (p *ChunkedPool[T, P]) PerChunk() int { return p.perChunk }

// Name returns the pool name.
func (p *ChunkedPool[T, P]) Name() string { return p.name }

// Stats returns a snapshot of the pool counters.
func (p *ChunkedPool[T, P]) Stats() ChunkedStats {
	s := p.stats
	s.Live = p.live
	s.Capacity = p.Cap()
	s.Chunks = len(p.chunks)
	s.PerChunk = p.perChunk
	s.CacheSlots = len(p.cache)
	_, _, s.RecycledChunks, _ = p.storage.Stats()
	return s
}

// lookup finds the chunk and position of id: first through the cache,
// validated against the stored identifier, then by scanning every live
// element in chunk-then-slot order.
func (p *ChunkedPool[T, P]) lookup(id identifier.Identifier) (int, int, bool) {
	if id.IsZero() || p.live == 0 {
		p.recordLookup(metrics.LookupMiss)
		return 0, 0, false
	}

	s := p.cache[p.slotOf(id)]
	ci, pos := int(s.chunk), int(s.position)
	if ci < len(p.chunks) && pos < p.perChunk && ci*p.perChunk+pos < p.live &&
		P(&p.chunks[ci].items[pos]).Identifier() == id {
		p.recordLookup(metrics.LookupCacheHit)
		return ci, pos, true
	}

	remaining := p.live
	for ci, c := range p.chunks {
		n := min(remaining, p.perChunk)
		for pos := 0; pos < n; pos++ {
			if P(&c.items[pos]).Identifier() == id {
				p.recordLookup(metrics.LookupFallback)
				return ci, pos, true
			}
		}
		remaining -= n
		if remaining == 0 {
			break
		}
	}

	p.recordLookup(metrics.LookupMiss)
	return 0, 0, false
}

func (p *ChunkedPool[T, P]) recordLookup(result metrics.LookupResult) {
	switch result {
	case metrics.LookupCacheHit:
		p.stats.CacheHits++
	case metrics.LookupFallback:
		p.stats.Fallbacks++
	default:
		p.stats.Misses++
	}
	p.metrics.Lookup(result)
}

func (p *ChunkedPool[T, P]) slotOf(id identifier.Identifier) uint64 {
	return p.hasher(string(id)) & p.mask
}

// locate maps a global position to its chunk and local position.
func (p *ChunkedPool[T, P]) locate(global int) (int, int) {
	return global / p.perChunk, global % p.perChunk
}

func (p *ChunkedPool[T, P]) nextGeneration() uint64 {
	p.generation++
	return p.generation
}

func (p *ChunkedPool[T, P]) allocateChunk() {
	p.chunks = append(p.chunks, p.storage.Get())
	p.stats.ChunkAllocs++
	p.metrics.SetChunks(len(p.chunks))
	p.logger.Debug("chunk allocated", zap.Int("chunk", len(p.chunks)-1))
}

func (p *ChunkedPool[T, P]) releaseLastChunk() {
	last := len(p.chunks) - 1
	c := p.chunks[last]
	p.chunks[last] = nil
	p.chunks = p.chunks[:last]
	p.storage.Put(c)
	p.stats.ChunkReleases++
	p.metrics.SetChunks(len(p.chunks))
	p.logger.Debug("chunk released", zap.Int("chunk", last))
}

func (p *ChunkedPool[T, P]) mustBeIdle(op string) {
	if p.busy > 0 {
		panic("pool: " + op + " called on " + p.name + " from inside a pool callback")
	}
}

func (p *ChunkedPool[T, P]) inCallback(fn func()) {
	p.busy++
	defer func() { p.busy-- }()
	fn()
}

func (p *ChunkedPool[T, P]) construct(obj P, ctor func(P) error) (err error) {
	p.inCallback(func() { err = ctor(obj) })
	return err
}
