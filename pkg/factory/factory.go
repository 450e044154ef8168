package factory

import (
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"go.uber.org/zap"

	"github.com/ajitpratap0/triton/pkg/config"
	"github.com/ajitpratap0/triton/pkg/errors"
	"github.com/ajitpratap0/triton/pkg/identifier"
	"github.com/ajitpratap0/triton/pkg/logger"
	"github.com/ajitpratap0/triton/pkg/metrics"
	"github.com/ajitpratap0/triton/pkg/object"
)

// Kind tells who provided the storage of a record's object.
type Kind uint8

const (
	// Owned objects were reserved from the factory's allocator and are
	// released by Destroy.
	Owned Kind = iota + 1
	// External objects live in caller-supplied storage. Destroy never hands
	// them to the allocator.
	External
)

func (k Kind) String() string {
	switch k {
	case Owned:
		return "owned"
	case External:
		return "external"
	default:
		return "none"
	}
}

// Record is the result of a creation: the object and who owns its storage.
// The zero Record refers to nothing.
//
// Copies of a Record share one entry, so destroying any copy empties all of
// them and a later Destroy through another copy does nothing.
type Record[T any] struct {
	e *entry[T]
}

type entry[T any] struct {
	obj   *T
	kind  Kind
	block Block
}

// Object returns the created object, or nil for an empty record.
func (r Record[T]) Object() *T {
	if r.e == nil {
		return nil
	}
	return r.e.obj
}

// Kind returns the ownership of the record.
func (r Record[T]) Kind() Kind {
	if r.IsNil() {
		return 0
	}
	return r.e.kind
}

// Owned reports whether the factory's allocator holds the object's storage.
func (r Record[T]) Owned() bool { return r.Kind() == Owned }

// IsNil reports whether the record refers to no object.
func (r Record[T]) IsNil() bool { return r.Object() == nil }

// Factory creates objects of one type, either in memory it reserves from an
// Allocator or in place inside a caller's buffer, and stamps each with a
// fresh identifier.
//
// Creation is bounded by a counter that is incremented on every successful
// Create or CreateAt and never decremented. Once it reaches the configured
// limit every further creation fails with a capacity error.
//
// A Factory is safe for concurrent use when its Allocator is.
type Factory[T any, P object.Object[T]] struct {
	typeTag   string
	size      int
	allocator Allocator
	alignment int
	limit     uint64
	generator *identifier.Generator

	counter atomic.Uint64
	live    atomic.Int64

	logger  *zap.Logger
	metrics *metrics.FactoryRecorder
}

// Option configures a Factory.
type Option func(*options)

type options struct {
	allocator Allocator
	alignment int
	limit     uint64
	generator *identifier.Generator
	logger    *zap.Logger
	metrics   bool
}

// WithAllocator sets the allocator used by Create. It defaults to a
// HeapAllocator.
func WithAllocator(a Allocator) Option {
	return func(o *options) { o.allocator = a }
}

// WithAlignment sets the alignment requested from the allocator. It defaults
// to config.DefaultAlignment.
func WithAlignment(alignment int) Option {
	return func(o *options) { o.alignment = alignment }
}

// WithLimit caps the creation counter. It defaults to math.MaxUint64.
func WithLimit(limit uint64) Option {
	return func(o *options) { o.limit = limit }
}

// WithGenerator sets the identifier generator. It defaults to the
// process-wide generator.
func WithGenerator(g *identifier.Generator) Option {
	return func(o *options) { o.generator = g }
}

// WithLogger sets the logger. It defaults to the global logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics enables Prometheus reporting for the factory.
func WithMetrics(enabled bool) Option {
	return func(o *options) { o.metrics = enabled }
}

// New creates a factory for T.
func New[T any, P object.Object[T]](opts ...Option) *Factory[T, P] {
	o := options{
		alignment: config.DefaultAlignment,
		limit:     math.MaxUint64,
		generator: identifier.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.allocator == nil {
		o.allocator = NewHeapAllocator()
	}
	if o.logger == nil {
		o.logger = logger.Get()
	}

	var zero T
	typeTag := object.TypeTagOf[T, P]()
	f := &Factory[T, P]{
		typeTag:   typeTag,
		size:      int(unsafe.Sizeof(zero)),
		allocator: o.allocator,
		alignment: o.alignment,
		limit:     o.limit,
		generator: o.generator,
		logger:    o.logger.With(zap.String("factory", typeTag)),
	}
	if o.metrics {
		f.metrics = metrics.NewFactoryRecorder(typeTag)
	}
	return f
}

// NewFromConfig creates a factory from a FactoryConfig, selecting the
// allocator it names.
func NewFromConfig[T any, P object.Object[T]](cfg config.FactoryConfig, opts ...Option) (*Factory[T, P], error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid factory config")
	}

	var alloc Allocator
	switch cfg.Allocator {
	case "arrow":
		alloc = NewArrowAllocator(memory.NewGoAllocator(), int64(cfg.MemoryLimitBytes))
	default:
		alloc = NewHeapAllocator()
	}

	opts = append([]Option{
		WithAllocator(alloc),
		WithAlignment(cfg.Alignment),
		WithLimit(cfg.Limit()),
	}, opts...)
	return New[T, P](opts...), nil
}

// Create reserves storage for a new T from the allocator, runs ctor on the
// zeroed object and stamps it with a fresh identifier. The record is Owned.
//
// Create fails with a capacity error once the counter reached its limit and
// with an allocator error when the allocator refuses. A failing ctor is
// returned as a construct error. On failure the record is empty and any
// reservation has been released.
func (f *Factory[T, P]) Create(ctor func(P) error) (Record[T], error) {
	if err := f.reserve(); err != nil {
		return Record[T]{}, err
	}

	block, err := f.allocator.Allocate(f.size, f.alignment)
	if err != nil {
		f.unreserve()
		f.metrics.Failed("allocator")
		f.logger.Warn("allocator refused object", zap.Int("size", f.size), zap.Error(err))
		return Record[T]{}, errors.Wrap(err, errors.ErrorTypeAllocator, "cannot allocate "+f.typeTag).
			WithDetail("size", f.size).
			WithDetail("alignment", f.alignment)
	}

	obj := new(T)
	if err := f.construct(obj, ctor); err != nil {
		f.allocator.Deallocate(block)
		f.unreserve()
		return Record[T]{}, err
	}

	f.live.Add(1)
	f.metrics.Created(Owned.String())
	return Record[T]{e: &entry[T]{obj: obj, kind: Owned, block: block}}, nil
}

// CreateAt constructs a new T in place at buf[index]. The allocator is not
// involved and the record is External. The slot is zeroed before ctor runs
// and again if ctor fails.
//
// An index outside buf is a validation error.
func (f *Factory[T, P]) CreateAt(buf []T, index int, ctor func(P) error) (Record[T], error) {
	if index < 0 || index >= len(buf) {
		return Record[T]{}, errors.Newf(errors.ErrorTypeValidation, "index %d out of range for buffer of %d", index, len(buf)).
			WithDetail("type", f.typeTag)
	}
	if err := f.reserve(); err != nil {
		return Record[T]{}, err
	}

	obj := &buf[index]
	var zero T
	*obj = zero
	if err := f.construct(obj, ctor); err != nil {
		*obj = zero
		f.unreserve()
		return Record[T]{}, err
	}

	f.live.Add(1)
	f.metrics.Created(External.String())
	return Record[T]{e: &entry[T]{obj: obj, kind: External}}, nil
}

// Destroy finalizes and zeroes the record's object, returns owned storage to
// the allocator and clears the record along with every copy of it.
// Destroying an empty record, or the same record twice, does nothing.
func (f *Factory[T, P]) Destroy(rec *Record[T]) {
	if rec == nil || rec.IsNil() {
		return
	}
	e := rec.e
	obj, kind, block := e.obj, e.kind, e.block
	*e = entry[T]{}
	*rec = Record[T]{}

	object.Finalize[T, P](P(obj))
	var zero T
	*obj = zero

	if kind == Owned {
		f.allocator.Deallocate(block)
	}

	f.live.Add(-1)
	f.metrics.Destroyed(kind.String())
}

// Created returns the creation counter.
func (f *Factory[T, P]) Created() uint64 { return f.counter.Load() }

// Live returns the number of created objects not yet destroyed.
func (f *Factory[T, P]) Live() int64 { return f.live.Load() }

// Limit returns the creation counter ceiling.
func (f *Factory[T, P]) Limit() uint64 { return f.limit }

// TypeTag returns the tag of the objects this factory creates.
func (f *Factory[T, P]) TypeTag() string { return f.typeTag }

func (f *Factory[T, P]) construct(obj *T, ctor func(P) error) error {
	p := P(obj)
	if ctor != nil {
		if err := ctor(p); err != nil {
			f.metrics.Failed("construct")
			return errors.Wrap(err, errors.ErrorTypeConstruct, "constructor failed for "+f.typeTag)
		}
	}
	p.SetIdentifier(f.generator.Generate(f.typeTag))
	return nil
}

// reserve claims one unit of the creation counter.
func (f *Factory[T, P]) reserve() error {
	for {
		n := f.counter.Load()
		if n >= f.limit {
			f.metrics.Failed("counter")
			f.logger.Error("can't create object of type '"+f.typeTag+"'", zap.Uint64("created", n))
			return errors.Wrap(errors.ErrCounterExhausted, errors.ErrorTypeCapacity, "can't create object of type "+f.typeTag).
				WithDetail("limit", f.limit)
		}
		if f.counter.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

func (f *Factory[T, P]) unreserve() {
	f.counter.Add(^uint64(0))
}
