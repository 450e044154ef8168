// Package scene is a registry of actors and their controllers. Actors live
// densely in a chunked pool; controllers are created on demand by a factory
// and attached to one actor each.
package scene

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/triton/pkg/config"
	"github.com/ajitpratap0/triton/pkg/errors"
	"github.com/ajitpratap0/triton/pkg/factory"
	"github.com/ajitpratap0/triton/pkg/handle"
	"github.com/ajitpratap0/triton/pkg/identifier"
	"github.com/ajitpratap0/triton/pkg/logger"
	"github.com/ajitpratap0/triton/pkg/object"
	"github.com/ajitpratap0/triton/pkg/pool"
)

// Actor is an entity placed in a scene.
type Actor struct {
	object.Base
	Name     string
	Tag      object.Tag
	Position [3]float32
	Velocity [3]float32
}

func (*Actor) TypeTag() string { return "Actor" }

// Controller drives one actor.
type Controller struct {
	object.Base
	Actor identifier.Identifier
	Speed float32
}

func (*Controller) TypeTag() string { return "Controller" }

// Stats summarizes a scene.
type Stats struct {
	Name        string            `json:"name"`
	Actors      pool.ChunkedStats `json:"actors"`
	Controllers int64             `json:"controllers"`
	Created     uint64            `json:"controllers_created"`
}

// Scene owns the actors and controllers of one level. It is not safe for
// concurrent use.
type Scene struct {
	name        string
	actors      *pool.ChunkedPool[Actor, *Actor]
	controllers *factory.Factory[Controller, *Controller]
	attached    map[identifier.Identifier]factory.Record[Controller]
	logger      *zap.Logger
}

// Option configures a Scene.
type Option func(*options)

type options struct {
	logger    *zap.Logger
	generator *identifier.Generator
}

// WithLogger sets the logger. It defaults to the global logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithGenerator sets the generator shared by actors and controllers.
func WithGenerator(g *identifier.Generator) Option {
	return func(o *options) { o.generator = g }
}

// New creates an empty scene sized by cfg.
func New(name string, cfg *config.Config, opts ...Option) (*Scene, error) {
	o := options{generator: identifier.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get()
	}
	log := o.logger.With(zap.String(string(logger.SceneKey), name))

	actors, err := pool.NewChunkedPoolFromConfig[Actor](cfg.Pool,
		pool.WithName(name+"/actors"),
		pool.WithLogger(log),
		pool.WithGenerator(o.generator),
		pool.WithMetrics(cfg.Metrics.Enabled))
	if err != nil {
		return nil, err
	}

	controllers, err := factory.NewFromConfig[Controller](cfg.Factory,
		factory.WithLogger(log),
		factory.WithGenerator(o.generator),
		factory.WithMetrics(cfg.Metrics.Enabled))
	if err != nil {
		return nil, err
	}

	return &Scene{
		name:        name,
		actors:      actors,
		controllers: controllers,
		attached:    make(map[identifier.Identifier]factory.Record[Controller]),
		logger:      log,
	}, nil
}

// Spawn places a new actor named name at the origin.
func (s *Scene) Spawn(name string) (*Actor, error) {
	a, err := s.actors.Add(func(a *Actor) error {
		if name == "" {
			return errors.New(errors.ErrorTypeValidation, "actor name is required")
		}
		a.Name = name
		a.Tag = object.NewTag(name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("actor spawned", zap.Stringer("actor", a.Identifier()), zap.String("name", name))
	return a, nil
}

// Actor returns the live actor with the given identifier.
func (s *Scene) Actor(id identifier.Identifier) (*Actor, bool) {
	return s.actors.Find(id)
}

// Handle returns a handle to the actor that stays checkable across
// despawns of other actors.
func (s *Scene) Handle(id identifier.Identifier) (handle.Handle, bool) {
	return s.actors.Handle(id)
}

// Resolve returns the actor h refers to if it still occupies its slot.
func (s *Scene) Resolve(h handle.Handle) (*Actor, bool) {
	return s.actors.Resolve(h)
}

// Despawn removes an actor and destroys its controller, if any.
func (s *Scene) Despawn(id identifier.Identifier) bool {
	if _, ok := s.actors.Find(id); !ok {
		return false
	}
	s.DetachController(id)
	return s.actors.Delete(id)
}

// AttachController creates a controller for the actor. An actor has at most
// one controller.
func (s *Scene) AttachController(id identifier.Identifier, speed float32) (*Controller, error) {
	if _, ok := s.actors.Find(id); !ok {
		return nil, errors.Newf(errors.ErrorTypeValidation, "no actor %s in scene %s", id, s.name)
	}
	if _, ok := s.attached[id]; ok {
		return nil, errors.Newf(errors.ErrorTypeValidation, "actor %s already has a controller", id)
	}

	rec, err := s.controllers.Create(func(c *Controller) error {
		c.Actor = id
		c.Speed = speed
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.attached[id] = rec
	return rec.Object(), nil
}

// Controller returns the controller attached to the actor.
func (s *Scene) Controller(id identifier.Identifier) (*Controller, bool) {
	rec, ok := s.attached[id]
	if !ok {
		return nil, false
	}
	return rec.Object(), true
}

// DetachController destroys the actor's controller and reports whether it
// had one.
func (s *Scene) DetachController(id identifier.Identifier) bool {
	rec, ok := s.attached[id]
	if !ok {
		return false
	}
	delete(s.attached, id)
	s.controllers.Destroy(&rec)
	return true
}

// Step advances every controlled actor by its velocity scaled with the
// controller speed and dt.
func (s *Scene) Step(dt float32) {
	s.actors.Each(func(a *Actor) bool {
		rec, ok := s.attached[a.Identifier()]
		if !ok {
			return true
		}
		k := rec.Object().Speed * dt
		for i := range a.Position {
			a.Position[i] += a.Velocity[i] * k
		}
		return true
	})
}

// Tagged returns the identifiers of the actors whose tag is text. Names of
// object.MaxTagSize bytes or more leave an actor untagged.
func (s *Scene) Tagged(text string) []identifier.Identifier {
	var ids []identifier.Identifier
	s.actors.Each(func(a *Actor) bool {
		if !a.Tag.IsZero() && a.Tag.Compare(text) {
			ids = append(ids, a.Identifier())
		}
		return true
	})
	return ids
}

// Each calls fn for every actor until fn returns false.
func (s *Scene) Each(fn func(*Actor) bool) {
	s.actors.Each(fn)
}

// Len returns the number of actors.
func (s *Scene) Len() int { return s.actors.Len() }

// Stats returns a snapshot of the scene.
func (s *Scene) Stats() Stats {
	return Stats{
		Name:        s.name,
		Actors:      s.actors.Stats(),
		Controllers: s.controllers.Live(),
		Created:     s.controllers.Created(),
	}
}

// Clear destroys every controller and removes every actor.
func (s *Scene) Clear() {
	for id := range s.attached {
		s.DetachController(id)
	}
	s.actors.Reset()
	s.logger.Debug("scene cleared")
}
