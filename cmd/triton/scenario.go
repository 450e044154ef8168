package main

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/triton/internal/scene"
	"github.com/ajitpratap0/triton/pkg/errors"
	"github.com/ajitpratap0/triton/pkg/factory"
	"github.com/ajitpratap0/triton/pkg/identifier"
	"github.com/ajitpratap0/triton/pkg/logger"
	"github.com/ajitpratap0/triton/pkg/pool"
)

func newScenarioCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scenario",
		Short: "Replay the two-chunk pool scenario step by step",
		Long: `Builds a pool of two chunks holding four actors each, fills it,
overflows it, deletes the third actor and adds one more, printing the pool
state after every step. It then creates one owned and one in-place
controller through a factory and destroys both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd.OutOrStdout())
		},
	}
}

func runScenario(out io.Writer) error {
	log := logger.Get()
	gen := identifier.NewGenerator()

	size := int(unsafe.Sizeof(scene.Actor{}))
	actors, err := pool.NewChunkedPool[scene.Actor](4*size, 2, 64,
		pool.WithName("scenario"),
		pool.WithLogger(log),
		pool.WithGenerator(gen))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "pool: %d actors per chunk, %d chunks max, capacity %d\n",
		actors.PerChunk(), 2, actors.Cap())

	ids := make([]identifier.Identifier, 0, actors.Cap())
	for i := 0; i < actors.Cap(); i++ {
		a, err := actors.Add(func(a *scene.Actor) error {
			a.Name = fmt.Sprintf("actor-%d", i)
			return nil
		})
		if err != nil {
			return err
		}
		ids = append(ids, a.Identifier())
		fmt.Fprintf(out, "add %-8s len=%d chunks=%d\n", a.Identifier(), actors.Len(), actors.ChunkCount())
	}

	_, err = actors.Add(nil)
	switch {
	case errors.IsCapacity(err):
		fmt.Fprintf(out, "add rejected: %v\n", err)
	case err == nil:
		return fmt.Errorf("pool accepted more than %d actors", actors.Cap())
	default:
		return err
	}

	victim := ids[2]
	moved := ids[len(ids)-1]
	actors.Delete(victim)
	h, _ := actors.Handle(moved)
	fmt.Fprintf(out, "delete %s len=%d chunks=%d, %s moved to position %d\n",
		victim, actors.Len(), actors.ChunkCount(), moved, h.Index)

	a, err := actors.Add(nil)
	if err != nil {
		return err
	}
	h, _ = actors.Handle(a.Identifier())
	fmt.Fprintf(out, "add %-8s len=%d chunks=%d position=%d\n", a.Identifier(), actors.Len(), actors.ChunkCount(), h.Index)

	for _, id := range ids {
		if _, ok := actors.Find(id); !ok {
			fmt.Fprintf(out, "find %-7s not found\n", id)
		}
	}
	s := actors.Stats()
	fmt.Fprintf(out, "lookups: %d cache hits, %d fallbacks, %d misses\n", s.CacheHits, s.Fallbacks, s.Misses)

	controllers := factory.New[scene.Controller](
		factory.WithLogger(log),
		factory.WithGenerator(gen))

	owned, err := controllers.Create(nil)
	if err != nil {
		return err
	}
	buf := make([]scene.Controller, 2)
	external, err := controllers.CreateAt(buf, 1, nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "factory: %s %s, %s %s\n",
		owned.Object().Identifier(), owned.Kind(), external.Object().Identifier(), external.Kind())

	controllers.Destroy(&owned)
	controllers.Destroy(&external)
	fmt.Fprintf(out, "factory: created=%d live=%d\n", controllers.Created(), controllers.Live())
	return nil
}
