package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/triton/internal/scene"
	"github.com/ajitpratap0/triton/pkg/config"
	"github.com/ajitpratap0/triton/pkg/identifier"
	"github.com/ajitpratap0/triton/pkg/json"
	"github.com/ajitpratap0/triton/pkg/logger"
	"github.com/ajitpratap0/triton/pkg/metrics"
	"github.com/ajitpratap0/triton/pkg/observability"
	"github.com/ajitpratap0/triton/pkg/performance"
)

// BenchReport is the JSON document printed by the bench command.
type BenchReport struct {
	Count     int                        `json:"count"`
	Pool      config.PoolConfig          `json:"pool"`
	Factory   config.FactoryConfig       `json:"factory"`
	Phases    map[string]time.Duration   `json:"phases"`
	Lookup    performance.Percentiles    `json:"lookup_latency"`
	Scene     scene.Stats                `json:"scene"`
	Resources *performance.ResourceUsage `json:"resources"`
}

func newBenchCmd(opts *options) *cobra.Command {
	var (
		count int
		trace string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Fill a scene, look every actor up and empty it again",
		Long: `Spawns --count actors with a controller on every fourth one, looks
every actor up by identifier, then despawns all of them. Phase timings,
lookup latency percentiles, pool statistics and process resources are
printed as JSON. The pool and factory are sized by --config.

With --trace every phase is exported as an OpenTelemetry span to the given
file, or to stderr for "-".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("count must be positive, got %d", count)
			}
			if trace != "" {
				shutdown, err := startTracing(trace, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer func() {
					if err := shutdown(context.Background()); err != nil {
						logger.Warn("trace export failed", zap.Error(err))
					}
				}()
			}
			return runBench(cmd.Context(), cmd.OutOrStdout(), opts.cfg, count)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 10000, "Number of actors to spawn")
	cmd.Flags().StringVar(&trace, "trace", "", "Export phase spans to this file (- for stderr)")
	return cmd
}

func startTracing(path string, stderr io.Writer) (func(context.Context) error, error) {
	cfg := observability.DefaultTracingConfig()
	cfg.ServiceVersion = version
	if path == "-" {
		cfg.Output = stderr
		return observability.InitTracing(cfg)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace file: %w", err)
	}
	cfg.Output = f
	shutdown, err := observability.InitTracing(cfg)
	if err != nil {
		f.Close()
		return nil, err
	}
	return func(ctx context.Context) error {
		err := shutdown(ctx)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}, nil
}

func runBench(ctx context.Context, out io.Writer, cfg *config.Config, count int) error {
	ctx, span := observability.StartSpan(ctx, "bench", attribute.Int("count", count))
	defer span.End()

	log := logger.Get()
	monitor := performance.NewResourceMonitor()

	s, err := scene.New("bench", cfg, scene.WithGenerator(identifier.NewGenerator()))
	if err != nil {
		return err
	}

	report := &BenchReport{
		Pool:    cfg.Pool,
		Factory: cfg.Factory,
		Phases:  make(map[string]time.Duration),
	}

	ids := make([]identifier.Identifier, 0, count)
	_, phase := observability.StartSpan(ctx, "bench.spawn")
	timer := metrics.NewTimer("bench_spawn")
	for i := 0; i < count; i++ {
		a, err := s.Spawn("bench")
		if err != nil {
			log.Warn("spawn stopped", zap.Int("spawned", i), zap.Error(err))
			break
		}
		if i%4 == 0 {
			if _, err := s.AttachController(a.Identifier(), 1); err != nil {
				log.Warn("attach stopped", zap.Int("spawned", i), zap.Error(err))
			}
		}
		ids = append(ids, a.Identifier())
	}
	report.Phases["spawn"] = timer.Stop()
	report.Count = len(ids)
	phase.SetAttributes(attribute.Int("spawned", len(ids)))
	phase.End()

	latency := performance.NewLatencyTracker()
	err = observability.Trace(ctx, "bench.lookup", func(context.Context) error {
		timer := metrics.NewTimer("bench_lookup")
		defer func() { report.Phases["lookup"] = timer.Stop() }()
		for _, id := range ids {
			start := time.Now()
			if _, ok := s.Actor(id); !ok {
				return fmt.Errorf("actor %s lost", id)
			}
			latency.Record(time.Since(start))
		}
		return nil
	})
	if err != nil {
		return err
	}
	report.Lookup = latency.Percentiles()

	_, phase = observability.StartSpan(ctx, "bench.step")
	timer = metrics.NewTimer("bench_step")
	s.Step(1.0 / 60)
	report.Phases["step"] = timer.Stop()
	phase.End()

	report.Scene = s.Stats()

	_, phase = observability.StartSpan(ctx, "bench.despawn")
	timer = metrics.NewTimer("bench_despawn")
	for _, id := range ids {
		s.Despawn(id)
	}
	report.Phases["despawn"] = timer.Stop()
	phase.End()

	report.Resources = monitor.Usage()
	return json.Encode(out, report)
}
