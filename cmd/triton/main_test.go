package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/ajitpratap0/triton/internal/scene"
	"github.com/ajitpratap0/triton/pkg/config"
	"github.com/ajitpratap0/triton/pkg/json"
	"github.com/ajitpratap0/triton/pkg/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Triton v"+version)
	assert.Contains(t, out, "OS/Arch:")
}

func TestScenarioCommand(t *testing.T) {
	out, err := execute(t, "scenario")
	require.NoError(t, err)

	assert.Contains(t, out, "capacity 8")
	assert.Contains(t, out, "len=8 chunks=2")
	assert.Contains(t, out, "add rejected")
	assert.Contains(t, out, "Actor7 moved to position 2")
	assert.Contains(t, out, "position=7")
	assert.Contains(t, out, "find Actor2  not found")
	assert.Contains(t, out, "factory: Controller9 owned, Controller10 external")
	assert.Contains(t, out, "factory: created=2 live=0")
}

func TestBenchCommand(t *testing.T) {
	out, err := execute(t, "bench", "--count", "500")
	require.NoError(t, err)

	var report BenchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 500, report.Count)
	assert.Equal(t, 500, report.Scene.Actors.Live)
	assert.Equal(t, int64(125), report.Scene.Controllers)
	assert.Equal(t, "bench", report.Scene.Name)
	for _, phase := range []string{"spawn", "lookup", "step", "despawn"} {
		assert.Contains(t, report.Phases, phase)
	}
	assert.NotNil(t, report.Resources)
}

func TestBenchCommand_StopsAtCapacity(t *testing.T) {
	perChunk := 8
	path := testutil.WriteFile(t, "small.yaml", []byte(fmt.Sprintf(`
pool:
  chunk_bytes: %d
  max_chunks: 2
  hash_cache_bytes: 64
`, perChunk*int(unsafe.Sizeof(scene.Actor{})))))

	out, err := execute(t, "bench", "--count", "100", "--config", path)
	require.NoError(t, err)

	var report BenchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 16, report.Count)
	assert.Equal(t, 2, report.Scene.Actors.Chunks)
	assert.Equal(t, int64(1), report.Scene.Actors.CapacityFailures)
}

func TestBenchCommand_Trace(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	path := filepath.Join(t.TempDir(), "spans.json")
	_, err := execute(t, "bench", "--count", "50", "--trace", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, name := range []string{"bench", "bench.spawn", "bench.lookup", "bench.step", "bench.despawn"} {
		assert.Contains(t, string(data), `"Name":"`+name+`"`)
	}
}

func TestBenchCommand_InvalidCount(t *testing.T) {
	_, err := execute(t, "bench", "--count", "0")
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "chunk_bytes: 16384")
	assert.Contains(t, out, "allocator: heap")

	path := filepath.Join(t.TempDir(), "triton.yaml")
	out, err = execute(t, "config", "--defaults", "--write", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "configuration written to"))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestInvalidConfigFile(t *testing.T) {
	path := testutil.WriteFile(t, "bad.yaml", []byte("pool:\n  max_chunks: -1\n"))
	_, err := execute(t, "config", "--config", path)
	assert.Error(t, err)
}
