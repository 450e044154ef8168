// Package testutil provides testing utilities for Triton
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// RequireNoError fails the test immediately if err is not nil.
// The msg parameter provides additional context in the failure message.
func RequireNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// WriteFile writes content to name inside a per-test temporary directory
// and returns the path.
func WriteFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

// MemoryProfile captures memory statistics
type MemoryProfile struct {
	HeapAlloc uint64
	Mallocs   uint64
	Frees     uint64
}

// CaptureMemoryProfile captures current memory profile
func CaptureMemoryProfile() MemoryProfile {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryProfile{
		HeapAlloc: m.HeapAlloc,
		Mallocs:   m.Mallocs,
		Frees:     m.Frees,
	}
}

// PerformanceTest runs a workload and checks it against throughput targets.
type PerformanceTest struct {
	t             *testing.T
	name          string
	minThroughput float64 // operations/sec
}

// NewPerformanceTest creates a new performance test. It is skipped in short
// mode.
func NewPerformanceTest(t *testing.T, name string) *PerformanceTest {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}
	return &PerformanceTest{t: t, name: name}
}

// WithThroughputTarget sets minimum throughput requirement
func (p *PerformanceTest) WithThroughputTarget(opsPerSec float64) *PerformanceTest {
	p.minThroughput = opsPerSec
	return p
}

// Run executes fn, which returns the number of operations it performed.
func (p *PerformanceTest) Run(fn func() int64) {
	p.t.Helper()

	before := CaptureMemoryProfile()
	start := time.Now()
	ops := fn()
	duration := time.Since(start)
	after := CaptureMemoryProfile()

	throughput := float64(ops) / duration.Seconds()
	p.t.Logf("Performance Test: %s", p.name)
	p.t.Logf("  Operations: %d", ops)
	p.t.Logf("  Duration: %v", duration)
	p.t.Logf("  Throughput: %.0f ops/sec", throughput)
	p.t.Logf("  Mallocs: %d", after.Mallocs-before.Mallocs)

	if p.minThroughput > 0 && throughput < p.minThroughput {
		p.t.Errorf("Throughput %.0f ops/sec below target %.0f ops/sec", throughput, p.minThroughput)
	}
}
