package performance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLatencyTracker_Percentiles(t *testing.T) {
	lt := NewLatencyTracker()
	assert.Equal(t, Percentiles{}, lt.Percentiles())

	for i := 100; i >= 1; i-- {
		lt.Record(time.Duration(i) * time.Microsecond)
	}

	p := lt.Percentiles()
	assert.Equal(t, 51*time.Microsecond, p.P50)
	assert.Equal(t, 96*time.Microsecond, p.P95)
	assert.Equal(t, 100*time.Microsecond, p.P99)
	assert.Equal(t, 100*time.Microsecond, p.Max)
}

func TestLatencyTracker_KeepsRecentSamples(t *testing.T) {
	lt := NewLatencyTracker()
	for i := 0; i < maxSamples+500; i++ {
		lt.Record(time.Duration(i))
	}
	assert.Equal(t, maxSamples, lt.Count())
	assert.Equal(t, time.Duration(maxSamples+499), lt.Percentiles().Max)
}

func TestResourceMonitor_Usage(t *testing.T) {
	rm := NewResourceMonitor()
	u := rm.Usage()

	assert.Greater(t, u.HeapAlloc, uint64(0))
	assert.GreaterOrEqual(t, u.GoroutineCount, 1)
	assert.GreaterOrEqual(t, u.CPUPercent, float64(0))
}
