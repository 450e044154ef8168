// Package performance samples process and host resources and tracks
// operation latencies for the bench command.
package performance

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ResourceMonitor monitors system resources
type ResourceMonitor struct {
	process      *process.Process
	startCPUTime float64
	startTime    time.Time
	mu           sync.RWMutex
}

// NewResourceMonitor creates a resource monitor for the current process.
// CPU usage is measured from this call on.
func NewResourceMonitor() *ResourceMonitor {
	rm := &ResourceMonitor{startTime: time.Now()}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return rm
	}
	rm.process = proc
	if times, err := proc.Times(); err == nil {
		rm.startCPUTime = times.Total()
	}
	return rm
}

// ResourceUsage contains resource usage information
type ResourceUsage struct {
	CPUPercent            float64 `json:"cpu_percent"`
	MemoryRSS             uint64  `json:"memory_rss"`
	HeapAlloc             uint64  `json:"heap_alloc"`
	HeapObjects           uint64  `json:"heap_objects"`
	NumGC                 uint32  `json:"num_gc"`
	SystemMemoryTotal     uint64  `json:"system_memory_total"`
	SystemMemoryAvailable uint64  `json:"system_memory_available"`
	SystemMemoryPercent   float64 `json:"system_memory_percent"`
	GoroutineCount        int     `json:"goroutines"`
}

// Usage returns current resource usage. Host figures that cannot be read on
// this platform are left zero.
func (rm *ResourceMonitor) Usage() *ResourceUsage {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	usage := &ResourceUsage{GoroutineCount: runtime.NumGoroutine()}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	usage.HeapAlloc = ms.HeapAlloc
	usage.HeapObjects = ms.HeapObjects
	usage.NumGC = ms.NumGC

	if rm.process != nil {
		if times, err := rm.process.Times(); err == nil {
			if elapsed := time.Since(rm.startTime).Seconds(); elapsed > 0 {
				usage.CPUPercent = (times.Total() - rm.startCPUTime) / elapsed * 100
			}
		}
		if info, err := rm.process.MemoryInfo(); err == nil {
			usage.MemoryRSS = info.RSS
		}
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemoryTotal = vm.Total
		usage.SystemMemoryAvailable = vm.Available
		usage.SystemMemoryPercent = vm.UsedPercent
	}

	return usage
}
