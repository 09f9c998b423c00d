package testutil

import (
	"runtime"
	"sync"
	"time"
)

// ResourceMonitor tracks heap usage and goroutine counts over time.
type ResourceMonitor struct {
	samples []ResourceSample
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.RWMutex
}

// ResourceSample captures resource usage at a point in time.
type ResourceSample struct {
	Timestamp      time.Time
	MemoryMB       float64
	GoroutineCount int
	HeapObjects    uint64
}

// ResourceReport summarizes resource usage over a monitoring period.
type ResourceReport struct {
	StartMemoryMB   float64
	EndMemoryMB     float64
	PeakMemoryMB    float64
	MemoryGrowthMB  float64
	StartGoroutines int
	EndGoroutines   int
	PeakGoroutines  int

	// GoroutineLeak is the goroutine count difference between the last and first sample.
	GoroutineLeak int

	Samples  []ResourceSample
	Duration time.Duration
}

// NewResourceMonitor creates a new resource monitor.
//
// The first sample is taken immediately. Call Start to sample periodically and
// Stop to take a final sample and build the report.
//
// Example:
//
//	monitor := testutil.NewResourceMonitor()
//	monitor.Start(100 * time.Millisecond)
//	// ... run ticks ...
//	report := monitor.Stop()
//	require.False(t, report.DetectLeaks(50, 10))
func NewResourceMonitor() *ResourceMonitor {
	rm := &ResourceMonitor{done: make(chan struct{})}
	rm.Sample()

	return rm
}

// Start begins periodic sampling.
func (rm *ResourceMonitor) Start(interval time.Duration) {
	rm.wg.Add(1)

	go func() {
		defer rm.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-rm.done:
				return
			case <-ticker.C:
				rm.Sample()
			}
		}
	}()
}

// Stop ends sampling and returns the report. Stop must be called once.
func (rm *ResourceMonitor) Stop() ResourceReport {
	close(rm.done)
	rm.wg.Wait()
	rm.Sample()

	rm.mu.RLock()
	defer rm.mu.RUnlock()

	first := rm.samples[0]
	last := rm.samples[len(rm.samples)-1]

	report := ResourceReport{
		StartMemoryMB:   first.MemoryMB,
		EndMemoryMB:     last.MemoryMB,
		MemoryGrowthMB:  last.MemoryMB - first.MemoryMB,
		StartGoroutines: first.GoroutineCount,
		EndGoroutines:   last.GoroutineCount,
		GoroutineLeak:   last.GoroutineCount - first.GoroutineCount,
		Samples:         append([]ResourceSample(nil), rm.samples...),
		Duration:        last.Timestamp.Sub(first.Timestamp),
	}
	for _, s := range rm.samples {
		report.PeakMemoryMB = max(report.PeakMemoryMB, s.MemoryMB)
		report.PeakGoroutines = max(report.PeakGoroutines, s.GoroutineCount)
	}

	return report
}

// Sample records the current resource usage.
func (rm *ResourceMonitor) Sample() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	sample := ResourceSample{
		Timestamp:      time.Now(),
		MemoryMB:       float64(m.Alloc) / 1024 / 1024,
		GoroutineCount: runtime.NumGoroutine(),
		HeapObjects:    m.HeapObjects,
	}

	rm.mu.Lock()
	rm.samples = append(rm.samples, sample)
	rm.mu.Unlock()
}

// DetectLeaks reports whether memory grew by more than memoryMB or goroutines by
// more than goroutines.
func (r ResourceReport) DetectLeaks(memoryMB float64, goroutines int) bool {
	return r.MemoryGrowthMB > memoryMB || r.GoroutineLeak > goroutines
}
