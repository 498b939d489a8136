package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	TotalAlloc   uint64 // cumulative bytes allocated
}

// MemoryDelta is the change between two snapshots taken around a workload.
type MemoryDelta struct {
	Allocated uint64 // bytes allocated in between
	GCCycles  uint32
	PauseNs   uint64
	// HeapAfter is the live heap at the second snapshot.
	HeapAfter uint64
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		TotalAlloc:   m.TotalAlloc,
	}
}

// Since returns the change from before to a fresh snapshot.
func (mc *MemoryCollector) Since(before MemorySnapshot) MemoryDelta {
	return Delta(before, mc.Snapshot())
}

// Delta computes the change from before to after. Cumulative counters never
// decrease, so the subtraction cannot wrap for snapshots taken in order.
func Delta(before, after MemorySnapshot) MemoryDelta {
	return MemoryDelta{
		Allocated: after.TotalAlloc - before.TotalAlloc,
		GCCycles:  after.NumGC - before.NumGC,
		PauseNs:   after.PauseTotalNs - before.PauseTotalNs,
		HeapAfter: after.HeapAlloc,
	}
}
