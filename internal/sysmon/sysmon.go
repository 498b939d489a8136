// Package sysmon samples system-wide CPU and memory usage and describes the
// host the loops run on.
package sysmon

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds system-wide resource usage over an interval or at an instant.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// Meter measures the average CPU utilization between StartMeter and Stop.
// Meters must not overlap: the CPU delta is kept by gopsutil per process.
type Meter struct{}

// StartMeter resets the CPU delta and returns a meter.
func StartMeter() Meter {
	_, _ = cpu.Percent(0, false)
	return Meter{}
}

// Stop returns the CPU utilization since StartMeter and the current memory
// usage.
func (Meter) Stop() Stats { return Sample() }

// Host describes the machine.
type Host struct {
	CPUModel      string
	PhysicalCores int
	LogicalCores  int
	TotalMemory   uint64
}

// Describe returns what gopsutil knows about the host. Fields it cannot
// determine are left zero.
func Describe(ctx context.Context) Host {
	var h Host
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		h.CPUModel = infos[0].ModelName
	}
	if n, err := cpu.CountsWithContext(ctx, false); err == nil {
		h.PhysicalCores = n
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		h.LogicalCores = n
	}
	if vmem, err := mem.VirtualMemoryWithContext(ctx); err == nil && vmem != nil {
		h.TotalMemory = vmem.Total
	}
	return h
}
