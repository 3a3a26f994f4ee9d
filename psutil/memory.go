package psutil

import (
	"runtime"

	"github.com/bitflow-stream/go-app-sensors/app"
)

// HeapStats reports the heap of the Go runtime: memory obtained from the OS for the
// heap, and the part of it that is currently not in use.
func (p *Platform) HeapStats() (app.HeapStats, error) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return heapStatsOf(&stats), nil
}

func heapStatsOf(stats *runtime.MemStats) app.HeapStats {
	return app.HeapStats{
		Total: stats.HeapSys,
		Free:  stats.HeapIdle,
	}
}
