// internal/engine/batch/concurrency.go
package batch

import (
	"runtime"
)

// MaxConcurrency caps parallel scrapes. Each one may hold its own browser.
const MaxConcurrency = 8

// OptimalConcurrency picks a worker count from CPU count and free memory
func OptimalConcurrency() int {
	optimal := runtime.NumCPU()

	// Assume ~150MB per headless browser session
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	availMB := (m.Sys - m.Alloc) / 1024 / 1024
	maxByMemory := int(availMB / 150)

	if optimal > MaxConcurrency {
		optimal = MaxConcurrency
	}
	if maxByMemory > 0 && maxByMemory < optimal {
		optimal = maxByMemory
	}
	if optimal < 1 {
		optimal = 1
	}
	return optimal
}
