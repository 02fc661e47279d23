package stats

import (
	"context"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
)

// EnableStatistics enables a go routine that periodically prints memory and
// goroutine usage of the process, along with the fields returned by the given
// collector, if any.
func EnableStatistics(
	ctx context.Context, interval time.Duration, collect func() log.Fields,
) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				printStatistics(collect)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// toGigabytes returns given memory in bytes to gigabytes.
func toGigabytes(bytes uint64) float64 {
	return float64(bytes) / GIGABYTE
}

func printStatistics(collect func() log.Fields) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	fields := log.Fields{
		"heap_allocated_gb":  toGigabytes(memStats.HeapAlloc),
		"total_allocated_gb": toGigabytes(memStats.TotalAlloc),
		"num_goroutines":     runtime.NumGoroutine(),
	}
	if collect != nil {
		for key, value := range collect() {
			fields[key] = value
		}
	}

	log.WithFields(fields).Info("stats")
}
