package common

import (
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// Runtime profiles for different server sizes
const (
	smallServerGOGC     = 400
	smallServerMemLimit = 2 * 1024 * 1024 * 1024 // 2GB

	largeServerGOGC     = 800
	largeServerMemLimit = 8 * 1024 * 1024 * 1024 // 8GB
)

func detectServerProfile() (gogc int, memLimit int64) {
	if runtime.NumCPU() <= 2 {
		return smallServerGOGC, int64(smallServerMemLimit)
	}
	return largeServerGOGC, int64(largeServerMemLimit)
}

// InitRuntime tunes the Go runtime for the quote hot path. The router
// leans on sync.Pool for big.Int/uint256 temporaries; a high GOGC keeps
// those pools warm between collections, with GOMEMLIMIT as the safety
// net. Environment variables GOGC and GOMEMLIMIT take precedence.
func InitRuntime() {
	defaultGOGC, defaultMemLimit := detectServerProfile()

	if os.Getenv("GOGC") == "" {
		debug.SetGCPercent(defaultGOGC)
		log.Info().Int("GOGC", defaultGOGC).Msg("[runtime] set GOGC (keeps sync.Pool warm)")
	}

	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(defaultMemLimit)
		log.Info().
			Int64("GOMEMLIMIT_bytes", defaultMemLimit).
			Msg("[runtime] set memory limit")
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	log.Info().
		Int("num_cpu", runtime.NumCPU()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Uint64("heap_alloc_mb", memStats.HeapAlloc/1024/1024).
		Str("go_version", runtime.Version()).
		Msg("[runtime] current runtime settings")
}
