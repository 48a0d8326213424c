package util

import (
	"fmt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/mem"
	"net/http"
	"runtime"
	"strings"
	"time"
	"unicode"
)

// Stats logs the time elapsed and memory figures when the returned func is called.
func Stats() func() {
	start := time.Now()
	return func() {
		log.Debug().Msgf("time to run %v", time.Since(start))
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		log.Debug().Msgf("Alloc: %d MB, TotalAlloc: %d MB, Requested: %d MB",
			ms.Alloc/1024/1024, ms.TotalAlloc/1024/1024, ms.Sys/1024/1024)
		log.Debug().Msgf("Mallocs: %d, Frees: %d, GC: %d", ms.Mallocs, ms.Frees, ms.NumGC)
	}
}

func ApplyCliSettings(verbose bool, profile bool, pprofPort uint16) {
	if verbose {
		log.Warn().Msgf("verbosity up")
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if profile {
		log.Info().Msgf("profiling is enabled for this session. Server will listen on port %d", pprofPort)
		go func() {
			if err := http.ListenAndServe(fmt.Sprintf("localhost:%d", pprofPort), nil); err != nil {
				log.Error().Err(err).Msgf("error starting profiling server on port %d", pprofPort)
				return
			}
		}()
	}
}

type Memory struct {
	ProcessAllocMiB   float64 `json:"process_alloc_mib"`
	SystemTotalMiB    float64 `json:"system_total_mib,omitempty"`
	SystemAvailMiB    float64 `json:"system_available_mib,omitempty"`
	SystemUsedPercent float64 `json:"system_used_percent,omitempty"`
}

// MemoryStatus reports the process heap and, when the platform allows it, the host memory.
func MemoryStatus() Memory {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m := Memory{ProcessAllocMiB: mib(ms.Alloc)}

	if memStat, err := mem.VirtualMemory(); err == nil {
		m.SystemTotalMiB = mib(memStat.Total)
		m.SystemAvailMiB = mib(memStat.Available)
		m.SystemUsedPercent = float64(int(memStat.UsedPercent*100)) / 100
	} else {
		log.Debug().Err(err).Msg("error getting system memory")
	}

	return m
}

func mib(b uint64) float64 {
	return float64(b*100/(1024*1024)) / 100
}

// ToScreamingSnakeCase turns a Go field name into its environment variable name,
// e.g. BreachRetryMax -> BREACH_RETRY_MAX, TLSCert -> TLS_CERT.
func ToScreamingSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
