package hibp

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"net/http"
	"sync/atomic"
	"time"
)

// status counts requests made to the range API. It never sees a prefix or a password.
type status struct {
	cloudflareRequests         uint64
	cloudflareHits             uint64
	cloudflareMisses           uint64
	cloudflareRequestTimeTotal uint64
	failures                   uint64
	start                      time.Time
}

// Stats is a point-in-time copy of the counters.
type Stats struct {
	Requests          uint64  `json:"requests"`
	CacheHits         uint64  `json:"cache_hits"`
	CacheMisses       uint64  `json:"cache_misses"`
	Failures          uint64  `json:"failures"`
	AverageResponseMs float64 `json:"average_response_ms"`
	Uptime            string  `json:"uptime"`
}

func newStatus() *status {
	return &status{start: time.Now()}
}

func (s *status) RequestComplete(res *http.Response, millis int64) {
	atomic.AddUint64(&s.cloudflareRequestTimeTotal, uint64(millis))
	atomic.AddUint64(&s.cloudflareRequests, 1)

	if cacheHit := res.Header.Get("CF-Cache-Status"); cacheHit == "HIT" {
		atomic.AddUint64(&s.cloudflareHits, 1)
	} else {
		atomic.AddUint64(&s.cloudflareMisses, 1)
	}
}

func (s *status) RequestFailed() {
	atomic.AddUint64(&s.failures, 1)
}

func (s *status) Snapshot() Stats {
	requests := atomic.LoadUint64(&s.cloudflareRequests)
	var average float64
	if requests > 0 {
		average = float64(atomic.LoadUint64(&s.cloudflareRequestTimeTotal)) / float64(requests)
	}

	return Stats{
		Requests:          requests,
		CacheHits:         atomic.LoadUint64(&s.cloudflareHits),
		CacheMisses:       atomic.LoadUint64(&s.cloudflareMisses),
		Failures:          atomic.LoadUint64(&s.failures),
		AverageResponseMs: average,
		Uptime:            time.Since(s.start).Round(time.Second).String(),
	}
}

func (s *status) Summary() {
	stats := s.Snapshot()
	if stats.Requests == 0 && stats.Failures == 0 {
		log.Debug().Msg("no range requests were made")
		return
	}

	var hitPercent float64
	if stats.Requests > 0 {
		hitPercent = float64(stats.CacheHits*100) / float64(stats.Requests)
	}

	p := message.NewPrinter(language.English)
	log.Info().Msgf("made %s range requests in %s. Average response time %.2f ms",
		p.Sprintf("%d", stats.Requests), stats.Uptime, stats.AverageResponseMs)
	log.Info().Msgf("cloudflare cache hits: %s (%.2f%%), failed lookups: %s",
		p.Sprintf("%d", stats.CacheHits), hitPercent, p.Sprintf("%d", stats.Failures))
}
