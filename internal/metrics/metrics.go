// Package metrics registers the process-wide Prometheus counters exposed at
// GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "restocall_turns_total",
		Help: "Conversation turns processed.",
	})

	SynthesisTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "restocall_tts_synthesis_total",
		Help: "TTS synthesis attempts by result.",
	}, []string{"result"}) // "ok" | "error"

	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "restocall_tts_cache_hits_total",
		Help: "Phrase cache hits.",
	})

	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "restocall_tts_cache_misses_total",
		Help: "Phrase cache misses.",
	})

	ComplaintsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "restocall_complaints_total",
		Help: "Complaints received by the relay endpoint.",
	})
)
