package event

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	appendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voxelbot",
		Subsystem: "events",
		Name:      "appended_total",
		Help:      "Events appended to the log, by type.",
	}, []string{"type"})

	evictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "voxelbot",
		Subsystem: "events",
		Name:      "evicted_total",
		Help:      "Events evicted because the buffer was at capacity.",
	})

	cleanupRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "voxelbot",
		Subsystem: "events",
		Name:      "cleanup_removed_total",
		Help:      "Events removed by tick-threshold cleanup sweeps.",
	})

	bufferSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "voxelbot",
		Subsystem: "events",
		Name:      "buffer_size",
		Help:      "Events currently held in the log buffer.",
	})
)

func observeAppend(t Type) {
	appendsTotal.WithLabelValues(string(t)).Inc()
}

func observeEviction() {
	evictionsTotal.Inc()
}

func observeCleanup(removed int) {
	if removed > 0 {
		cleanupRemovedTotal.Add(float64(removed))
	}
}

func observeBufferSize(n int) {
	bufferSize.Set(float64(n))
}
