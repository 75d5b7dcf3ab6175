// Package metrics holds the process-wide Prometheus instruments, exposed on
// the router's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "airband_sessions_active",
		Help: "Currently connected sessions",
	})

	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airband_rooms_created_total",
		Help: "Total rooms created",
	})

	RoomsDestroyed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airband_rooms_destroyed_total",
		Help: "Total rooms explicitly destroyed by their host",
	})

	SpeakerGrants = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airband_speaker_grants_total",
		Help: "Total successful speaker lock acquisitions",
	})

	FramesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airband_frames_relayed_total",
		Help: "Total media-fallback frames fanned out to rooms",
	})

	SignalsRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airband_signals_relayed_total",
		Help: "Total targeted negotiation payloads relayed",
	})
)
