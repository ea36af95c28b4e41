package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are registered on the default registry and served by the
// /metrics endpoint via promhttp.

var (
	RecordSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plstrack_record_saves_total",
		Help: "Number of record saves.",
	})
	RecordEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plstrack_record_evictions_total",
		Help: "Number of records removed by the retention sweep.",
	})
	SweepRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plstrack_sweep_runs_total",
		Help: "Number of retention sweep runs.",
	})
	RequestsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plstrack_requests_sent_total",
		Help: "Number of chat requests sent, by request type.",
	}, []string{"type"})
	SendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plstrack_send_failures_total",
		Help: "Number of failed chat sends.",
	})
	RevisitsDue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plstrack_revisits_due_total",
		Help: "Number of revisit reminders that came due.",
	})
	IndexSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "plstrack_index_entries",
		Help: "Entries in the record index after the last save or sweep.",
	})
)
