package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BatchesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "powermon_ingest_batches_accepted_total",
		Help: "Batches committed by the ingestion pipeline.",
	})
	BatchesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "powermon_ingest_batches_rejected_total",
		Help: "Batches rejected before commit.",
	})
	MeasurementsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "powermon_ingest_measurements_total",
		Help: "Individual measurements committed.",
	})
	Toggles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "powermon_module_toggles_total",
		Help: "Module status toggles committed.",
	})
	PublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "powermon_notify_publish_failures_total",
		Help: "Status notifications that failed to publish after commit.",
	})
)
