package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// MutationsTotal counts successful write operations per entity and op.
	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockmate_mutations_total",
			Help: "Total number of successful entity mutations",
		},
		[]string{"entity", "op"},
	)

	// MutationFailuresTotal counts rejected or failed write operations by
	// error kind (validation, conflict, not_found, persistence).
	MutationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockmate_mutation_failures_total",
			Help: "Total number of failed entity mutations by error kind",
		},
		[]string{"entity", "kind"},
	)
)

func init() {
	prometheus.MustRegister(MutationsTotal, MutationFailuresTotal)
}

// ObserveMutation records a successful mutation.
func ObserveMutation(entity, op string) {
	MutationsTotal.WithLabelValues(entity, op).Inc()
}

// ObserveFailure records a failed mutation with its error kind.
func ObserveFailure(entity, kind string) {
	MutationFailuresTotal.WithLabelValues(entity, kind).Inc()
}
