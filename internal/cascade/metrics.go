package cascade

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultWritten = "written"
	resultPruned  = "pruned"
	resultError   = "error"
)

var (
	// cascadeSteps counts coordinator steps by hierarchy and outcome.
	cascadeSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yardplan_cascade_steps_total",
		Help: "Cascade steps by hierarchy and result (written, pruned, error)",
	}, []string{"hierarchy", "result"})

	// cascadeDepth tracks how many nodes one cascade visited.
	cascadeDepth = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yardplan_cascade_depth",
		Help:    "Number of nodes visited by a cascade, by entry hierarchy",
		Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16},
	}, []string{"hierarchy"})
)

func observeStep(h Hierarchy, result string) {
	cascadeSteps.WithLabelValues(string(h), result).Inc()
}
