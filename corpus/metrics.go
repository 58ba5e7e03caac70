package corpus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// stageStatements counts statements entering and leaving each pipeline
// stage, labeled by stage name and direction ("in"/"out").
var stageStatements = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mechkb",
	Name:      "stage_statements_total",
	Help:      "Statements entering and leaving corpus pipeline stages.",
}, []string{"stage", "direction"})

func countStage(stage string, in, out int) {
	stageStatements.WithLabelValues(stage, "in").Add(float64(in))
	stageStatements.WithLabelValues(stage, "out").Add(float64(out))
}
