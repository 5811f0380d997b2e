package compiler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// compilations is a singleton for the compilation counter vec.
	compilations *prometheus.CounterVec //nolint:gochecknoglobals

	// compiledPermissions is a singleton counting compiled fact rows.
	compiledPermissions prometheus.Counter //nolint:gochecknoglobals
)

func init() { //nolint: gochecknoinits
	compilations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permission_compilations_total",
			Help: "Number of per-user permission compilations, by result.",
		},
		[]string{"result"},
	)

	compiledPermissions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "compiled_permissions_total",
			Help: "Number of compiled permission fact rows written.",
		},
	)
}

func observeCompilation(success bool) {
	result := "success"
	if !success {
		result = "error"
	}

	compilations.WithLabelValues(result).Inc()
}

func observeCompiledPermissions(n int) {
	compiledPermissions.Add(float64(n))
}
