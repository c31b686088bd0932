package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func SetupPrometheus(extra ...prometheus.Collector) *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()

	// Add Go module build info, runtime metrics and process collectors.
	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if len(extra) > 0 {
		promRegistry.MustRegister(extra...)
	}

	return promRegistry
}

// WriteTextfile dumps the registry in the node exporter textfile format.
// A short lived CLI has no scrape endpoint, so this is how its metrics leave the process.
func WriteTextfile(reg prometheus.Gatherer, path string) error {
	return prometheus.WriteToTextfile(path, reg)
}
