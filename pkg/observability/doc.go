/*
Package observability turns morselink lifecycle hooks into Prometheus metrics and
structured log lines.

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.Hooks(logger, metrics)
	m, _ := morselink.New(transport, gate, morselink.WithHooks(hooks))
*/
package observability
