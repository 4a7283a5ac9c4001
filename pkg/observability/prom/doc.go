// Package prom backs the observability hooks with Prometheus collectors and
// serves them over HTTP.
//
//	m := prom.New(prometheus.DefaultRegisterer)
//	m.Install()
//	srv, err := prom.Start(":9090", prometheus.DefaultGatherer, logger)
//	defer srv.Close()
//
// Metric names share the authorsphere_ prefix and are grouped by subsystem:
// crawl, layout, cache and http.
package prom
