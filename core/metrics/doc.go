// Package metrics records per-run Prometheus metrics and pushes them to a
// pushgateway once the run has finished. A one-shot batch has no scrape
// endpoint, so pushing is the only delivery path.
package metrics
