// Package metrics records build observability data.
//
// Components receive a Recorder and call it unconditionally. NoopRecorder is the
// default; the daemon swaps in a PrometheusRecorder and serves it over HTTP with
// HTTPHandler.
package metrics
