// Package status serves an optional local HTTP endpoint with the outcome of
// recent cycles as JSON (/status) and Prometheus metrics (/metrics).
// net/http/pprof is mounted under /debug/pprof/ on request.
package status
