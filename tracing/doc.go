// Package tracing wraps OpenTelemetry so that engine calls can be traced with
// the stdout exporter or any other span exporter.
package tracing
