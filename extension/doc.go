// Package extension provides the run-time registries of action services and
// of the Go types used as their inputs and outputs.
package extension
