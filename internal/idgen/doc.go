// Package idgen generates patch session identifiers; NewFunc can be replaced
// in tests for deterministic backup locations.
package idgen
