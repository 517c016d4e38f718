// Package executor invokes registered action service methods with generic
// inputs converted to the method's typed signature.
package executor
