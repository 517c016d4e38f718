package types

// Service is an action service
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}
