package extension

type Option func(*Types)

// WithImports resolves package aliases of a single lookup with imports.
func WithImports(imports Imports) Option {
	return func(t *Types) {
		t.imports = imports
	}
}
