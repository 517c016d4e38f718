package extension

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/x"
)

// Types is a registry of action input and output types.
type Types struct {
	x.Registry
	imports Imports
}

// Register adds a data type to the registry and records its package alias.
func (t *Types) Register(dataType *x.Type) {
	if pkgPath := dataType.PkgPath; pkgPath != "" && !t.imports.HasPkgPath(pkgPath) {
		alias := pkgPath
		if idx := strings.LastIndex(pkgPath, "/"); idx != -1 {
			alias = pkgPath[idx+1:]
		}
		t.imports = append(t.imports, &Import{Package: alias, PkgPath: pkgPath})
	}
	t.Registry.Register(dataType)
}

// Lookup returns a data type by its alias qualified name, e.g. "patch.CorrectInput",
// optionally prefixed with a slice or map modifier, e.g. "[]patch.Change".
func (t *Types) Lookup(dataType string, options ...Option) *x.Type {
	temp := &Types{imports: t.imports}
	for _, opt := range options {
		opt(temp)
	}

	typeModifier := ""
	if idx := strings.LastIndex(dataType, "]"); idx != -1 {
		typeModifier = dataType[:idx+1]
		dataType = dataType[idx+1:]
	}

	if idx := strings.LastIndex(dataType, "."); idx != -1 {
		pkg, typeName := dataType[:idx], dataType[idx+1:]
		if pkgPath := temp.imports.PkgPath(pkg); pkgPath != "" {
			pkg = pkgPath
		}
		dataType = fmt.Sprintf("%s.%s", pkg, typeName)
	}
	ret := t.Registry.Lookup(dataType)
	if ret == nil {
		return nil
	}
	rType := ret.Type
	switch strings.TrimSpace(typeModifier) {
	case "[]":
		rType = reflect.SliceOf(rType)
	case "map[string]":
		rType = reflect.MapOf(reflect.TypeOf(""), rType)
	}
	if rType != ret.Type {
		return x.NewType(rType)
	}
	return ret
}

// Imports returns the registered package aliases.
func (t *Types) Imports() Imports {
	return t.imports
}

// NewTypes creates a new types
func NewTypes(options ...x.RegistryOption) *Types {
	return &Types{
		Registry: *x.NewRegistry(options...),
	}
}
