package extension

import (
	"sort"
	"sync"

	"github.com/viant/fuzzypatch/model/types"
)

// DataTypeIniter is implemented by services registering their I/O types.
type DataTypeIniter interface {
	InitTypes(types *Types)
}

// Actions is a registry of action services
type Actions struct {
	types    *Types
	services map[string]types.Service
	mux      sync.RWMutex
}

func (s *Actions) Types() *Types {
	return s.types
}

// Lookup returns a service by name
func (s *Actions) Lookup(name string) types.Service {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.services[name]
}

// Names returns the registered service names in order.
func (s *Actions) Names() []string {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret := make([]string, 0, len(s.services))
	for name := range s.services {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Register registers a service
func (s *Actions) Register(service types.Service) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if typer, ok := service.(DataTypeIniter); ok {
		typer.InitTypes(s.types)
	}
	s.services[service.Name()] = service
}

// NewActions creates a new action registry
func NewActions() *Actions {
	return &Actions{
		types:    NewTypes(),
		services: make(map[string]types.Service),
	}
}
