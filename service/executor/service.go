package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"reflect"

	"github.com/viant/fuzzypatch/extension"
	"github.com/viant/structology/conv"
)

// Action identifies a service method and its input. Input is either the
// method's typed input or any value convertible to it, e.g. a map decoded
// from JSON or YAML.
type Action struct {
	Service string      `json:"service" yaml:"service"`
	Method  string      `json:"method" yaml:"method"`
	Input   interface{} `json:"input,omitempty" yaml:"input,omitempty"`
}

// Listener is invoked once an action method completes successfully.
type Listener func(action *Action, input, output interface{})

// LogListener logs the action with its JSON encoded input and output.
func LogListener(action *Action, input, output interface{}) {
	if action == nil {
		return
	}
	in, _ := json.Marshal(input)
	out, _ := json.Marshal(output)
	log.Printf("executed %v.%v input: %s output: %s", action.Service, action.Method, in, out)
}

// Option is used to customise the executor instance.
type Option func(*service)

// WithListener overrides the listener invoked after every executed action.
// Passing nil disables the callback entirely.
func WithListener(l Listener) Option {
	return func(s *service) {
		s.listener = l
	}
}

// Service represents an action executor.
type Service interface {
	Execute(ctx context.Context, action *Action) (interface{}, error)
}

type service struct {
	actions   *extension.Actions
	converter *conv.Converter
	listener  Listener
}

// Execute runs the action and returns the method's typed output.
func (s *service) Execute(ctx context.Context, action *Action) (interface{}, error) {
	actionService := s.actions.Lookup(action.Service)
	if actionService == nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, action.Service)
	}
	signature := actionService.Methods().Lookup(action.Method)
	if signature == nil {
		return nil, fmt.Errorf("%w: %v.%v", ErrMethodNotFound, action.Service, action.Method)
	}
	method, err := actionService.Method(signature.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to find method %v for service %v: %w", action.Method, action.Service, err)
	}
	input, err := s.typedValue(signature.Input, action.Input)
	if err != nil {
		return nil, fmt.Errorf("invalid %v.%v input: %w", action.Service, action.Method, err)
	}
	output := newInstancePtr(signature.Output)
	if err = method(ctx, input, output); err != nil {
		return nil, err
	}
	if s.listener != nil {
		s.listener(action, input, output)
	}
	return output, nil
}

func (s *service) typedValue(aType reflect.Type, value interface{}) (interface{}, error) {
	instance := newInstancePtr(aType)
	if value == nil {
		return instance, nil
	}
	switch reflect.TypeOf(value) {
	case reflect.TypeOf(instance):
		return value, nil
	case reflect.TypeOf(instance).Elem():
		reflect.ValueOf(instance).Elem().Set(reflect.ValueOf(value))
		return instance, nil
	}
	err := s.converter.Convert(value, instance)
	return instance, err
}

// newInstancePtr creates a new instance pointer of the given type
func newInstancePtr(t reflect.Type) interface{} {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return reflect.New(t).Interface()
}

// NewService creates a new executor service instance.
func NewService(actions *extension.Actions, opts ...Option) Service {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true

	s := &service{
		actions:   actions,
		converter: conv.NewConverter(options),
		listener:  LogListener,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
