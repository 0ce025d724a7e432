// Go port of Coda Hale's Metrics library
//
// <https://github.com/rcrowley/go-metrics>
//
// Coda Hale's original work: <https://github.com/codahale/metrics>

// Package metrics provides general system and logging metrics for the VM.
package metrics

import "sync"

// Registry holds references to a set of metrics by name.
type Registry interface {
	// Each calls the given function for each registered metric.
	Each(func(string, any))

	// Get the metric by the given name or nil if none is registered.
	Get(string) any

	// GetOrRegister gets an existing metric or registers the one returned
	// by the given constructor.
	GetOrRegister(string, any) any

	// Register the given metric under the given name. Returns a DuplicateMetric
	// if a metric by the given name is already registered.
	Register(string, any) error

	// Unregister the metric with the given name.
	Unregister(string)
}

// The standard implementation of a Registry uses sync.map
// of names to metrics.
type StandardRegistry struct {
	metrics sync.Map
}

// NewRegistry creates a new registry.
func NewRegistry() Registry {
	return new(StandardRegistry)
}

// Each calls the given function for each registered metric.
func (r *StandardRegistry) Each(f func(string, any)) {
	r.metrics.Range(func(key, value any) bool {
		f(key.(string), value)
		return true
	})
}

// Get the metric by the given name or nil if none is registered.
func (r *StandardRegistry) Get(name string) any {
	item, _ := r.metrics.Load(name)
	return item
}

// GetOrRegister gets an existing metric or creates and registers a new one.
// The interface can be the metric to register if not found in registry,
// or a func() *Label returning the label for lazy instantiation; any other
// value is stored as given.
func (r *StandardRegistry) GetOrRegister(name string, i any) any {
	// fast path
	cached, ok := r.metrics.Load(name)
	if ok {
		return cached
	}
	if v, ok := i.(func() *Label); ok {
		i = v()
	}
	item, _ := r.metrics.LoadOrStore(name, i)
	return item
}

// Register the given metric under the given name. Returns a DuplicateMetric
// if a metric by the given name is already registered.
func (r *StandardRegistry) Register(name string, i any) error {
	// fast path
	_, ok := r.metrics.Load(name)
	if ok {
		return DuplicateMetric(name)
	}

	if v, ok := i.(func() *Label); ok {
		i = v()
	}
	_, loaded, _ := r.loadOrRegister(name, i)
	if loaded {
		return DuplicateMetric(name)
	}
	return nil
}

// Unregister the metric with the given name.
func (r *StandardRegistry) Unregister(name string) {
	r.metrics.Delete(name)
}

func (r *StandardRegistry) loadOrRegister(name string, i any) (any, bool, bool) {
	switch i.(type) {
	case *Counter, *Gauge, *Label:
	default:
		return nil, false, false
	}
	item, loaded := r.metrics.LoadOrStore(name, i)
	return item, loaded, true
}

// DefaultRegistry is the default registry metrics get registered into.
var DefaultRegistry = NewRegistry()

// Each calls the given function for each registered metric.
func Each(f func(string, any)) {
	DefaultRegistry.Each(f)
}

// Get the metric by the given name or nil if none is registered.
func Get(name string) any {
	return DefaultRegistry.Get(name)
}

// GetOrRegister gets an existing metric or creates and registers a new one
// in the default registry.
func GetOrRegister(name string, i any) any {
	return DefaultRegistry.GetOrRegister(name, i)
}

// Register the given metric under the given name in the default registry.
func Register(name string, i any) error {
	return DefaultRegistry.Register(name, i)
}

// Unregister the metric with the given name from the default registry.
func Unregister(name string) {
	DefaultRegistry.Unregister(name)
}

// DuplicateMetric is the error returned by Registry.Register when a metric
// already exists. If you mean to Register that metric you must first
// Unregister the existing metric.
type DuplicateMetric string

// Error implements the error interface.
func (err DuplicateMetric) Error() string {
	return "duplicate metric: " + string(err)
}

func getOrRegister[T any](name string, constructor func() T, r Registry) T {
	if r == nil {
		r = DefaultRegistry
	}
	return r.GetOrRegister(name, constructor()).(T)
}
