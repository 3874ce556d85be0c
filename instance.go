package extender

import (
	"fmt"
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// An Instance is an object constructed from a [Definition]. It owns its
// fields outright; nothing in it refers back to the bases a composed
// definition was built from.
type Instance struct {
	mu  sync.RWMutex
	def *Definition

	// name -> any, in assignment order
	fields *linkedhashmap.Map
}

func newInstance(def *Definition) *Instance {
	return &Instance{
		def:    def,
		fields: linkedhashmap.New(),
	}
}

// Definition returns the definition the instance was constructed from.
func (i *Instance) Definition() *Definition {
	return i.def
}

// Get returns the value of the named field.
func (i *Instance) Get(field string) (any, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.fields.Get(field)
}

// Set assigns the named field. A field that already exists keeps its
// position in [Instance.Fields].
func (i *Instance) Set(field string, value any) {
	i.mu.Lock()
	i.fields.Put(field, value)
	i.mu.Unlock()
}

// Has reports whether the named field has been assigned.
func (i *Instance) Has(field string) bool {
	_, has := i.Get(field)
	return has
}

// Delete removes the named field, if present.
func (i *Instance) Delete(field string) {
	i.mu.Lock()
	i.fields.Remove(field)
	i.mu.Unlock()
}

// Fields returns the names of the instance's own fields in the order they
// were first assigned.
func (i *Instance) Fields() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	names := make([]string, 0, i.fields.Size())
	for _, k := range i.fields.Keys() {
		names = append(names, k.(string))
	}
	return names
}

// each visits every field in assignment order.
func (i *Instance) each(fn func(field string, value any)) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	i.fields.Each(func(k, v interface{}) {
		fn(k.(string), v)
	})
}

// Responds reports whether the instance has a method with the given name.
func (i *Instance) Responds(method string) bool {
	return i.def.HasMethod(method)
}

// Call invokes the named method with the instance as its receiver. The
// instance lock is not held while the method runs.
func (i *Instance) Call(method string, args ...any) (any, error) {
	m, has := i.def.Method(method)
	if !has {
		return nil, fmt.Errorf("%s has no method %q: %w", i.def.name, method, ErrNoSuchMethod)
	}
	return m(i, args...)
}
