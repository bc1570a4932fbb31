package core

import (
	"fmt"
	"sort"
	"sync"
)

// Descriptor registers one controller: its name inside a package, the factory
// that builds a fresh instance per request, and its dispatchable actions in
// declaration order.
type Descriptor struct {
	// Name is the full controller name the dispatcher resolves, including the
	// configured suffix, e.g. "HomeController".
	Name string
	// Factory builds a new instance. The produced value must satisfy
	// Controller; anything else fails dispatch with an invalid-type error.
	Factory func() any
	// Actions in declaration order. Order matters when names collide with
	// different verb restrictions.
	Actions []Action
}

func (d Descriptor) findAction(name, method string) (Action, bool) {
	for _, a := range d.Actions {
		if a.Name != name {
			continue
		}
		if a.accepts(method) {
			return a, true
		}
	}
	return Action{}, false
}

// ControllerRegistry maps (package, controller name) to registered
// descriptors. It replaces lookup of controllers by constructed type name:
// everything dispatchable is registered here at startup, so resolution is an
// explicit map lookup instead of a dynamic load.
type ControllerRegistry struct {
	packages map[string]map[string]Descriptor
	sync.RWMutex
}

// Registry is the process-default controller registry.
var Registry = new(ControllerRegistry)

// Register adds a controller descriptor under the given package. Registering
// the same (package, name) twice is an error.
func (r *ControllerRegistry) Register(pkg string, d Descriptor) error {
	if pkg == "" {
		return NewError(ErrCodeInvalidRoute, "controller package can not be empty")
	}
	if d.Name == "" {
		return NewError(ErrCodeInvalidRoute, "controller name can not be empty")
	}
	if d.Factory == nil {
		return NewError(ErrCodeInvalidRoute, "controller factory can not be nil")
	}

	r.Lock()
	defer r.Unlock()
	if r.packages == nil {
		r.packages = make(map[string]map[string]Descriptor)
	}
	controllers, ok := r.packages[pkg]
	if !ok {
		controllers = make(map[string]Descriptor)
		r.packages[pkg] = controllers
	}
	if _, exists := controllers[d.Name]; exists {
		return NewError(ErrCodeInvalidRoute,
			fmt.Sprintf("controller already registered: %s.%s", pkg, d.Name))
	}
	controllers[d.Name] = d
	return nil
}

// MustRegister is Register that panics, for startup wiring.
func (r *ControllerRegistry) MustRegister(pkg string, d Descriptor) {
	if err := r.Register(pkg, d); err != nil {
		panic(err)
	}
}

// Unregister removes a registered controller.
func (r *ControllerRegistry) Unregister(pkg, name string) error {
	r.Lock()
	defer r.Unlock()
	controllers, ok := r.packages[pkg]
	if !ok {
		return WrapError(ErrCodeControllerNotFound,
			fmt.Sprintf("no such package: %s", pkg), nil)
	}
	if _, exists := controllers[name]; !exists {
		return WrapError(ErrCodeControllerNotFound,
			fmt.Sprintf("no such controller: %s.%s", pkg, name), nil)
	}
	delete(controllers, name)
	return nil
}

// Lookup returns the descriptor registered under (pkg, name).
func (r *ControllerRegistry) Lookup(pkg, name string) (Descriptor, error) {
	r.RLock()
	defer r.RUnlock()
	if controllers, ok := r.packages[pkg]; ok {
		if d, exists := controllers[name]; exists {
			return d, nil
		}
	}
	return Descriptor{}, WrapError(ErrCodeControllerNotFound,
		fmt.Sprintf("no controller registered for %s.%s", pkg, name), nil)
}

// Names returns the registered controller names of a package, sorted.
func (r *ControllerRegistry) Names(pkg string) []string {
	r.RLock()
	defer r.RUnlock()
	var names []string
	for name := range r.packages[pkg] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Packages returns all package names with registered controllers, sorted.
func (r *ControllerRegistry) Packages() []string {
	r.RLock()
	defer r.RUnlock()
	var pkgs []string
	for pkg := range r.packages {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	return pkgs
}

// instantiate builds a controller from its descriptor. A factory panic or nil
// value is an instantiation failure; a value that is not a Controller is an
// invalid type.
func (r *ControllerRegistry) instantiate(d Descriptor) (ctrl Controller, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ctrl = nil
			err = WrapError(ErrCodeControllerInstantiation,
				fmt.Sprintf("factory for %s panicked", d.Name),
				fmt.Errorf("%v", rec))
		}
	}()

	v := d.Factory()
	if v == nil {
		return nil, WrapError(ErrCodeControllerInstantiation,
			fmt.Sprintf("factory for %s returned nil", d.Name), nil)
	}
	c, ok := v.(Controller)
	if !ok {
		return nil, WrapError(ErrCodeInvalidControllerType,
			fmt.Sprintf("%s (%T) does not implement Controller", d.Name, v), nil)
	}
	return c, nil
}
