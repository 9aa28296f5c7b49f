// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
)

// ErrDuplicateBinding is returned when a key is bound twice.
var ErrDuplicateBinding = errors.New("duplicate binding")

type (
	// Binder receives the values a module contributes to the composition root.
	Binder interface {
		Bind(key string, value any) error
	}

	// Module is a feature's composable unit.
	Module interface {
		Install(b Binder) error
	}

	// ModuleFunc adapts a function to the Module interface.
	ModuleFunc func(b Binder) error

	// Composite installs a fixed list of modules in order.
	Composite struct {
		modules []Module
	}

	// Container is an in-memory Binder. It is safe for concurrent use.
	Container struct {
		mu     sync.RWMutex
		values map[string]any
	}

	// InstallError reports the module that failed during Composite.Install.
	InstallError struct {
		// Index is the module's position in the composite.
		Index int
		Err   error
	}
)

// Install calls f(b).
func (f ModuleFunc) Install(b Binder) error { return f(b) }

// Compose returns a module that installs modules in the given order.
// Compose with no arguments is a valid module that binds nothing.
func Compose(modules ...Module) *Composite {
	return &Composite{modules: slices.Clone(modules)}
}

// Install installs every module in order and stops at the first failure.
func (c *Composite) Install(b Binder) error {
	for i, m := range c.modules {
		if m == nil {
			continue
		}
		if err := m.Install(b); err != nil {
			return &InstallError{Index: i, Err: err}
		}
	}
	return nil
}

// Len returns the number of composed modules.
func (c *Composite) Len() int { return len(c.modules) }

// Error implements the error interface.
func (e *InstallError) Error() string {
	return fmt.Sprintf("installing module %d: %v", e.Index, e.Err)
}

// Unwrap returns the module's error.
func (e *InstallError) Unwrap() error { return e.Err }

// NewContainer creates an empty Container. The zero Container is also ready to use.
func NewContainer() *Container {
	return &Container{values: make(map[string]any)}
}

// Bind stores value under key. Binding an existing key fails with ErrDuplicateBinding.
func (c *Container) Bind(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.values[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateBinding, key)
	}
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = value
	return nil
}

// Get returns the value bound to key.
func (c *Container) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.values[key]
	return v, ok
}

// Keys returns the bound keys in sorted order.
func (c *Container) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve returns the value bound to key as a T.
func Resolve[T any](c *Container, key string) (T, error) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, fmt.Errorf("no binding for %q", key)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("binding %q is %T, not %T", key, v, zero)
	}
	return t, nil
}
