package bundle

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownBundle is returned when a bundle name has no catalog entry.
	ErrUnknownBundle = errors.New("unknown bundle")
	// ErrDuplicateBundle is returned when a bundle name is declared twice.
	ErrDuplicateBundle = errors.New("duplicate bundle")
)

// Module is implemented by compiled-in bundles. Bundle must return a new
// descriptor on every call: command groups are attached to one CLI tree.
type Module interface {
	Bundle() *Bundle
}

// ModuleFunc adapts a constructor function to Module.
type ModuleFunc func() *Bundle

// Bundle calls f.
func (f ModuleFunc) Bundle() *Bundle { return f() }

// Catalog is the explicit, insertion-ordered registry of compiled-in
// bundles that discovery resolves names against.
type Catalog struct {
	names   []string
	modules map[string]Module
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{modules: make(map[string]Module)}
}

// Register adds a module under name.
func (c *Catalog) Register(name string, m Module) error {
	if name == "" {
		return fmt.Errorf("bundle name cannot be empty")
	}
	if m == nil {
		return fmt.Errorf("bundle %q: module cannot be nil", name)
	}
	if _, exists := c.modules[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBundle, name)
	}
	c.names = append(c.names, name)
	c.modules[name] = m
	return nil
}

// MustRegister is Register that panics on error. Intended for package-level
// catalog construction.
func (c *Catalog) MustRegister(name string, m Module) *Catalog {
	if err := c.Register(name, m); err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the module registered under name.
func (c *Catalog) Lookup(name string) (Module, bool) {
	if c == nil {
		return nil, false
	}
	m, ok := c.modules[name]
	return m, ok
}

// Names returns registered names in registration order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.names...)
}

// Len returns the number of registered modules.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// resolve builds the descriptor for name, stamping the catalog name and
// module path onto it.
func (c *Catalog) resolve(name, modulePath string) (*Bundle, error) {
	m, ok := c.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBundle, name)
	}
	b := m.Bundle()
	if b == nil {
		return nil, fmt.Errorf("bundle %q: module returned no descriptor", name)
	}
	b.Name = name
	if modulePath != "" {
		b.ModulePath = modulePath
	}
	if b.ModulePath == "" {
		b.ModulePath = name
	}
	return b, nil
}
