package app

import "fmt"

// Extension is a cross-cutting capability that must be initialized
// against the application exactly once before use.
type Extension interface {
	InitApp(a *Application) error
}

// ExtensionFunc adapts a function to Extension.
type ExtensionFunc func(a *Application) error

// InitApp calls f.
func (f ExtensionFunc) InitApp(a *Application) error { return f(a) }

// Extensions is an insertion-ordered mapping from identifier to
// extension. The zero value and nil are empty and read-safe.
type Extensions struct {
	ids  []string
	byID map[string]Extension
}

// NewExtensions creates an empty set.
func NewExtensions() *Extensions {
	return &Extensions{byID: make(map[string]Extension)}
}

// Add registers ext under id. Re-adding an id replaces the extension but
// keeps its original position. It returns e for chaining.
func (e *Extensions) Add(id string, ext Extension) *Extensions {
	if e.byID == nil {
		e.byID = make(map[string]Extension)
	}
	if _, exists := e.byID[id]; !exists {
		e.ids = append(e.ids, id)
	}
	e.byID[id] = ext
	return e
}

// Get returns the extension registered under id.
func (e *Extensions) Get(id string) (Extension, bool) {
	if e == nil {
		return nil, false
	}
	ext, ok := e.byID[id]
	return ext, ok
}

// IDs returns identifiers in insertion order.
func (e *Extensions) IDs() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.ids...)
}

// Len returns the number of extensions.
func (e *Extensions) Len() int {
	if e == nil {
		return 0
	}
	return len(e.ids)
}

// Each calls fn for every extension in insertion order and stops at the
// first error.
func (e *Extensions) Each(fn func(id string, ext Extension) error) error {
	if e == nil {
		return nil
	}
	for _, id := range e.ids {
		if err := fn(id, e.byID[id]); err != nil {
			return err
		}
	}
	return nil
}

// Merge adds every extension of other, in its order.
func (e *Extensions) Merge(other *Extensions) *Extensions {
	_ = other.Each(func(id string, ext Extension) error {
		e.Add(id, ext)
		return nil
	})
	return e
}

// Clone returns a shallow copy.
func (e *Extensions) Clone() *Extensions {
	return NewExtensions().Merge(e)
}

// Map returns the extensions as a plain map.
func (e *Extensions) Map() map[string]any {
	out := make(map[string]any, e.Len())
	_ = e.Each(func(id string, ext Extension) error {
		out[id] = ext
		return nil
	})
	return out
}

// String lists the identifiers.
func (e *Extensions) String() string {
	return fmt.Sprintf("%v", e.IDs())
}
