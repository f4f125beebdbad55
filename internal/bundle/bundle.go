package bundle

import (
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// Blueprint is a named group of routes mounted under a shared prefix.
type Blueprint struct {
	Name      string
	URLPrefix string
	// Routes declares the blueprint's handlers on the group it is mounted on.
	// Paths should start with "/".
	Routes func(r gin.IRoutes)
}

// ModelEntry pairs a model name with a model value (usually a pointer to
// the zero value of the model struct).
type ModelEntry struct {
	Name  string
	Model any
}

// Serializer converts models to and from their wire representation.
// Model reports the model the serializer targets; the serializer is
// registered under that model's type name.
type Serializer interface {
	Model() any
}

// SerializerEntry pairs a serializer's own name with the serializer.
type SerializerEntry struct {
	Name       string
	Serializer Serializer
}

// Bundle describes a self-contained feature module. It is built once at
// discovery time and not mutated afterwards.
type Bundle struct {
	Name        string
	ModulePath  string
	Description string
	Blueprints  []*Blueprint
	Models      []ModelEntry
	Serializers []SerializerEntry
	// Commands is the bundle's optional CLI command group.
	Commands *cobra.Command

	// Manifest is the manifest file that described this bundle, if any.
	Manifest string
}

// HasCommandGroup reports whether the bundle declares a CLI command group.
func (b *Bundle) HasCommandGroup() bool {
	return b.Commands != nil
}

// CommandGroupName returns the name the command group registers under.
func (b *Bundle) CommandGroupName() string {
	if b.Commands == nil {
		return ""
	}
	return b.Commands.Name()
}

// ModelName returns the type name of a model value, looking through
// pointers. It returns "" for nil.
func ModelName(model any) string {
	if model == nil {
		return ""
	}
	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
