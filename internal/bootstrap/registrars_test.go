package bootstrap

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundle"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newObservedApp(t *testing.T, bundles ...*bundle.Bundle) (*app.Application, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	a := app.New("test", &logging.Logger{Logger: zap.New(core)})
	a.ApplyConfig(config.Test())
	a.AttachBundles(bundles)
	return a, logs
}

func command(name string) *cobra.Command {
	return &cobra.Command{Use: name, Run: func(*cobra.Command, []string) {}}
}

func get(a *app.Application, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRegisterCLICommandsUnion(t *testing.T) {
	a, _ := newObservedApp(t,
		&bundle.Bundle{Name: "shop", Commands: command("orders")},
		&bundle.Bundle{Name: "blog"},
		&bundle.Bundle{Name: "auth", Commands: command("users")},
	)

	err := RegisterCLICommands(a, []*cobra.Command{command("run"), command("routes")})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"run", "routes", "orders", "users"}, a.CommandNames())
	assert.Equal(t, float64(4), testutil.ToFloat64(a.Metrics.CommandsRegistered))
}

func TestRegisterCLICommandsConflict(t *testing.T) {
	tests := []struct {
		name     string
		topLevel []string
		bundles  []*bundle.Bundle
	}{
		{
			name: "two bundles",
			bundles: []*bundle.Bundle{
				{Name: "a", Commands: command("users")},
				{Name: "b", Commands: command("users")},
			},
		},
		{
			name:     "bundle shadows top-level",
			topLevel: []string{"users"},
			bundles:  []*bundle.Bundle{{Name: "a", Commands: command("users")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, logs := newObservedApp(t, tt.bundles...)
			var top []*cobra.Command
			for _, n := range tt.topLevel {
				top = append(top, command(n))
			}

			err := RegisterCLICommands(a, top)

			var conflict *CommandConflictError
			require.True(t, errors.As(err, &conflict))
			assert.Equal(t, "users", conflict.Name)

			entries := logs.FilterMessage(`Command name conflict: "users" is taken.`).All()
			require.Len(t, entries, 1)
			assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/api/", "/api"},
		{"/api", "/api"},
		{"", ""},
		{"/", ""},
		{"/v1/admin//", "/v1/admin"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePrefix(tt.in))
		})
	}
}

func pingBlueprint(name, prefix string) *bundle.Blueprint {
	return &bundle.Blueprint{
		Name:      name,
		URLPrefix: prefix,
		Routes: func(r gin.IRoutes) {
			r.GET("/"+name, func(c *gin.Context) { c.String(http.StatusOK, name) })
		},
	}
}

func TestRegisterBlueprints(t *testing.T) {
	a, _ := newObservedApp(t,
		&bundle.Bundle{Name: "api", Blueprints: []*bundle.Blueprint{pingBlueprint("items", "/api/")}},
		&bundle.Bundle{Name: "root", Blueprints: []*bundle.Blueprint{pingBlueprint("about", "")}},
	)

	require.NoError(t, RegisterBlueprints(a))

	assert.Equal(t, []app.MountedBlueprint{
		{Bundle: "api", Name: "items", Prefix: "/api"},
		{Bundle: "root", Name: "about", Prefix: ""},
	}, a.Blueprints())

	assert.Equal(t, http.StatusOK, get(a, "/api/items").Code)
	assert.Equal(t, http.StatusOK, get(a, "/about").Code)
	assert.Equal(t, http.StatusNotFound, get(a, "/api//items").Code)
}

func TestRegisterBlueprintsSlashHandling(t *testing.T) {
	tests := []struct {
		name     string
		strict   bool
		wantCode int
	}{
		{name: "lenient", strict: false, wantCode: http.StatusOK},
		{name: "strict", strict: true, wantCode: http.StatusMovedPermanently},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newObservedApp(t, &bundle.Bundle{Name: "api", Blueprints: []*bundle.Blueprint{pingBlueprint("items", "/api")}})
			a.Config.StrictSlashes = tt.strict

			require.NoError(t, RegisterBlueprints(a))

			assert.Equal(t, tt.strict, a.StrictSlashes())
			assert.Equal(t, http.StatusOK, get(a, "/api/items").Code)
			assert.Equal(t, tt.wantCode, get(a, "/api/items/").Code)
		})
	}
}

func TestRegisterBlueprintsConflict(t *testing.T) {
	a, _ := newObservedApp(t,
		&bundle.Bundle{Name: "one", Blueprints: []*bundle.Blueprint{pingBlueprint("items", "/api")}},
		&bundle.Bundle{Name: "two", Blueprints: []*bundle.Blueprint{pingBlueprint("items", "/api/")}},
	)

	err := RegisterBlueprints(a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blueprint two/items")
}

type widgetV1 struct{}
type widgetV2 struct{}

type Bar struct{}

type FooSerializer struct{}

func (FooSerializer) Model() any { return &Bar{} }

type OtherBarSerializer struct{}

func (OtherBarSerializer) Model() any { return Bar{} }

type nilTargetSerializer struct{}

func (nilTargetSerializer) Model() any { return nil }

func TestRegisterModelsLastWriterWins(t *testing.T) {
	first, second := &widgetV1{}, &widgetV2{}
	a, _ := newObservedApp(t,
		&bundle.Bundle{Name: "a", Models: []bundle.ModelEntry{{Name: "Widget", Model: first}, {Name: "Gadget", Model: first}}},
		&bundle.Bundle{Name: "b", Models: []bundle.ModelEntry{{Name: "Widget", Model: second}}},
	)

	RegisterModels(a)

	require.Len(t, a.Models, 2)
	assert.Same(t, second, a.Models["Widget"])
	assert.Same(t, first, a.Models["Gadget"])
}

func TestRegisterSerializersKeyedByTarget(t *testing.T) {
	a, _ := newObservedApp(t,
		&bundle.Bundle{Name: "a", Serializers: []bundle.SerializerEntry{{Name: "FooSerializer", Serializer: FooSerializer{}}}},
	)

	require.NoError(t, RegisterSerializers(a))

	assert.Equal(t, FooSerializer{}, a.Serializers["Bar"])
	assert.NotContains(t, a.Serializers, "FooSerializer")
	assert.Len(t, a.Serializers, 1)
}

func TestRegisterSerializersLastWriterWins(t *testing.T) {
	a, _ := newObservedApp(t,
		&bundle.Bundle{Name: "a", Serializers: []bundle.SerializerEntry{{Name: "FooSerializer", Serializer: FooSerializer{}}}},
		&bundle.Bundle{Name: "b", Serializers: []bundle.SerializerEntry{{Name: "OtherBarSerializer", Serializer: OtherBarSerializer{}}}},
	)

	require.NoError(t, RegisterSerializers(a))

	assert.Equal(t, OtherBarSerializer{}, a.Serializers["Bar"])
}

func TestRegisterSerializersMalformed(t *testing.T) {
	tests := []struct {
		name  string
		entry bundle.SerializerEntry
	}{
		{name: "nil serializer", entry: bundle.SerializerEntry{Name: "Broken"}},
		{name: "no target", entry: bundle.SerializerEntry{Name: "Broken", Serializer: nilTargetSerializer{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newObservedApp(t, &bundle.Bundle{Name: "a", Serializers: []bundle.SerializerEntry{tt.entry}})
			err := RegisterSerializers(a)
			assert.ErrorIs(t, err, ErrMalformedSerializer)
			assert.Contains(t, err.Error(), "serializer Broken in bundle a")
		})
	}
}

func TestRegisterShellContext(t *testing.T) {
	type ext struct{ app.ExtensionFunc }
	dbExt := &ext{}
	shadowed := &ext{}
	exts := app.NewExtensions().Add("db", dbExt).Add("Widget", shadowed).Add("Bar", shadowed)

	model := &widgetV1{}
	a, _ := newObservedApp(t)
	a.Models = map[string]any{"Widget": model}
	a.Serializers = map[string]bundle.Serializer{"Bar": FooSerializer{}}

	RegisterShellContext(a, exts)

	// Later registration changes are not seen by the captured extensions.
	exts.Add("late", &ext{})

	ctx := a.MakeShellContext()
	assert.Len(t, ctx, 3)
	assert.Same(t, dbExt, ctx["db"])
	assert.Same(t, model, ctx["Widget"])
	assert.Equal(t, FooSerializer{}, ctx["Bar"])

	// Models are read when the shell starts.
	a.Models["Gadget"] = &widgetV2{}
	assert.Contains(t, a.MakeShellContext(), "Gadget")
}

func TestRegisterExtensions(t *testing.T) {
	a, _ := newObservedApp(t)
	var order []string
	record := func(id string) app.Extension {
		return app.ExtensionFunc(func(*app.Application) error {
			order = append(order, id)
			return nil
		})
	}
	boom := errors.New("boom")

	exts := app.NewExtensions().
		Add("first", record("first")).
		Add("broken", app.ExtensionFunc(func(*app.Application) error { return boom })).
		Add("never", record("never"))

	err := RegisterExtensions(a, exts)

	assert.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "extension broken: boom")
	assert.Equal(t, []string{"first"}, order)
	assert.Equal(t, []string{"first"}, a.Extensions().IDs())
}
