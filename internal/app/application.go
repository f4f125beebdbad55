package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundle"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/csrf"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/session"
)

// Stage records one completed bootstrap stage.
type Stage struct {
	Name     string
	Duration time.Duration
}

// Application is the configured application instance.
type Application struct {
	Name    string
	Config  *config.Config
	Router  *gin.Engine
	CLI     *cobra.Command
	Logger  *logging.Logger
	Metrics *monitoring.Metrics

	// Models maps model names to model values.
	Models map[string]any
	// Serializers maps target model names to serializers.
	Serializers map[string]bundle.Serializer

	bundleNames []string
	bundles     map[string]*bundle.Bundle
	extensions  *Extensions
	blueprints  []MountedBlueprint
	stages      []Stage

	before          []HookFunc
	after           []HookFunc
	shellProcessors []ShellContextFunc
	shutdownHooks   []ShutdownFunc
	healthChecks    []namedCheck

	sessions *session.Manager
	csrf     *csrf.Generator

	strictSlashes bool
	routesOnce    sync.Once
	routes        routeIndex
}

// New creates an empty application with a router and CLI root. Until
// configuration is applied the router uses strict slash matching and no
// sessions are opened.
func New(name string, logger *logging.Logger) *Application {
	if logger == nil {
		logger = logging.NewNop()
	}

	a := &Application{
		Name:        name,
		Router:      gin.New(),
		Logger:      logger,
		Metrics:     monitoring.NewMetrics(),
		Models:      make(map[string]any),
		Serializers: make(map[string]bundle.Serializer),
		bundles:     make(map[string]*bundle.Bundle),
		extensions:  NewExtensions(),
	}
	a.CLI = &cobra.Command{
		Use:           name,
		Short:         fmt.Sprintf("Manage the %s application", name),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	a.SetStrictSlashes(true)

	a.Router.Use(gin.Recovery())
	a.Router.Use(logging.Middleware(logger))
	a.Router.Use(a.requestCycle())
	a.Router.NoRoute(a.redirectSlash)

	return a
}

// ApplyConfig makes cfg the live configuration and builds the session
// manager and token generator from it. Sessions start on the in-memory
// store; extensions may swap it.
func (a *Application) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	a.sessions = session.NewManager(session.NewMemoryStore(cfg.Session.MaxEntries), session.Options{
		CookieName:      cfg.Session.CookieName,
		Lifetime:        cfg.Session.Lifetime,
		Secure:          cfg.Session.Secure,
		Secret:          cfg.SecretKey,
		FallbackSecrets: cfg.SecretKeyFallbacks,
	})
	a.csrf = csrf.NewGenerator(cfg.SecretKey, cfg.CSRF.TimeLimit, cfg.SecretKeyFallbacks...)
}

// Sessions returns the session manager, or nil before configuration.
func (a *Application) Sessions() *session.Manager { return a.sessions }

// CSRF returns the anti-forgery token generator, or nil before configuration.
func (a *Application) CSRF() *csrf.Generator { return a.csrf }

// AttachBundles appends bundles to the ordered bundle mapping. A name
// already attached keeps its position and takes the new descriptor.
func (a *Application) AttachBundles(bundles []*bundle.Bundle) {
	for _, b := range bundles {
		if _, exists := a.bundles[b.Name]; !exists {
			a.bundleNames = append(a.bundleNames, b.Name)
		}
		a.bundles[b.Name] = b
	}
}

// Bundle returns the bundle attached under name.
func (a *Application) Bundle(name string) (*bundle.Bundle, bool) {
	b, ok := a.bundles[name]
	return b, ok
}

// IterBundles returns attached bundles in attachment order.
func (a *Application) IterBundles() []*bundle.Bundle {
	out := make([]*bundle.Bundle, 0, len(a.bundleNames))
	for _, name := range a.bundleNames {
		out = append(out, a.bundles[name])
	}
	return out
}

// BundleNames returns attached bundle names in attachment order.
func (a *Application) BundleNames() []string {
	return append([]string(nil), a.bundleNames...)
}

// Extensions returns the initialized extensions in initialization order.
func (a *Application) Extensions() *Extensions {
	return a.extensions
}

// MarkInitialized records ext as initialized under id.
func (a *Application) MarkInitialized(id string, ext Extension) {
	a.extensions.Add(id, ext)
	a.Metrics.ExtensionsInitialized.Set(float64(a.extensions.Len()))
}

// Extension returns the initialized extension registered under id.
func (a *Application) Extension(id string) (Extension, bool) {
	return a.extensions.Get(id)
}

// RecordStage appends a completed bootstrap stage.
func (a *Application) RecordStage(name string, d time.Duration) {
	a.stages = append(a.stages, Stage{Name: name, Duration: d})
}

// Stages returns completed bootstrap stages in execution order.
func (a *Application) Stages() []Stage {
	return append([]Stage(nil), a.stages...)
}

// HasCommand reports whether the CLI root already has a command named name.
func (a *Application) HasCommand(name string) bool {
	for _, cmd := range a.CLI.Commands() {
		if cmd.Name() == name {
			return true
		}
	}
	return false
}

// CommandNames returns the names of the CLI root's commands.
func (a *Application) CommandNames() []string {
	cmds := a.CLI.Commands()
	names := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		names = append(names, cmd.Name())
	}
	return names
}

// Execute runs the CLI with args. Commands reach the application through
// FromContext(cmd.Context()).
func (a *Application) Execute(ctx context.Context, args []string) error {
	a.CLI.SetArgs(args)
	return a.CLI.ExecuteContext(NewContext(ctx, a))
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying a.
func NewContext(ctx context.Context, a *Application) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// FromContext returns the application carried by ctx.
func FromContext(ctx context.Context) (*Application, bool) {
	if ctx == nil {
		return nil, false
	}
	a, ok := ctx.Value(contextKey{}).(*Application)
	return a, ok
}

// MustFromContext is FromContext for commands that cannot run without an
// application.
func MustFromContext(ctx context.Context) *Application {
	a, ok := FromContext(ctx)
	if !ok {
		panic("app: no application in context")
	}
	return a
}

// logError logs msg at error level with err attached.
func (a *Application) logError(msg string, err error, fields ...zap.Field) {
	a.Logger.Error(msg, append(fields, zap.Error(err))...)
}
