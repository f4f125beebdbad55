package bootstrap

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundle"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundles"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/commands"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/extensions"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/monitoring"
)

// DefaultName names the application and its CLI root.
const DefaultName = "appfactory"

// Stage names, in execution order.
const (
	StageDiscover           = "discover"
	StageConfigure          = "configure"
	StageExtensions         = "extensions"
	StageBlueprints         = "blueprints"
	StageModels             = "models"
	StageSerializers        = "serializers"
	StageDeferredExtensions = "deferred_extensions"
	StageCLI                = "cli"
	StageShellContext       = "shell_context"
)

// Options selects what CreateApp wires in.
type Options struct {
	Name string
	// Catalog resolves bundle names. Ignored when Bundles is set.
	Catalog *bundle.Catalog
	// Bundles skips discovery and attaches exactly these descriptors.
	Bundles []*bundle.Bundle
	// Extensions are initialized before blueprints.
	Extensions *app.Extensions
	// DeferredExtensions are initialized after models and serializers.
	DeferredExtensions *app.Extensions
	// Commands are top-level CLI commands, added after the built-ins.
	Commands []commands.Factory
	Logger   *logging.Logger
}

// DefaultOptions wires the compiled-in bundles, extensions and commands.
func DefaultOptions() Options {
	return Options{
		Name:               DefaultName,
		Catalog:            bundles.Catalog(),
		Extensions:         extensions.Base(),
		DeferredExtensions: extensions.Deferred(),
		Commands:           commands.TopLevel(),
	}
}

// New loads configuration from the environment, choosing the development
// profile when APP_DEBUG is true, and creates the default application.
func New() (*app.Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, &StartupError{Stage: "config", Err: err}
	}
	return CreateApp(cfg, DefaultOptions())
}

type stage struct {
	name string
	run  func() error
}

// CreateApp builds a fully configured application. Stages run in a fixed
// order; the first failure shuts down whatever was started and is
// returned as a *StartupError. No application is returned on failure.
func CreateApp(cfg *config.Config, opts Options) (*app.Application, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.FromConfig(cfg.Logging.Level, cfg.Logging.Development)
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	name := opts.Name
	if name == "" {
		name = DefaultName
	}

	a := app.New(name, logger)

	found, err := discoverBundles(cfg, opts, logger)
	if err != nil {
		logger.Error("Bundle discovery failed", zap.Error(err))
		return nil, &StartupError{Stage: StageDiscover, Err: err}
	}
	a.AttachBundles(found)
	a.Metrics.BundlesRegistered.Set(float64(len(found)))

	shellExtensions := opts.Extensions.Clone().Merge(opts.DeferredExtensions)

	stages := []stage{
		{StageConfigure, func() error { return Configure(a, cfg) }},
		{StageExtensions, func() error { return RegisterExtensions(a, opts.Extensions) }},
		{StageBlueprints, func() error { return RegisterBlueprints(a) }},
		{StageModels, func() error { RegisterModels(a); return nil }},
		{StageSerializers, func() error { return RegisterSerializers(a) }},
		{StageDeferredExtensions, func() error { return RegisterExtensions(a, opts.DeferredExtensions) }},
		{StageCLI, func() error { return RegisterCLICommands(a, buildCommands(a, opts.Commands)) }},
		{StageShellContext, func() error { RegisterShellContext(a, shellExtensions); return nil }},
	}

	if err := runStages(a, stages); err != nil {
		if shutdownErr := a.Shutdown(context.Background()); shutdownErr != nil {
			logger.Warn("Cleanup after failed bootstrap", zap.Error(shutdownErr))
		}
		return nil, err
	}

	logger.Info("Application created",
		zap.String("app", a.Name),
		zap.Strings("bundles", a.BundleNames()),
		zap.Strings("extensions", a.Extensions().IDs()),
		zap.Int("models", len(a.Models)),
		zap.Int("serializers", len(a.Serializers)),
	)
	return a, nil
}

func runStages(a *app.Application, stages []stage) error {
	for _, s := range stages {
		timer := monitoring.NewStageTimer(a.Metrics, s.name)
		err := s.run()
		elapsed := timer.Stop()

		if err != nil {
			// Command conflicts are already reported by the registrar.
			var conflict *CommandConflictError
			if !errors.As(err, &conflict) {
				a.Logger.Error("Bootstrap stage failed", zap.String("stage", s.name), zap.Error(err))
			}
			return &StartupError{Stage: s.name, Err: err}
		}

		a.RecordStage(s.name, elapsed)
		a.Logger.Debug("Bootstrap stage complete", zap.String("stage", s.name), zap.Duration("duration", elapsed))
	}
	return nil
}

func discoverBundles(cfg *config.Config, opts Options, logger *logging.Logger) ([]*bundle.Bundle, error) {
	if opts.Bundles != nil {
		return opts.Bundles, nil
	}
	if opts.Catalog == nil {
		return nil, nil
	}
	return bundle.Discover(opts.Catalog, bundle.Options{
		Roots:   cfg.Bundles.Roots,
		Enabled: cfg.Bundles.Enabled,
		BaseDir: cfg.ProjectRoot,
		Logger:  logger.Named("bundles").Logger,
	})
}

// buildCommands returns the built-in commands followed by the top-level
// commands built from factories.
func buildCommands(a *app.Application, factories []commands.Factory) []*cobra.Command {
	all := append(commands.Builtin(), factories...)
	cmds := make([]*cobra.Command, 0, len(all))
	for _, f := range all {
		cmds = append(cmds, f(a))
	}
	return cmds
}
