// Package bootstrap is the application factory. It discovers bundles,
// applies configuration and runs the registration stages in their fixed
// order:
//
//	configure → extensions → blueprints → models → serializers →
//	deferred extensions → CLI → shell context
//
// Later stages depend on earlier ones: migration locations need the
// bundle list, blueprints need configuration, CLI registration needs the
// bundles attached. Any failure aborts startup with a *StartupError; a
// CLI name collision carries a *CommandConflictError.
//
// Example Usage:
//
//	a, err := bootstrap.New()
//	if err != nil {
//		os.Exit(1)
//	}
//	err = a.Execute(ctx, os.Args[1:])
package bootstrap
