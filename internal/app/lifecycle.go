package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ShutdownFunc releases a resource acquired during bootstrap.
type ShutdownFunc func(ctx context.Context) error

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

type namedCheck struct {
	name  string
	check HealthCheck
}

// OnShutdown registers fn to run on Shutdown. Hooks run in reverse
// registration order.
func (a *Application) OnShutdown(fn ShutdownFunc) {
	a.shutdownHooks = append(a.shutdownHooks, fn)
}

// Shutdown runs every shutdown hook, once, and joins their errors.
func (a *Application) Shutdown(ctx context.Context) error {
	hooks := a.shutdownHooks
	a.shutdownHooks = nil

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			a.logError("Shutdown hook failed", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AddHealthCheck registers a named check reported by the health endpoint.
func (a *Application) AddHealthCheck(name string, check HealthCheck) {
	a.healthChecks = append(a.healthChecks, namedCheck{name: name, check: check})
}

// CheckHealth runs every health check and returns failures by name.
func (a *Application) CheckHealth(ctx context.Context) map[string]error {
	results := make(map[string]error, len(a.healthChecks))
	for _, nc := range a.healthChecks {
		err := nc.check(ctx)
		if err != nil {
			a.Logger.Warn("Health check failed", zap.String("check", nc.name), zap.Error(err))
			err = fmt.Errorf("%s: %w", nc.name, err)
		}
		results[nc.name] = err
	}
	return results
}

// HealthCheckNames returns registered check names in registration order.
func (a *Application) HealthCheckNames() []string {
	names := make([]string, len(a.healthChecks))
	for i, nc := range a.healthChecks {
		names[i] = nc.name
	}
	return names
}
