// Package extensions holds the application's built-in extensions.
//
// Base extensions are initialized before any blueprint is mounted, so
// the middleware they install wraps every bundle route. Deferred
// extensions run after models and serializers are registered and may
// inspect them.
//
// Base order:
//   - requestid: X-Request-ID tagging
//   - metrics: Prometheus middleware and the /metrics endpoint
//   - cors, ratelimit: request middleware, toggled by configuration
//   - database: Postgres pool (disabled without DATABASE_URL)
//   - sessions: session store selection (memory or redis)
//   - csrf: anti-forgery checks on unsafe methods
//
// Deferred order:
//   - admin: read-only JSON views of the registries under /_admin
//   - health: aggregated health checks at /health
package extensions
