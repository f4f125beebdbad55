// Package config provides 12-factor configuration management for the
// application factory.
//
// A profile (Dev, Prod or Test) supplies the base values; environment
// variables override individual fields. APP_DEBUG selects between the
// development and production profiles.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, shutdown timeout)
//   - Logging: Log level and output format
//   - Session: Cookie name, lifetime and backing store
//   - CSRF: Anti-forgery cookie and header names
//   - Templates: Template folder and static file serving
//   - Bundles: Bundle manifest roots and the enabled allow-list
//   - Migrations: Per-bundle version locations (computed at bootstrap)
//   - Database, Redis: Extension connection settings
//   - RateLimit, CORS, Compress: Request middleware settings
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	fmt.Printf("Server running on %s\n", cfg.Addr())
//
// Environment Variables:
//   - APP_DEBUG, APP_ENV, SECRET_KEY, SECRET_KEY_FALLBACKS, PROJECT_ROOT, STRICT_SLASHES
//   - PORT, HOST, LOG_LEVEL, LOG_DEV
//   - SESSION_STORE, SESSION_LIFETIME, CSRF_ENABLED
//   - BUNDLE_ROOTS, BUNDLES
//   - DATABASE_URL, REDIS_ADDR
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - COMPRESS_ENABLED, COMPRESS_LEVEL
package config
