// Package logging builds the zap logger shared by every part of the
// application and the gin middleware that logs one line per request.
//
// Production configuration writes JSON; development configuration writes
// colored console lines at debug level. The bootstrap logger comes from
// the LOG_LEVEL and LOG_DEV settings:
//
//	logger := logging.FromConfig(cfg.Logging.Level, cfg.Logging.Development)
//	logger.Named("bundles").Info("Bundle discovery complete", zap.Int("bundles", n))
//
//	router.Use(logging.Middleware(logger))
//
// Requests that end in 5xx log at error, 4xx at warn and the rest at
// debug.
package logging
