// Package middleware provides the HTTP middleware installed by the
// application's extensions.
//
// Middleware stack includes:
//   - RequestID: Tags each request with a "req_" ULID
//   - Gzip: Response compression for clients that accept it
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting
//   - CSRF: Session-bound anti-forgery token checks on unsafe methods
//
// Rate Limiting:
//   - Per-IP tracking with automatic cleanup
//   - Token bucket algorithm
//   - Global rate limiting option
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
