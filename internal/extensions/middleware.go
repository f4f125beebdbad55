package extensions

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/api/middleware"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/monitoring"
)

// RequestID tags every request with an X-Request-ID.
type RequestID struct{}

// InitApp installs the middleware.
func (RequestID) InitApp(a *app.Application) error {
	a.Router.Use(middleware.RequestID())
	return nil
}

// Metrics records per-request Prometheus metrics and serves the registry.
type Metrics struct {
	// Path serves the registry. Empty disables the endpoint.
	Path string
}

// InitApp installs the middleware and the scrape endpoint.
func (m *Metrics) InitApp(a *app.Application) error {
	a.Router.Use(monitoring.Middleware(a.Metrics))
	if m.Path != "" {
		a.Router.GET(m.Path, gin.WrapH(a.Metrics.Handler()))
	}
	return nil
}

// Compress gzips responses for clients that accept it.
type Compress struct {
	// Exclude lists path prefixes left uncompressed.
	Exclude []string
}

// InitApp installs the middleware when compression is enabled.
func (e *Compress) InitApp(a *app.Application) error {
	if !a.Config.Compress.Enabled {
		return nil
	}
	a.Router.Use(middleware.Gzip(middleware.GzipConfig{
		Level:   a.Config.Compress.Level,
		Exclude: e.Exclude,
	}))
	return nil
}

// CORS applies the configured cross-origin policy.
type CORS struct{}

// InitApp installs the middleware when CORS is enabled.
func (CORS) InitApp(a *app.Application) error {
	if !a.Config.CORS.Enabled {
		return nil
	}
	a.Router.Use(middleware.CORS(middleware.CORSFromConfig(a.Config.CORS, a.Config.CSRF.HeaderName)))
	return nil
}

// RateLimit applies per-client rate limiting.
type RateLimit struct{}

// InitApp installs the limiter when rate limiting is enabled.
func (RateLimit) InitApp(a *app.Application) error {
	cfg := a.Config.RateLimit
	if !cfg.Enabled {
		return nil
	}
	a.Router.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	}))
	return nil
}

// CSRF rejects unsafe requests without a valid anti-forgery token.
type CSRF struct {
	// Exempt lists path prefixes that skip the check.
	Exempt []string
}

// InitApp installs the check when CSRF protection is enabled.
func (e *CSRF) InitApp(a *app.Application) error {
	if !a.Config.CSRF.Enabled {
		return nil
	}
	a.Router.Use(middleware.CSRF(a.CSRF(), middleware.CSRFConfig{
		HeaderName: a.Config.CSRF.HeaderName,
		Exempt:     e.Exempt,
		OnReject: func(c *gin.Context, err error) {
			a.Metrics.CSRFRejected.Inc()
			a.Logger.Warn("CSRF check failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.Error(err))
		},
	}))
	return nil
}
