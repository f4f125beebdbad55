package extensions

import (
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
)

// Extension IDs.
const (
	RequestIDID = "requestid"
	MetricsID   = "metrics"
	CompressID  = "compress"
	CORSID      = "cors"
	RateLimitID = "ratelimit"
	DatabaseID  = "database"
	SessionsID  = "sessions"
	CSRFID      = "csrf"
	AdminID     = "admin"
	HealthID    = "health"
)

// Base returns the extensions initialized before blueprints.
func Base() *app.Extensions {
	return app.NewExtensions().
		Add(RequestIDID, RequestID{}).
		Add(MetricsID, &Metrics{Path: "/metrics"}).
		Add(CompressID, &Compress{Exclude: []string{"/metrics"}}).
		Add(CORSID, CORS{}).
		Add(RateLimitID, RateLimit{}).
		Add(DatabaseID, NewDatabase()).
		Add(SessionsID, NewSessions()).
		Add(CSRFID, &CSRF{})
}

// Deferred returns the extensions initialized after serializers.
func Deferred() *app.Extensions {
	return app.NewExtensions().
		Add(AdminID, &Admin{Prefix: "/_admin"}).
		Add(HealthID, &Health{Path: "/health"})
}
