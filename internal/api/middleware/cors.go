package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/config"
)

// CORSConfig is the cross-origin policy applied to every route.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig allows any origin and the headers that blueprint
// clients send: the anti-forgery token and the request ID among them.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			"Accept", "Authorization", "Cache-Control", "Content-Type",
			"Origin", "X-Requested-With", "X-CSRFToken", RequestIDHeader,
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// CORSFromConfig overlays configured origins and max age on the defaults
// and allows a custom anti-forgery header name.
func CORSFromConfig(cfg config.CORSConfig, csrfHeader string) CORSConfig {
	c := DefaultCORSConfig()
	if len(cfg.AllowOrigins) > 0 {
		c.AllowOrigins = cfg.AllowOrigins
	}
	if cfg.MaxAge > 0 {
		c.MaxAge = cfg.MaxAge
	}
	if csrfHeader != "" && csrfHeader != "X-CSRFToken" {
		c.AllowHeaders = append(c.AllowHeaders, csrfHeader)
	}
	return c
}

// CORS answers preflight requests and sets cross-origin headers.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
