package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/csrf"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/session"
)

// CSRFFormField is the form field checked when the header is absent.
const CSRFFormField = "csrf_token"

// CSRFConfig configures token checks.
type CSRFConfig struct {
	HeaderName string
	// Exempt lists path prefixes that skip the check.
	Exempt []string
	// OnReject is called for every rejected request.
	OnReject func(c *gin.Context, err error)
}

// CSRF rejects state-changing requests that do not carry a valid token
// bound to the caller's session.
func CSRF(gen *csrf.Generator, cfg CSRFConfig) gin.HandlerFunc {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-CSRFToken"
	}

	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) || isExempt(c.Request.URL.Path, cfg.Exempt) {
			c.Next()
			return
		}

		token := c.GetHeader(cfg.HeaderName)
		if token == "" {
			token = c.PostForm(CSRFFormField)
		}
		binding := ""
		if s := session.FromGin(c); s != nil {
			binding = s.ID
		}

		if err := gen.Validate(token, binding); err != nil {
			if cfg.OnReject != nil {
				cfg.OnReject(c, err)
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": csrfReason(err),
			})
			return
		}
		c.Next()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func isExempt(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func csrfReason(err error) string {
	switch {
	case errors.Is(err, csrf.ErrMissing):
		return "The CSRF token is missing."
	case errors.Is(err, csrf.ErrExpired):
		return "The CSRF token has expired."
	default:
		return "The CSRF token is invalid."
	}
}
