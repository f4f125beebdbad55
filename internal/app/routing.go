package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundle"
)

// MountedBlueprint records where a blueprint was attached.
type MountedBlueprint struct {
	Bundle string
	Name   string
	Prefix string
}

// SetStrictSlashes selects trailing-slash handling. Strict matching
// redirects to the declared form of a route; non-strict matching serves
// both "/x" and "/x/" without a redirect. The router's own redirect stays
// off so that request hooks also run for redirects.
func (a *Application) SetStrictSlashes(strict bool) {
	a.strictSlashes = strict
	a.Router.RedirectTrailingSlash = false
}

// StrictSlashes reports whether strict trailing-slash matching is on.
func (a *Application) StrictSlashes() bool {
	return a.strictSlashes
}

// RegisterBlueprint mounts bp under prefix on behalf of owner. Route
// conflicts reported by the router come back as errors.
func (a *Application) RegisterBlueprint(owner string, bp *bundle.Blueprint, prefix string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("blueprint %s/%s: %v", owner, bp.Name, r)
		}
	}()

	group := a.Router.Group(prefix)
	if bp.Routes != nil {
		bp.Routes(group)
	}

	a.blueprints = append(a.blueprints, MountedBlueprint{
		Bundle: owner,
		Name:   bp.Name,
		Prefix: prefix,
	})
	a.Logger.Debug("Blueprint registered",
		zap.String("bundle", owner),
		zap.String("blueprint", bp.Name),
		zap.String("prefix", prefix),
	)
	return nil
}

// Blueprints returns mounted blueprints in attachment order.
func (a *Application) Blueprints() []MountedBlueprint {
	return append([]MountedBlueprint(nil), a.blueprints...)
}

// ServeHTTP dispatches to the router. With non-strict slashes a path that
// only matches a route in its other trailing-slash form is rewritten to
// that form first.
func (a *Application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !a.strictSlashes {
		a.routesOnce.Do(a.indexRoutes)
		if alt, ok := a.routes.alternate(r.Method, r.URL.Path); ok {
			r.URL.Path = alt
			r.URL.RawPath = ""
		}
	}
	a.Router.ServeHTTP(w, r)
}

// redirectSlash answers unmatched requests in strict mode with a redirect
// to the declared trailing-slash form, if one exists. It runs as the
// router's NoRoute handler, inside the request cycle.
func (a *Application) redirectSlash(c *gin.Context) {
	if !a.strictSlashes {
		return
	}
	a.routesOnce.Do(a.indexRoutes)
	alt, ok := a.routes.alternate(c.Request.Method, c.Request.URL.Path)
	if !ok {
		return
	}

	code := http.StatusMovedPermanently
	if c.Request.Method != http.MethodGet {
		code = http.StatusTemporaryRedirect
	}
	target := *c.Request.URL
	target.Path = alt
	target.RawPath = ""
	c.Redirect(code, target.RequestURI())
}

// indexRoutes snapshots the route table. Routes are fixed once the
// application starts serving.
func (a *Application) indexRoutes() {
	a.routes = make(routeIndex)
	for _, route := range a.Router.Routes() {
		a.routes[route.Method] = append(a.routes[route.Method], route.Path)
	}
}

// routeIndex maps HTTP methods to route patterns.
type routeIndex map[string][]string

func (idx routeIndex) matches(method, path string) bool {
	for _, pattern := range idx[method] {
		if matchRoute(pattern, path) {
			return true
		}
	}
	return false
}

// alternate returns the other trailing-slash form of path when only that
// form has a route.
func (idx routeIndex) alternate(method, path string) (string, bool) {
	if path == "/" || path == "" || idx.matches(method, path) {
		return "", false
	}
	var alt string
	if strings.HasSuffix(path, "/") {
		alt = strings.TrimRight(path, "/")
		if alt == "" {
			return "", false
		}
	} else {
		alt = path + "/"
	}
	if idx.matches(method, alt) {
		return alt, true
	}
	return "", false
}

// matchRoute reports whether path matches a gin route pattern with
// :param and *catchAll segments.
func matchRoute(pattern, path string) bool {
	for {
		if pattern == "" {
			return path == ""
		}
		switch pattern[0] {
		case '*':
			return true
		case ':':
			pEnd := strings.IndexByte(pattern, '/')
			if pEnd < 0 {
				pEnd = len(pattern)
			}
			sEnd := strings.IndexByte(path, '/')
			if sEnd < 0 {
				sEnd = len(path)
			}
			if sEnd == 0 {
				return false
			}
			pattern, path = pattern[pEnd:], path[sEnd:]
		default:
			if path == "" || pattern[0] != path[0] {
				return false
			}
			pattern, path = pattern[1:], path[1:]
		}
	}
}
