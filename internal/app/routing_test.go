package app

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundle"
)

func ok(c *gin.Context) { c.String(http.StatusOK, c.FullPath()) }

func TestMatchRoute(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/users", "/users", true},
		{"/users", "/users/", false},
		{"/users/", "/users/", true},
		{"/users/:id", "/users/42", true},
		{"/users/:id", "/users/", false},
		{"/users/:id/posts", "/users/42/posts", true},
		{"/users/:id/posts", "/users/42/posts/", false},
		{"/static/*filepath", "/static/css/site.css", true},
		{"/static/*filepath", "/static/", true},
		{"/", "/", true},
		{"/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, matchRoute(tt.pattern, tt.path))
		})
	}
}

func TestNonStrictSlashes(t *testing.T) {
	a := newTestApp(t)
	a.SetStrictSlashes(false)
	a.Router.GET("/items", ok)
	a.Router.GET("/folders/", ok)
	a.Router.GET("/users/:id", ok)

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/items", http.StatusOK, "/items"},
		{"/items/", http.StatusOK, "/items"},
		{"/folders/", http.StatusOK, "/folders/"},
		{"/folders", http.StatusOK, "/folders/"},
		{"/users/7/", http.StatusOK, "/users/:id"},
		{"/nothing/", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(a, http.MethodGet, tt.path)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestStrictSlashesRedirect(t *testing.T) {
	a := newTestApp(t)
	a.SetStrictSlashes(true)
	a.Router.GET("/items", ok)

	assert.Equal(t, http.StatusOK, serve(a, http.MethodGet, "/items").Code)

	w := serve(a, http.MethodGet, "/items/")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/items", w.Header().Get("Location"))
	assert.False(t, a.Router.RedirectTrailingSlash)
}

func TestStrictSlashesRedirectRunsRequestHooks(t *testing.T) {
	a := newTestApp(t)
	a.SetStrictSlashes(true)
	a.Router.GET("/items", ok)
	a.Router.POST("/items", ok)

	var before, after int
	a.BeforeRequest(func(*gin.Context) { before++ })
	a.AfterRequest(func(c *gin.Context) {
		after++
		c.Header("X-After", "yes")
	})

	w := serve(a, http.MethodGet, "/items/?page=2")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/items?page=2", w.Header().Get("Location"))
	assert.Equal(t, "yes", w.Header().Get("X-After"))
	assert.Equal(t, 1, before)
	assert.Equal(t, 1, after)

	w = serve(a, http.MethodPost, "/items/")
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/items", w.Header().Get("Location"))

	w = serve(a, http.MethodGet, "/nothing/")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 3, after)
}

func TestRegisterBlueprint(t *testing.T) {
	a := newTestApp(t)
	bp := &bundle.Blueprint{
		Name: "api",
		Routes: func(r gin.IRoutes) {
			r.GET("/items", ok)
		},
	}

	require.NoError(t, a.RegisterBlueprint("shop", bp, "/api"))
	assert.Equal(t, []MountedBlueprint{{Bundle: "shop", Name: "api", Prefix: "/api"}}, a.Blueprints())
	assert.Equal(t, "/api/items", serve(a, http.MethodGet, "/api/items").Body.String())
}

func TestRegisterBlueprintConflict(t *testing.T) {
	a := newTestApp(t)
	bp := &bundle.Blueprint{
		Name:   "api",
		Routes: func(r gin.IRoutes) { r.GET("/items", ok) },
	}

	require.NoError(t, a.RegisterBlueprint("shop", bp, "/api"))
	err := a.RegisterBlueprint("store", bp, "/api")
	assert.ErrorContains(t, err, "blueprint store/api")
	assert.Len(t, a.Blueprints(), 1)
}

func TestRegisterBlueprintWithoutRoutes(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.RegisterBlueprint("shop", &bundle.Blueprint{Name: "empty"}, ""))
	assert.Len(t, a.Blueprints(), 1)
}
