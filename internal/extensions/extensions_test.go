package extensions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundle"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(t *testing.T, mutate func(cfg *config.Config)) *app.Application {
	t.Helper()
	cfg := config.Test()
	if mutate != nil {
		mutate(cfg)
	}
	a := app.New("test", nil)
	a.ApplyConfig(cfg)
	return a
}

func initAll(t *testing.T, a *app.Application, exts ...app.Extension) {
	t.Helper()
	for _, ext := range exts {
		require.NoError(t, ext.InitApp(a))
	}
}

func serve(a *app.Application, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.ServeHTTP(w, req)
	return w
}

func TestDefaultOrder(t *testing.T) {
	assert.Equal(t,
		[]string{RequestIDID, MetricsID, CompressID, CORSID, RateLimitID, DatabaseID, SessionsID, CSRFID},
		Base().IDs())
	assert.Equal(t, []string{AdminID, HealthID}, Deferred().IDs())

	// Each call builds fresh instances.
	first, _ := Base().Get(DatabaseID)
	second, _ := Base().Get(DatabaseID)
	assert.NotSame(t, first, second)
}

func TestRequestIDAndMetrics(t *testing.T) {
	a := newTestApp(t, nil)
	initAll(t, a, RequestID{}, &Metrics{Path: "/metrics"})
	a.Router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := serve(a, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("X-Request-ID"), "req_"))

	w = serve(a, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app_http_requests_total")
	assert.Contains(t, w.Body.String(), `path="/ping"`)
}

func TestConfigToggledMiddleware(t *testing.T) {
	t.Run("cors disabled", func(t *testing.T) {
		a := newTestApp(t, nil)
		initAll(t, a, CORS{})
		a.Router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "http://elsewhere.test")
		assert.Empty(t, serve(a, req).Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("cors enabled", func(t *testing.T) {
		a := newTestApp(t, func(cfg *config.Config) { cfg.CORS.Enabled = true })
		initAll(t, a, CORS{})
		a.Router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "http://elsewhere.test")
		assert.NotEmpty(t, serve(a, req).Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("compress", func(t *testing.T) {
		for _, enabled := range []bool{true, false} {
			a := newTestApp(t, func(cfg *config.Config) { cfg.Compress.Enabled = enabled })
			initAll(t, a, &Compress{})
			a.Router.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, strings.Repeat("x", 512)) })

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set("Accept-Encoding", "gzip")
			got := serve(a, req).Header().Get("Content-Encoding")
			if enabled {
				assert.Equal(t, "gzip", got)
			} else {
				assert.Empty(t, got)
			}
		}
	})

	t.Run("rate limit enabled", func(t *testing.T) {
		a := newTestApp(t, func(cfg *config.Config) {
			cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 1, Burst: 1}
		})
		initAll(t, a, RateLimit{})
		a.Router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		assert.Equal(t, http.StatusOK, serve(a, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
		assert.Equal(t, http.StatusTooManyRequests, serve(a, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	})

	t.Run("rate limit disabled", func(t *testing.T) {
		a := newTestApp(t, nil)
		initAll(t, a, RateLimit{})
		a.Router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, serve(a, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
		}
	})
}

func TestCSRFProtection(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) { cfg.CSRF.Enabled = true })
	a.BeforeRequest(func(c *gin.Context) { session.FromGin(c).Modified = true })
	initAll(t, a, &CSRF{})
	a.Router.GET("/token", func(c *gin.Context) {
		token, err := a.CSRF().Generate(session.FromGin(c).ID)
		require.NoError(t, err)
		c.String(http.StatusOK, token)
	})
	a.Router.POST("/submit", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := serve(a, httptest.NewRequest(http.MethodPost, "/submit", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(a.Metrics.CSRFRejected))

	w = serve(a, httptest.NewRequest(http.MethodGet, "/token", nil))
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Body.String()
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set("X-CSRFToken", token)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	assert.Equal(t, http.StatusCreated, serve(a, req).Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(a.Metrics.CSRFRejected))
}

func TestCSRFDisabled(t *testing.T) {
	a := newTestApp(t, nil)
	initAll(t, a, &CSRF{})
	a.Router.POST("/submit", func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusCreated, serve(a, httptest.NewRequest(http.MethodPost, "/submit", nil)).Code)
}

type fakePool struct {
	pingErr error
	execErr error
	closed  bool
	sql     string
	args    []any
}

func (f *fakePool) Ping(context.Context) error { return f.pingErr }

func (f *fakePool) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, args
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakePool) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func (f *fakePool) Close() { f.closed = true }

func TestDatabaseDisabled(t *testing.T) {
	a := newTestApp(t, nil)
	db := NewDatabase()
	initAll(t, a, db)

	assert.False(t, db.Enabled())
	assert.ErrorIs(t, db.Ping(context.Background()), ErrDatabaseDisabled)
	_, err := db.Exec(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrDatabaseDisabled)
	assert.Empty(t, a.HealthCheckNames())
}

func TestDatabaseLifecycle(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) { cfg.Database.URL = "postgres://localhost/app" })
	pool := &fakePool{}
	db := NewDatabase()
	var gotURL string
	db.connect = func(_ context.Context, cfg config.DatabaseConfig) (dbPool, error) {
		gotURL = cfg.URL
		return pool, nil
	}
	initAll(t, a, db)
	a.MarkInitialized(DatabaseID, db)

	assert.Equal(t, "postgres://localhost/app", gotURL)
	assert.True(t, db.Enabled())
	assert.Equal(t, []string{"postgres"}, a.HealthCheckNames())

	n, err := db.Exec(context.Background(), "INSERT INTO t VALUES ($1)", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, []any{7}, pool.args)

	got, ok := DatabaseFrom(a)
	require.True(t, ok)
	assert.Same(t, db, got)

	pool.pingErr = errors.New("connection refused")
	assert.Error(t, a.CheckHealth(context.Background())["postgres"])

	require.NoError(t, a.Shutdown(context.Background()))
	assert.True(t, pool.closed)
}

func TestDatabaseSQLErrorsKeepBreakerClosed(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) { cfg.Database.URL = "postgres://localhost/app" })
	pool := &fakePool{execErr: &pgconn.PgError{Code: "23505", Message: "duplicate key value"}}
	db := NewDatabase()
	db.connect = func(context.Context, config.DatabaseConfig) (dbPool, error) { return pool, nil }
	initAll(t, a, db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := db.Exec(ctx, "INSERT INTO users (username) VALUES ($1)", "ada")
		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr, "exec %d", i)
		assert.Equal(t, "23505", pgErr.Code)
	}
	assert.NoError(t, a.CheckHealth(ctx)["postgres"])

	// Connection failures still trip the breaker.
	pool.execErr = errors.New("connection reset by peer")
	for i := 0; i < 3; i++ {
		_, _ = db.Exec(ctx, "SELECT 1")
	}
	_, err := db.Exec(ctx, "SELECT 1")
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.ErrorIs(t, a.CheckHealth(ctx)["postgres"], resilience.ErrCircuitOpen)
}

func TestDatabaseConnectError(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) { cfg.Database.URL = "postgres://localhost/app" })
	db := NewDatabase()
	db.connect = func(context.Context, config.DatabaseConfig) (dbPool, error) {
		return nil, errors.New("bad url")
	}

	assert.EqualError(t, db.InitApp(a), "bad url")
	assert.False(t, db.Enabled())
}

func TestConnectPoolRejectsBadURL(t *testing.T) {
	_, err := connectPool(context.Background(), config.DatabaseConfig{URL: "::not a url::"})
	assert.Error(t, err)
}

type fakeRemoteStore struct {
	*session.MemoryStore
	pingErr error
	closed  bool
}

func (f *fakeRemoteStore) Name() string { return StoreRedis }

func (f *fakeRemoteStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeRemoteStore) Close() error {
	f.closed = true
	return nil
}

func TestSessionsStoreSelection(t *testing.T) {
	t.Run("memory keeps default", func(t *testing.T) {
		a := newTestApp(t, nil)
		initAll(t, a, NewSessions())
		assert.Equal(t, StoreMemory, a.Sessions().Store().Name())
	})

	t.Run("unknown store", func(t *testing.T) {
		a := newTestApp(t, func(cfg *config.Config) { cfg.Session.Store = "filesystem" })
		err := NewSessions().InitApp(a)
		assert.EqualError(t, err, `unknown session store "filesystem"`)
	})

	t.Run("redis", func(t *testing.T) {
		a := newTestApp(t, func(cfg *config.Config) {
			cfg.Session.Store = StoreRedis
			cfg.Redis.Addr = "cache:6379"
		})
		store := &fakeRemoteStore{MemoryStore: session.NewMemoryStore(10)}
		var gotAddr string
		ext := NewSessions()
		ext.openRedis = func(opts session.RedisOptions) remoteStore {
			gotAddr = opts.Addr
			return store
		}
		initAll(t, a, ext)

		assert.Equal(t, "cache:6379", gotAddr)
		assert.Same(t, store, a.Sessions().Store())
		assert.Equal(t, []string{"redis"}, a.HealthCheckNames())

		store.pingErr = errors.New("down")
		assert.Error(t, a.CheckHealth(context.Background())["redis"])

		require.NoError(t, a.Shutdown(context.Background()))
		assert.True(t, store.closed)
	})
}

type widget struct{}

type widgetSerializer struct{}

func (widgetSerializer) Model() any { return &widget{} }

func TestAdminViews(t *testing.T) {
	a := newTestApp(t, nil)
	a.AttachBundles([]*bundle.Bundle{{
		Name:       "shop",
		ModulePath: "internal/bundles/shop",
		Blueprints: []*bundle.Blueprint{{Name: "catalog"}},
	}})
	a.Models["widget"] = &widget{}
	a.Serializers["widget"] = widgetSerializer{}
	a.MarkInitialized(AdminID, &Admin{})
	initAll(t, a, &Admin{Prefix: "/_admin"})

	tests := []struct {
		path string
		want string
	}{
		{"/_admin/bundles", `[{"name":"shop","module_path":"internal/bundles/shop","blueprints":["catalog"]}]`},
		{"/_admin/models", `[{"name":"widget","type":"*extensions.widget"}]`},
		{"/_admin/serializers", `[{"name":"widget","type":"extensions.widgetSerializer"}]`},
		{"/_admin/extensions", `["admin"]`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(a, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}

	assert.Equal(t, app.MountedBlueprint{Bundle: AdminID, Name: AdminID, Prefix: "/_admin"}, a.Blueprints()[0])
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checkErr   error
		wantCode   int
		wantStatus string
		wantCheck  string
	}{
		{name: "healthy", wantCode: http.StatusOK, wantStatus: "ok", wantCheck: "ok"},
		{name: "degraded", checkErr: errors.New("down"), wantCode: http.StatusServiceUnavailable, wantStatus: "degraded", wantCheck: "cache: down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, nil)
			a.AddHealthCheck("cache", func(context.Context) error { return tt.checkErr })
			initAll(t, a, &Health{Path: "/health"})

			w := serve(a, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, tt.wantCode, w.Code)

			var report healthReport
			require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &report))
			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, tt.wantCheck, report.Checks["cache"])
		})
	}
}
