package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundle"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/config"
)

func newSiteApp(t *testing.T, p *pages) *app.Application {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a := app.New("test", nil)
	a.ApplyConfig(config.Test())
	a.AttachBundles([]*bundle.Bundle{{Name: Name}})
	require.NoError(t, a.RegisterBlueprint(Name, &bundle.Blueprint{Name: "pages", Routes: p.routes}, ""))
	return a
}

func postForm(a *app.Application, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.ServeHTTP(w, req)
	return w
}

func TestNew(t *testing.T) {
	b := New()

	assert.Equal(t, Name, b.Name)
	assert.False(t, b.HasCommandGroup())
	require.Len(t, b.Serializers, 1)
	assert.Equal(t, "ContactSubmission", bundle.ModelName(b.Serializers[0].Serializer.Model()))
	assert.Equal(t, "", b.Blueprints[0].URLPrefix)
}

func TestIndex(t *testing.T) {
	a := newSiteApp(t, newPages())

	w := httptest.NewRecorder()
	a.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"test","bundles":["site"]}`, w.Body.String())
}

func TestContact(t *testing.T) {
	valid := url.Values{
		"name":    {"  Ada  "},
		"email":   {"ada@example.com"},
		"message": {"Hello, I would like a demo."},
	}

	tests := []struct {
		name     string
		form     url.Values
		wantCode int
	}{
		{name: "valid", form: valid, wantCode: http.StatusCreated},
		{name: "missing email", form: url.Values{"name": {"Ada"}, "message": {"Hi there"}}, wantCode: http.StatusBadRequest},
		{name: "bad email", form: url.Values{"name": {"Ada"}, "email": {"ada"}, "message": {"Hi there"}}, wantCode: http.StatusBadRequest},
		{name: "empty message", form: url.Values{"name": {"Ada"}, "email": {"ada@example.com"}}, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPages()
			a := newSiteApp(t, p)

			w := postForm(a, tt.form)
			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusCreated {
				assert.Empty(t, p.inbox)
				return
			}
			require.Len(t, p.inbox, 1)
			assert.Equal(t, "Ada", p.inbox[0].Name)
			assert.Contains(t, w.Body.String(), `"id":"msg_`)
		})
	}
}

func TestContactInboxIsBounded(t *testing.T) {
	p := newPages()
	for i := 0; i < inboxSize+5; i++ {
		require.NoError(t, p.store(context.Background(), nil, ContactSubmission{ID: string(rune('a' + i%26))}))
	}
	assert.Len(t, p.inbox, inboxSize)
}

type fakeExecer struct {
	err  error
	sql  string
	args []any
}

func (f *fakeExecer) Exec(_ context.Context, sql string, args ...any) (int64, error) {
	f.sql, f.args = sql, args
	return 1, f.err
}

func TestContactUsesDatabase(t *testing.T) {
	db := &fakeExecer{}
	p := newPages()
	p.db = func(*app.Application) execer { return db }
	p.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	a := newSiteApp(t, p)

	w := postForm(a, url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hello there"}})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, insertSubmissionSQL, db.sql)
	assert.Equal(t, "Ada", db.args[1])
	assert.Empty(t, p.inbox)

	db.err = errors.New("connection refused")
	w = postForm(a, url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hello there"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
