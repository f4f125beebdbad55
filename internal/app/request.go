package app

import (
	"bufio"
	"net"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/session"
)

// HookFunc runs around request handling. Before hooks may abort the
// request; after hooks may only adjust response headers and cookies.
type HookFunc func(c *gin.Context)

const ginAppKey = "app.application"

// FromGin returns the application serving the request.
func FromGin(c *gin.Context) (*Application, bool) {
	v, ok := c.Get(ginAppKey)
	if !ok {
		return nil, false
	}
	a, ok := v.(*Application)
	return a, ok
}

// BeforeRequest registers a hook run before every request handler, after
// the session has been opened.
func (a *Application) BeforeRequest(h HookFunc) {
	a.before = append(a.before, h)
}

// AfterRequest registers a hook run once per request just before the
// response header is written. After hooks run in reverse registration
// order.
func (a *Application) AfterRequest(h HookFunc) {
	a.after = append(a.after, h)
}

// requestCycle opens the session, runs before hooks, and arranges for
// after hooks and the session save to happen before the first byte of
// the response is written.
func (a *Application) requestCycle() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ginAppKey, a)
		if a.sessions != nil {
			s, err := a.sessions.Open(c.Request)
			if err != nil {
				a.logError("Failed to open session", err, zap.String("path", c.Request.URL.Path))
				s = a.sessions.New()
			}
			session.Attach(c, s)
		}

		w := &hookWriter{ResponseWriter: c.Writer}
		w.finish = func() { a.finishRequest(c, w.ResponseWriter) }
		c.Writer = w

		for _, h := range a.before {
			h(c)
			if c.IsAborted() {
				break
			}
		}
		if !c.IsAborted() {
			c.Next()
		}

		w.fire()
		c.Writer = w.ResponseWriter
	}
}

func (a *Application) finishRequest(c *gin.Context, w gin.ResponseWriter) {
	for i := len(a.after) - 1; i >= 0; i-- {
		a.after[i](c)
	}

	s := session.FromGin(c)
	if s == nil || a.sessions == nil {
		return
	}
	saved, err := a.sessions.Save(c.Request.Context(), w, s)
	if err != nil {
		a.logError("Failed to save session", err, zap.String("session", s.ID))
		return
	}
	if saved {
		a.Metrics.SessionsSaved.Inc()
	}
}

// hookWriter runs finish once, immediately before anything reaches the
// client.
type hookWriter struct {
	gin.ResponseWriter
	once   sync.Once
	finish func()
}

func (w *hookWriter) fire() {
	w.once.Do(w.finish)
}

func (w *hookWriter) WriteHeaderNow() {
	w.fire()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *hookWriter) Write(data []byte) (int, error) {
	w.fire()
	return w.ResponseWriter.Write(data)
}

func (w *hookWriter) WriteString(s string) (int, error) {
	w.fire()
	return w.ResponseWriter.WriteString(s)
}

func (w *hookWriter) Flush() {
	w.fire()
	w.ResponseWriter.Flush()
}

func (w *hookWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	w.fire()
	return w.ResponseWriter.Hijack()
}
