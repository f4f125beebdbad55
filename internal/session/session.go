package session

import (
	"time"

	"github.com/gin-gonic/gin"
)

// contextKey is the gin context key the request cycle stores the
// current session under.
const contextKey = "app.session"

// Session is a server-side session. Values must be JSON-serializable.
type Session struct {
	ID        string         `json:"id"`
	Values    map[string]any `json:"values"`
	Permanent bool           `json:"permanent"`
	ExpiresAt time.Time      `json:"expires_at"`

	// Modified forces the session to be written back and its cookie
	// re-issued at the end of the request.
	Modified bool `json:"-"`
	// IsNew is set when the request carried no usable session cookie.
	IsNew bool `json:"-"`
}

func newSession(id string) *Session {
	return &Session{
		ID:     id,
		Values: make(map[string]any),
		IsNew:  true,
	}
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (any, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// GetString returns the string stored under key, or "".
func (s *Session) GetString(key string) string {
	v, _ := s.Values[key].(string)
	return v
}

// Set stores value under key and marks the session modified.
func (s *Session) Set(key string, value any) {
	s.Values[key] = value
	s.Modified = true
}

// Delete removes key and marks the session modified.
func (s *Session) Delete(key string) {
	if _, ok := s.Values[key]; ok {
		delete(s.Values, key)
		s.Modified = true
	}
}

// Clear removes every value and marks the session modified.
func (s *Session) Clear() {
	s.Values = make(map[string]any)
	s.Modified = true
}

// Len returns the number of stored values.
func (s *Session) Len() int {
	return len(s.Values)
}

// Expired reports whether the session expired before now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Attach stores s on the gin context for the rest of the request.
func Attach(c *gin.Context, s *Session) {
	c.Set(contextKey, s)
}

// FromGin returns the session attached to the request, or nil when
// sessions are not configured.
func FromGin(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}
