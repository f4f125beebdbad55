package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/shared/signing"
)

// Options configures the session cookie.
type Options struct {
	CookieName string
	Lifetime   time.Duration
	Secure     bool
	Secret     string
	// FallbackSecrets still verify cookies signed before a key rotation.
	FallbackSecrets []string
}

// Manager opens sessions from request cookies and writes them back.
type Manager struct {
	store  Store
	opts   Options
	signer *signing.Signer
	now    func() time.Time
}

// NewManager creates a manager persisting sessions in store.
func NewManager(store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}
	return &Manager{
		store:  store,
		opts:   opts,
		signer: signing.New(opts.CookieName, opts.Lifetime, append([]string{opts.Secret}, opts.FallbackSecrets...)...),
		now:    time.Now,
	}
}

// Store returns the backing store.
func (m *Manager) Store() Store { return m.store }

// SetStore replaces the backing store. Only call during bootstrap.
func (m *Manager) SetStore(store Store) { m.store = store }

// CookieName returns the session cookie name.
func (m *Manager) CookieName() string { return m.opts.CookieName }

// New returns a fresh, unsaved session.
func (m *Manager) New() *Session {
	return newSession(id.NewSessionID().String())
}

// Open returns the session referenced by the request cookie. A missing,
// forged or expired cookie yields a new session; only store failures are
// returned as errors.
func (m *Manager) Open(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil {
		return m.New(), nil
	}
	sid, ok := m.signer.Unsign(cookie.Value)
	if !ok {
		return m.New(), nil
	}

	s, err := m.store.Load(r.Context(), sid)
	if errors.Is(err, ErrNotFound) {
		return m.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s.Expired(m.now()) {
		return m.New(), nil
	}

	s.IsNew = false
	s.Modified = false
	return s, nil
}

// Save writes a modified session to the store and issues its cookie.
// Permanent sessions get a cookie expiry of now plus the configured
// lifetime; others get a browser-session cookie. It reports whether
// anything was written.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) (bool, error) {
	if s == nil || !s.Modified {
		return false, nil
	}

	value, err := m.signer.Sign(s.ID)
	if err != nil {
		return false, fmt.Errorf("sign session %s: %w", s.ID, err)
	}

	expires := m.now().Add(m.opts.Lifetime)
	if m.opts.Lifetime > 0 {
		s.ExpiresAt = expires
	}
	if err := m.store.Save(ctx, s, m.opts.Lifetime); err != nil {
		return false, fmt.Errorf("save session %s: %w", s.ID, err)
	}

	cookie := &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if s.Permanent && m.opts.Lifetime > 0 {
		cookie.Expires = expires.UTC()
		cookie.MaxAge = int(m.opts.Lifetime.Seconds())
	}
	http.SetCookie(w, cookie)

	s.Modified = false
	s.IsNew = false
	return true, nil
}

// Destroy deletes the session from the store and expires its cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if err := m.store.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("delete session %s: %w", s.ID, err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
	})
	s.Clear()
	s.Modified = false
	return nil
}
