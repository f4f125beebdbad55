// Package csrf issues and validates anti-forgery tokens.
//
// A token is a signed ULID nonce. The ULID carries its issue time and the
// signature covers the session the token is bound to, so tokens expire
// without server-side state and cannot be replayed across sessions.
package csrf

import (
	"errors"
	"time"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/shared/signing"
)

var (
	// ErrMissing is returned when no token was submitted.
	ErrMissing = errors.New("csrf token missing")
	// ErrInvalid is returned for malformed or forged tokens.
	ErrInvalid = errors.New("csrf token invalid")
	// ErrExpired is returned for tokens older than the time limit.
	ErrExpired = errors.New("csrf token expired")
)

// scopeSeparator joins the signer name and the binding.
const scopeSeparator = ":"

// Generator creates and checks tokens.
type Generator struct {
	signer    *signing.Signer
	ids       *id.Generator
	timeLimit time.Duration
	now       func() time.Time
}

// NewGenerator creates a generator signing with secret. Tokens signed
// with any of the fallback secrets still validate. A zero timeLimit makes
// tokens valid forever.
func NewGenerator(secret string, timeLimit time.Duration, fallbacks ...string) *Generator {
	return &Generator{
		signer:    signing.New("csrf-token", 0, append([]string{secret}, fallbacks...)...),
		ids:       id.Default(),
		timeLimit: timeLimit,
		now:       time.Now,
	}
}

// Generate returns a fresh token bound to binding (usually the session ID).
// The binding is part of the signature but not of the token.
func (g *Generator) Generate(binding string) (string, error) {
	return g.scope(binding).Sign(g.ids.Generate().String())
}

// Validate checks token against binding.
func (g *Generator) Validate(token, binding string) error {
	if token == "" {
		return ErrMissing
	}
	nonce, ok := g.scope(binding).Unsign(token)
	if !ok {
		return ErrInvalid
	}

	issued, err := id.Timestamp(nonce)
	if err != nil {
		return ErrInvalid
	}
	if g.timeLimit > 0 && g.now().Sub(issued) > g.timeLimit {
		return ErrExpired
	}
	return nil
}

func (g *Generator) scope(binding string) *signing.Signer {
	return g.signer.Scoped("csrf-token" + scopeSeparator + binding)
}

// TimeLimit returns how long tokens stay valid.
func (g *Generator) TimeLimit() time.Duration {
	return g.timeLimit
}
