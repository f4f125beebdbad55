// Package signing authenticates short string values such as session IDs
// and anti-forgery nonces. Values are signed, not encrypted.
package signing

import (
	"errors"
	"time"

	"github.com/gorilla/securecookie"
)

// ErrNoSecret is returned when a signer has no usable key.
var ErrNoSecret = errors.New("signing secret not set")

// Signer signs values under a name. The name is part of every MAC, so
// signers with different names never accept each other's output.
type Signer struct {
	name   string
	codecs []securecookie.Codec
}

// New creates a signer for name. The first secret signs; every secret
// verifies, which lets old keys be rotated out. maxAge bounds the age of
// an accepted signature; zero disables the check.
func New(name string, maxAge time.Duration, secrets ...string) *Signer {
	codecs := make([]securecookie.Codec, 0, len(secrets))
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		sc := securecookie.New([]byte(secret), nil)
		sc.SetSerializer(securecookie.NopEncoder{})
		sc.MaxAge(int(maxAge / time.Second))
		codecs = append(codecs, sc)
	}
	return &Signer{name: name, codecs: codecs}
}

// Scoped returns a signer sharing s's keys under another name.
func (s *Signer) Scoped(name string) *Signer {
	return &Signer{name: name, codecs: s.codecs}
}

// Sign returns an encoded, timestamped and signed form of value.
func (s *Signer) Sign(value string) (string, error) {
	if len(s.codecs) == 0 {
		return "", ErrNoSecret
	}
	return securecookie.EncodeMulti(s.name, []byte(value), s.codecs...)
}

// Unsign verifies a signed value and returns the original.
func (s *Signer) Unsign(signed string) (string, bool) {
	if signed == "" || len(s.codecs) == 0 {
		return "", false
	}
	var value []byte
	if err := securecookie.DecodeMulti(s.name, signed, &value, s.codecs...); err != nil {
		return "", false
	}
	return string(value), true
}
