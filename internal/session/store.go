package session

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
)

// ErrNotFound is returned by stores when a session does not exist or
// has expired.
var ErrNotFound = errors.New("session not found")

// Store persists sessions. Implementations must be safe for concurrent
// use.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Name() string
}

func encode(s *Session) ([]byte, error) {
	return sonic.Marshal(s)
}

func decode(data []byte) (*Session, error) {
	var s Session
	if err := sonic.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	return &s, nil
}
