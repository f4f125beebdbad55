package extensions

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/session"
)

// Session store names.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// remoteStore is a session store backed by a network service.
type remoteStore interface {
	session.Store
	Ping(ctx context.Context) error
	Close() error
}

// Sessions selects the backing store for the session manager.
type Sessions struct {
	openRedis func(opts session.RedisOptions) remoteStore
	cb        *gobreaker.CircuitBreaker
}

// NewSessions returns an uninitialized sessions extension.
func NewSessions() *Sessions {
	return &Sessions{
		openRedis: func(opts session.RedisOptions) remoteStore {
			return session.NewRedisStore(opts)
		},
	}
}

// InitApp replaces the default in-memory store when another is configured.
func (s *Sessions) InitApp(a *app.Application) error {
	name := a.Config.Session.Store
	switch name {
	case "", StoreMemory:
		return nil
	case StoreRedis:
	default:
		return fmt.Errorf("unknown session store %q", name)
	}

	rc := a.Config.Redis
	store := s.openRedis(session.RedisOptions{
		Addr:      rc.Addr,
		Password:  rc.Password,
		DB:        rc.DB,
		KeyPrefix: rc.KeyPrefix,
	})
	s.cb = resilience.NewBreaker("redis", a.Logger.Logger)

	a.Sessions().SetStore(store)
	a.OnShutdown(func(context.Context) error { return store.Close() })
	a.AddHealthCheck("redis", func(ctx context.Context) error {
		return resilience.Call(ctx, s.cb, store.Ping)
	})
	a.Logger.Info("Session store selected", zap.String("store", store.Name()), zap.String("addr", rc.Addr))
	return nil
}
