package security

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/extensions"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/shared/utils"
)

// ErrInvalidCredentials hides whether the username or password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// service holds the bundle's account logic. One instance backs the
// routes and commands of a single bundle descriptor.
type service struct {
	memory *memoryStore
	cost   int
	now    func() time.Time
	// lookup picks the store for a; persistent is false for the
	// in-memory fallback.
	lookup func(a *app.Application) (store UserStore, persistent bool)
}

func newService() *service {
	s := &service{
		memory: newMemoryStore(),
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
	s.lookup = s.defaultLookup
	return s
}

func (s *service) defaultLookup(a *app.Application) (UserStore, bool) {
	if a != nil {
		if db, ok := extensions.DatabaseFrom(a); ok && db.Enabled() {
			return newPostgresStore(db), true
		}
	}
	return s.memory, false
}

func (s *service) register(ctx context.Context, store UserStore, username, password, email string) (*User, error) {
	if err := utils.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := utils.ValidateEmail(email, false); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           id.Default().GenerateWithPrefix(id.UserPrefix),
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		Roles:        []string{DefaultRole.Name},
		CreatedAt:    s.now().UTC(),
	}
	if err := store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) authenticate(ctx context.Context, store UserStore, username, password string) (*User, error) {
	// Malformed input never reaches the store.
	if utils.ValidateUsername(username) != nil || utils.ValidatePassword(password) != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := store.FindByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
