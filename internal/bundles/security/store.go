package security

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUserExists is returned when the username is taken.
	ErrUserExists = errors.New("username already exists")
	// ErrUserNotFound is returned for unknown usernames.
	ErrUserNotFound = errors.New("user not found")
)

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
}

type memoryStore struct {
	users sync.Map
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func (m *memoryStore) Create(_ context.Context, u *User) error {
	c := *u
	if _, loaded := m.users.LoadOrStore(u.Username, &c); loaded {
		return ErrUserExists
	}
	return nil
}

func (m *memoryStore) FindByUsername(_ context.Context, username string) (*User, error) {
	v, ok := m.users.Load(username)
	if !ok {
		return nil, ErrUserNotFound
	}
	c := *v.(*User)
	return &c, nil
}

// querier is implemented by the database extension.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
	QueryRow(ctx context.Context, sql string, args ...any) (pgx.Row, error)
}

const uniqueViolation = "23505"

const (
	insertUserSQL = `INSERT INTO users (id, username, password_hash, email, roles, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	selectUserSQL = `SELECT id, username, password_hash, email, roles, created_at
FROM users WHERE username = $1`
)

type postgresStore struct {
	db querier
}

func newPostgresStore(db querier) *postgresStore {
	return &postgresStore{db: db}
}

func (p *postgresStore) Create(ctx context.Context, u *User) error {
	_, err := p.db.Exec(ctx, insertUserSQL,
		u.ID, u.Username, u.PasswordHash, u.Email, strings.Join(u.Roles, ","), u.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrUserExists
	}
	return err
}

func (p *postgresStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	row, err := p.db.QueryRow(ctx, selectUserSQL, username)
	if err != nil {
		return nil, err
	}

	var (
		u     User
		roles string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &roles, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if roles != "" {
		u.Roles = strings.Split(roles, ",")
	}
	return &u, nil
}
