package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	app "github.com/Bhagya-2005/ai-study-mentor"
	"golang.org/x/crypto/bcrypt"
)

// UserStore implements the app.UserStore interface against sqlite.
type UserStore struct {
	db           *DB
	UserPwPepper string
}

// NewUserStore creates and returns a new instance of a UserStore.
func NewUserStore(db *DB, pepper string) *UserStore {
	return &UserStore{db: db, UserPwPepper: pepper}
}

// Create creates a new user. It returns app.ErrDuplicateEmail when the email
// is already registered.
func (s *UserStore) Create(ctx context.Context, email, password string) (*app.User, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password+s.UserPwPepper), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := app.User{
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hashedBytes),
	}

	res, err := s.db.db.ExecContext(ctx, `INSERT INTO users (email, password) VALUES (?, ?)`, u.Email, u.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, app.ErrDuplicateEmail
		}
		return nil, err
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	return &u, nil
}

// Authenticate authenticates a user based on email and password. An unknown
// email and a wrong password both return app.ErrInvalidCredentials.
func (s *UserStore) Authenticate(ctx context.Context, email, password string) (*app.User, error) {
	foundUser, err := s.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			return nil, app.ErrInvalidCredentials
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(foundUser.PasswordHash), []byte(password+s.UserPwPepper))
	switch err {
	case nil:
		return foundUser, nil
	case bcrypt.ErrMismatchedHashAndPassword:
		return nil, app.ErrInvalidCredentials
	default:
		return nil, err
	}
}

// ByEmail retrieves a user by their email address.
func (s *UserStore) ByEmail(ctx context.Context, email string) (*app.User, error) {
	row := s.db.db.QueryRowContext(ctx, `SELECT id, email, password FROM users WHERE email = ?`, strings.TrimSpace(email))
	return scanUser(row)
}

// ByID retrieves a user by id.
func (s *UserStore) ByID(ctx context.Context, id int64) (*app.User, error) {
	row := s.db.db.QueryRowContext(ctx, `SELECT id, email, password FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// Count returns the number of registered users.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func scanUser(row *sql.Row) (*app.User, error) {
	var u app.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, app.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
