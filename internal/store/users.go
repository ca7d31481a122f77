package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/erazemk/lostfound/internal/model"
)

// PutUser inserts or replaces a user keyed by ID. A clash on the unique
// email index returns ErrDuplicateEmail and leaves the existing row as is.
func PutUser(ctx context.Context, ex Executor, u *model.User) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO users (id, first_name, last_name, email, password_hash) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		    first_name = excluded.first_name,
		    last_name = excluded.last_name,
		    email = excluded.email,
		    password_hash = excluded.password_hash`,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return storageErr("saving user", err)
	}
	return nil
}

// GetUser returns a user by ID, or nil if it does not exist.
func GetUser(ctx context.Context, ex Executor, id string) (*model.User, error) {
	u := &model.User{}
	err := ex.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email, password_hash, created_at
		 FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("getting user", err)
	}
	return u, nil
}

// GetUserByEmail looks a user up through the unique email index.
func GetUserByEmail(ctx context.Context, ex Executor, email string) (*model.User, error) {
	u := &model.User{}
	err := ex.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email, password_hash, created_at
		 FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("getting user by email", err)
	}
	return u, nil
}
