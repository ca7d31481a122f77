package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// Users is the user repository.
type Users struct {
	DB        *sql.DB
	Validator *model.Validator

	// Cost is the bcrypt cost; tests lower it.
	Cost int
}

// NewUsers returns a user repository.
func NewUsers(db *sql.DB, v *model.Validator) *Users {
	return &Users{DB: db, Validator: v, Cost: bcrypt.DefaultCost}
}

// Create validates a new account, hashes its password and stores it.
// An email that is already registered returns store.ErrDuplicateEmail.
func (r *Users) Create(ctx context.Context, u *model.User, password string) error {
	u.Email = strings.TrimSpace(u.Email)
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if r.Validator != nil {
		if err := r.Validator.Struct(u); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	if err := model.ValidatePassword(password); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	u.PasswordHash = string(hash)

	return store.PutUser(ctx, r.DB, u)
}

// ByEmail returns the user registered under email, or nil.
func (r *Users) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return store.GetUserByEmail(ctx, r.DB, strings.TrimSpace(email))
}

// ByID returns a user, or nil.
func (r *Users) ByID(ctx context.Context, id string) (*model.User, error) {
	return store.GetUser(ctx, r.DB, id)
}

// CheckPassword reports whether password matches the user's stored hash.
func CheckPassword(u *model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
