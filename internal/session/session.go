// Package session manages logins: it checks credentials, keeps the
// sanitized user of every live session in a key/value store and issues the
// bearer token that names the session.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/repo"
	"github.com/erazemk/lostfound/internal/store"
)

// ReasonInvalidCredentials is the failure reason for an unknown email or a
// wrong password.
const ReasonInvalidCredentials = "invalid_credentials"

// Result is the outcome of a login attempt.
type Result struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`

	Token   string         `json:"token,omitempty"`
	Session *model.Session `json:"user,omitempty"`
	Claims  *auth.Claims   `json:"-"`
}

// Service is the login session manager. Create one with New and release it
// with Close.
type Service struct {
	DB     *sql.DB
	Users  *repo.Users
	Store  Store
	Secret string
	Expiry time.Duration
	Logger *slog.Logger
}

// New returns a session service. The JWT signing secret is loaded from (or
// created in) the settings table.
func New(ctx context.Context, db *sql.DB, users *repo.Users, kv Store, expiry time.Duration, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	secret, err := store.GetJWTSecret(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("loading jwt secret: %w", err)
	}
	return &Service{
		DB:     db,
		Users:  users,
		Store:  kv,
		Secret: secret,
		Expiry: expiry,
		Logger: logger,
	}, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

// Login checks the credentials and opens a new session. Bad credentials are
// reported through Result, not as an error, and leave other sessions alone.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	u, err := s.Users.ByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if u == nil || !repo.CheckPassword(u, password) {
		return &Result{Reason: ReasonInvalidCredentials}, nil
	}
	return s.open(ctx, u)
}

// Signup creates an account and logs it in.
func (s *Service) Signup(ctx context.Context, u *model.User, password string) (*Result, error) {
	if err := s.Users.Create(ctx, u, password); err != nil {
		return nil, err
	}
	s.Logger.Info("user signed up", "user", u.ID)
	return s.open(ctx, u)
}

func (s *Service) open(ctx context.Context, u *model.User) (*Result, error) {
	token, claims, err := auth.GenerateToken(s.Secret, u.ID, u.Email, s.Expiry)
	if err != nil {
		return nil, err
	}

	sess := u.Sanitize()
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	if err := s.Store.Set(ctx, sessionKey(claims.ID), string(data)); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	s.Logger.Debug("session opened", "session", claims.ID, "user", u.ID)
	return &Result{OK: true, Token: token, Session: sess, Claims: claims}, nil
}

// Current returns the user logged in under sessionID, or nil.
func (s *Service) Current(ctx context.Context, sessionID string) (*model.Session, error) {
	data, ok, err := s.Store.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var sess model.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &sess, nil
}

// Authenticate resolves a bearer token to its claims and session user. A
// revoked token or a session that was logged out yields nil claims.
func (s *Service) Authenticate(ctx context.Context, token string) (*auth.Claims, *model.Session, error) {
	claims, err := auth.ValidateToken(s.Secret, token)
	if err != nil {
		s.Logger.Debug("rejected token", "error", err)
		return nil, nil, nil
	}

	revoked, err := store.IsTokenRevoked(ctx, s.DB, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, nil
	}

	sess, err := s.Current(ctx, claims.ID)
	if err != nil || sess == nil {
		return nil, nil, err
	}
	return claims, sess, nil
}

// Logout clears the session record and revokes its token until expiresAt.
func (s *Service) Logout(ctx context.Context, sessionID string, expiresAt time.Time) error {
	var errs []error
	if err := s.Store.Delete(ctx, sessionKey(sessionID)); err != nil {
		errs = append(errs, fmt.Errorf("deleting session: %w", err))
	}
	if err := store.RevokeToken(ctx, s.DB, sessionID, expiresAt); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		s.Logger.Debug("session closed", "session", sessionID)
	}
	return errors.Join(errs...)
}

// Close releases the session store.
func (s *Service) Close() error {
	return s.Store.Close()
}
