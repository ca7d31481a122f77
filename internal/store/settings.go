package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
)

// GetSetting returns the value stored under key. ok is false when the key is absent.
func GetSetting(ctx context.Context, ex Executor, key string) (value string, ok bool, err error) {
	err = ex.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageErr("getting setting", err)
	}
	return value, true, nil
}

// PutSetting stores value under key, replacing any previous value.
func PutSetting(ctx context.Context, ex Executor, key, value string) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return storageErr("saving setting", err)
	}
	return nil
}

// DeleteSetting removes key. Removing a missing key is not an error.
func DeleteSetting(ctx context.Context, ex Executor, key string) error {
	if _, err := ex.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return storageErr("deleting setting", err)
	}
	return nil
}

// GetJWTSecret retrieves the JWT secret from the database.
// If no secret exists, it generates one, stores it, and returns it.
// Uses INSERT OR IGNORE + re-SELECT to avoid TOCTOU race on concurrent startup.
func GetJWTSecret(ctx context.Context, ex Executor) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", storageErr("generating jwt secret", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := ex.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('jwt_secret', ?)`,
		candidate,
	)
	if err != nil {
		return "", storageErr("storing jwt secret", err)
	}

	// Always read back (either our insert or the existing value).
	secret, _, err := GetSetting(ctx, ex, "jwt_secret")
	if err != nil {
		return "", err
	}
	return secret, nil
}
