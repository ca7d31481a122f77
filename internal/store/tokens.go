package store

import (
	"context"
	"time"
)

// RevokeToken adds a token's JTI to the revocation list.
func RevokeToken(ctx context.Context, ex Executor, jti string, expiresAt time.Time) error {
	_, err := ex.ExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_tokens (jti, expires_at) VALUES (?, ?)`,
		jti, expiresAt.UTC(),
	)
	if err != nil {
		return storageErr("revoking token", err)
	}

	// Opportunistically clean up expired revocations.
	_, _ = ex.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, time.Now().UTC(),
	)

	return nil
}

// IsTokenRevoked checks if a token's JTI has been revoked.
func IsTokenRevoked(ctx context.Context, ex Executor, jti string) (bool, error) {
	var count int
	err := ex.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM revoked_tokens WHERE jti = ?`, jti,
	).Scan(&count)
	if err != nil {
		return false, storageErr("checking token revocation", err)
	}
	return count > 0, nil
}
