package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/lostfound/internal/db"
)

func TestRevokeSession(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	loggedOut, active := uuid.NewString(), uuid.NewString()

	if err := RevokeToken(ctx, database, loggedOut, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	// Logging out twice is harmless.
	if err := RevokeToken(ctx, database, loggedOut, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("second RevokeToken: %v", err)
	}

	tests := []struct {
		id   string
		want bool
	}{
		{loggedOut, true},
		{active, false},
	}
	for _, tt := range tests {
		revoked, err := IsTokenRevoked(ctx, database, tt.id)
		if err != nil {
			t.Fatalf("IsTokenRevoked: %v", err)
		}
		if revoked != tt.want {
			t.Errorf("session %s: revoked = %v, want %v", tt.id, revoked, tt.want)
		}
	}
}

func TestRevokePurgesExpiredSessions(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	expired := uuid.NewString()
	if err := RevokeToken(ctx, database, expired, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	if err := RevokeToken(ctx, database, uuid.NewString(), time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	// The token behind an expired entry no longer validates anyway.
	revoked, err := IsTokenRevoked(ctx, database, expired)
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expected expired revocation to be purged")
	}
}
