package store

import (
	"context"
	"testing"

	"github.com/erazemk/lostfound/internal/db"
)

func TestGetJWTSecret_GeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// First call should generate a secret.
	secret1, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	// Second call should return the same secret.
	secret2, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, ok, err := GetSetting(ctx, database, "session:x"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := PutSetting(ctx, database, "session:x", "one"); err != nil {
		t.Fatalf("PutSetting: %v", err)
	}
	if err := PutSetting(ctx, database, "session:x", "two"); err != nil {
		t.Fatalf("PutSetting overwrite: %v", err)
	}

	v, ok, err := GetSetting(ctx, database, "session:x")
	if err != nil || !ok || v != "two" {
		t.Fatalf("expected 'two', got %q ok=%v err=%v", v, ok, err)
	}

	if err := DeleteSetting(ctx, database, "session:x"); err != nil {
		t.Fatalf("DeleteSetting: %v", err)
	}
	if _, ok, _ := GetSetting(ctx, database, "session:x"); ok {
		t.Error("expected key to be gone after delete")
	}
}
