package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/model"
)

func newItem(id, status string) *model.Item {
	return &model.Item{
		ID:          id,
		Title:       "Item " + id,
		Description: "Description",
		Location:    "Library",
		Date:        "2023-06-15",
		Status:      status,
		Category:    "Bags",
		Image:       model.ImagePlaceholder,
	}
}

func TestPutAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := newItem("1", model.ItemStatusLost)
	item.TrackingStatus = model.TrackingOpen
	item.Contact = &model.Contact{Name: "Jane", Phone: "+1 555", Email: "jane@example.com"}
	item.Comments = []model.Comment{{ID: "c1", Text: "Seen it", Author: "Bob", Date: "2023-06-16T14:30:00Z"}}

	if err := PutItem(ctx, database, item); err != nil {
		t.Fatalf("PutItem: %v", err)
	}

	got, err := GetItem(ctx, database, "1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil {
		t.Fatal("expected item, got nil")
	}
	if got.Title != "Item 1" || got.TrackingStatus != model.TrackingOpen {
		t.Errorf("unexpected item: %+v", got)
	}
	if got.Contact == nil || got.Contact.Email != "jane@example.com" {
		t.Errorf("expected contact to round-trip, got %+v", got.Contact)
	}
	if len(got.Comments) != 1 || got.Comments[0].Text != "Seen it" {
		t.Errorf("expected one comment, got %+v", got.Comments)
	}
}

func TestGetMissingItem(t *testing.T) {
	database := db.NewTestDB(t)

	got, err := GetItem(context.Background(), database, "nope")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing item, got %+v", got)
	}
}

func TestPutItemUpserts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := newItem("1", model.ItemStatusLost)
	PutItem(ctx, database, item)
	item.Title = "Renamed"
	if err := PutItem(ctx, database, item); err != nil {
		t.Fatalf("second PutItem: %v", err)
	}

	items, err := ListItems(ctx, database)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item after upsert, got %d", len(items))
	}
	if items[0].Title != "Renamed" {
		t.Errorf("expected last write to win, got %q", items[0].Title)
	}
}

func TestListItemsByStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	PutItem(ctx, database, newItem("1", model.ItemStatusLost))
	PutItem(ctx, database, newItem("2", model.ItemStatusFound))
	PutItem(ctx, database, newItem("3", model.ItemStatusLost))

	lost, err := ListItemsByStatus(ctx, database, model.ItemStatusLost)
	if err != nil {
		t.Fatalf("ListItemsByStatus: %v", err)
	}
	if len(lost) != 2 {
		t.Errorf("expected 2 lost items, got %d", len(lost))
	}

	n, err := CountItems(ctx, database)
	if err != nil || n != 3 {
		t.Errorf("expected 3 items, got %d (err %v)", n, err)
	}
}

func TestDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	PutItem(ctx, database, newItem("1", model.ItemStatusLost))
	if err := DeleteItem(ctx, database, "1"); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	got, _ := GetItem(ctx, database, "1")
	if got != nil {
		t.Error("expected item to be gone")
	}

	// Deleting again is harmless.
	if err := DeleteItem(ctx, database, "1"); err != nil {
		t.Errorf("second DeleteItem: %v", err)
	}
}

func TestInvalidStatusIsStorageError(t *testing.T) {
	database := db.NewTestDB(t)

	err := PutItem(context.Background(), database, newItem("1", "stolen"))
	if err == nil {
		t.Fatal("expected CHECK constraint failure")
	}
	if !errors.Is(err, ErrStorage) {
		t.Errorf("expected ErrStorage, got %v", err)
	}
}
