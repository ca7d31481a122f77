package model

import (
	"testing"
	"time"
)

func validItem() Item {
	return Item{
		ID:          "1",
		Title:       "Blue Backpack",
		Description: "Contains a laptop",
		Location:    "Library",
		Date:        "2023-06-15",
		Status:      ItemStatusLost,
	}
}

func TestItemValidation(t *testing.T) {
	v := NewValidator("")

	tests := []struct {
		name    string
		mutate  func(*Item)
		wantErr bool
	}{
		{"valid", func(*Item) {}, false},
		{"rfc3339 date", func(i *Item) { i.Date = "2023-06-15T10:00:00.000Z" }, false},
		{"tracking in progress", func(i *Item) { i.TrackingStatus = TrackingInProgress }, false},
		{"missing title", func(i *Item) { i.Title = "" }, true},
		{"bad status", func(i *Item) { i.Status = "stolen" }, true},
		{"bad tracking", func(i *Item) { i.TrackingStatus = "Closed" }, true},
		{"bad date", func(i *Item) { i.Date = "yesterday" }, true},
		{"bad contact email", func(i *Item) { i.Contact = &Contact{Email: "nope"} }, true},
		{"empty comment text", func(i *Item) {
			i.Comments = []Comment{{ID: "c1", Author: "A", Date: "2023-06-16T14:30:00Z"}}
		}, true},
	}

	for _, tt := range tests {
		item := validItem()
		tt.mutate(&item)
		err := v.Struct(item)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2023-06-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := ParseDate("15/06/2023"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}
