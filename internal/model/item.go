package model

import (
	"fmt"
	"time"
)

// Item is a reported lost or found object.
type Item struct {
	ID             string    `json:"id" validate:"required,max=64"`
	Title          string    `json:"title" validate:"required,max=200"`
	Description    string    `json:"description" validate:"required"`
	Location       string    `json:"location" validate:"required"`
	Date           string    `json:"date" validate:"required,itemdate"`
	Status         string    `json:"status" validate:"required,oneof=lost found"`
	Category       string    `json:"category,omitempty" validate:"max=64"`
	TrackingStatus string    `json:"tracking_status,omitempty" validate:"omitempty,tracking"`
	Comments       []Comment `json:"comments" validate:"dive"`
	Contact        *Contact  `json:"contact,omitempty"`
	Image          string    `json:"image"`
	ReportedBy     string    `json:"reported_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// ImageData carries an inline data URL on the way in. It is split into
	// the image collection on save and never stored on the item itself.
	ImageData string `json:"image_data,omitempty"`
}

// Contact holds how to reach the person who reported an item.
type Contact struct {
	Name  string `json:"name" validate:"max=100"`
	Phone string `json:"phone" validate:"max=32"`
	Email string `json:"email" validate:"omitempty,email"`
}

// Comment is an entry in an item's append-only discussion.
type Comment struct {
	ID     string `json:"id" validate:"required"`
	Text   string `json:"text" validate:"required"`
	Author string `json:"author" validate:"required"`
	Date   string `json:"date" validate:"required"`
}

// Item statuses.
const (
	ItemStatusLost  = "lost"
	ItemStatusFound = "found"
)

// Tracking statuses.
const (
	TrackingOpen       = "Open"
	TrackingInProgress = "In Progress"
	TrackingResolved   = "Resolved"
)

// Image references.
const (
	// ImagePlaceholder is shown when an item has no stored photo.
	ImagePlaceholder = "/placeholder.svg?height=200&width=300"
	// ImageStored marks an item whose photo lives in the image collection.
	ImageStored = "db"
)

// Categories offered by the reporting form. Category is an open string;
// this list only seeds filters and fixtures.
var Categories = []string{
	"Electronics", "Clothing", "Jewelry", "Bags", "Keys", "Documents", "Pets", "Other",
}

// ValidTracking reports whether s is a known tracking status.
func ValidTracking(s string) bool {
	switch s {
	case TrackingOpen, TrackingInProgress, TrackingResolved:
		return true
	}
	return false
}

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an item or comment date. Bare dates are taken as UTC
// midnight.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// HasStoredImage reports whether the item's photo lives in the image collection.
func (i *Item) HasStoredImage() bool {
	return i.Image == ImageStored
}
