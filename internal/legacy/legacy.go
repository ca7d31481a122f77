// Package legacy imports item lists exported by the browser version of the
// application (the "lostAndFoundItems" JSON array).
package legacy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/erazemk/lostfound/internal/imaging"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/repo"
)

// Item is one entry of the exported array.
type Item struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Location       string          `json:"location"`
	Date           string          `json:"date"`
	Status         string          `json:"status"`
	Image          string          `json:"image"`
	ImageData      string          `json:"imageData"`
	Category       string          `json:"category"`
	TrackingStatus string          `json:"trackingStatus"`
	Comments       []model.Comment `json:"comments"`
	ContactDetails *model.Contact  `json:"contactDetails"`
}

// Model converts the entry into an item ready to save.
func (li *Item) Model() *model.Item {
	item := &model.Item{
		ID:             li.ID,
		Title:          li.Title,
		Description:    li.Description,
		Location:       li.Location,
		Date:           li.Date,
		Status:         li.Status,
		Category:       li.Category,
		TrackingStatus: li.TrackingStatus,
		Comments:       li.Comments,
		Contact:        li.ContactDetails,
		ImageData:      li.ImageData,
	}
	switch {
	case li.Image == model.ImageStored:
		// Pointed into the browser's own image store, which is not exported.
	case strings.HasPrefix(li.Image, "data:"):
		// Edited items carry the photo inline in image.
		if item.ImageData == "" {
			item.ImageData = li.Image
		}
	case li.Image != "":
		item.Image = li.Image
	}
	return item
}

// Decode reads an exported array.
func Decode(r io.Reader) ([]Item, error) {
	var items []Item
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding legacy items: %w", err)
	}
	return items, nil
}

// Saver stores one item.
type Saver interface {
	Save(ctx context.Context, item *model.Item) (string, error)
}

// Report summarises an import.
type Report struct {
	Imported int
	Skipped  int
}

// Import saves every entry read from r. Saves are upserts keyed by ID, so
// importing the same file twice leaves one copy of each item. Photos are
// normalised like uploads; one that cannot be is dropped and the item kept.
// Entries that fail validation are logged and skipped; storage failures abort.
func Import(ctx context.Context, r io.Reader, s Saver, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	items, err := Decode(r)
	if err != nil {
		return nil, err
	}

	rep := &Report{}
	for i := range items {
		item := items[i].Model()
		if item.ImageData != "" {
			data, err := imaging.NormaliseDataURL(item.ImageData, imaging.DefaultMaxBytes)
			if err != nil {
				logger.Warn("dropping legacy item photo", "item", items[i].ID, "error", err)
			}
			item.ImageData = data
		}
		if _, err := s.Save(ctx, item); err != nil {
			if errors.Is(err, repo.ErrInvalid) {
				logger.Warn("skipping invalid legacy item", "item", items[i].ID, "error", err)
				rep.Skipped++
				continue
			}
			return rep, fmt.Errorf("importing item %s: %w", items[i].ID, err)
		}
		rep.Imported++
	}

	logger.Info("imported legacy items", "imported", rep.Imported, "skipped", rep.Skipped)
	return rep, nil
}
