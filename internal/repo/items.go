// Package repo implements the item and user repositories on top of the
// storage gateway in package store.
package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// ErrInvalid wraps entity validation failures.
var ErrInvalid = errors.New("invalid")

// ErrNotFound is returned by mutating operations on a missing item.
// Reads return nil instead.
var ErrNotFound = errors.New("not found")

// Items is the item repository.
type Items struct {
	DB        *sql.DB
	Validator *model.Validator
	Logger    *slog.Logger

	// Now is overridable in tests.
	Now func() time.Time
}

// NewItems returns an item repository.
func NewItems(db *sql.DB, v *model.Validator, logger *slog.Logger) *Items {
	if logger == nil {
		logger = slog.Default()
	}
	return &Items{DB: db, Validator: v, Logger: logger, Now: time.Now}
}

// Save validates and upserts an item. Inline image data, given either as
// ImageData or as a data URL in Image, is moved into the image collection
// first and stripped from the stored record; a resolved item has its image
// removed instead. An item may only reference a stored image that exists.
// An empty ID is filled with a fresh one. Returns the item ID.
//
// On failure the caller's item is left as it was.
func (r *Items) Save(ctx context.Context, item *model.Item) (string, error) {
	orig := *item
	id, err := r.save(ctx, item)
	if err != nil {
		*item = orig
		return "", err
	}
	return id, nil
}

func (r *Items) save(ctx context.Context, item *model.Item) (string, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.ImageData == "" && strings.HasPrefix(item.Image, "data:") {
		item.ImageData = item.Image
		item.Image = ""
	}
	if item.Image == "" {
		item.Image = model.ImagePlaceholder
	}
	if err := r.validate(item); err != nil {
		return "", err
	}

	err := store.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		switch {
		case item.TrackingStatus == model.TrackingResolved:
			// Resolved items keep no photo.
			if err := store.DeleteImage(ctx, tx, item.ID); err != nil {
				return err
			}
			item.Image = model.ImagePlaceholder
		case item.ImageData != "":
			if err := store.PutImage(ctx, tx, item.ID, item.ImageData); err != nil {
				return err
			}
			item.Image = model.ImageStored
		case item.Image == model.ImageStored:
			_, ok, err := store.GetImage(ctx, tx, item.ID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: item %s has no stored image", ErrInvalid, item.ID)
			}
		}
		item.ImageData = ""
		return store.PutItem(ctx, tx, item)
	})
	if err != nil {
		return "", fmt.Errorf("saving item %s: %w", item.ID, err)
	}

	return item.ID, nil
}

// All returns every item.
func (r *Items) All(ctx context.Context) ([]model.Item, error) {
	return store.ListItems(ctx, r.DB)
}

// ByID returns an item, or nil if it does not exist.
func (r *Items) ByID(ctx context.Context, id string) (*model.Item, error) {
	return store.GetItem(ctx, r.DB, id)
}

// ByStatus returns the lost or the found items.
func (r *Items) ByStatus(ctx context.Context, status string) ([]model.Item, error) {
	return store.ListItemsByStatus(ctx, r.DB, status)
}

// Delete removes an item and its image in one transaction. Failing to
// remove the image is logged and does not stop the item delete.
func (r *Items) Delete(ctx context.Context, id string) error {
	return store.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := store.DeleteImage(ctx, tx, id); err != nil {
			r.Logger.Warn("failed to delete item image", "item", id, "error", err)
		}
		return store.DeleteItem(ctx, tx, id)
	})
}

// Image returns the data URL stored for an item. Images whose item no
// longer exists are treated as absent.
func (r *Items) Image(ctx context.Context, id string) (string, bool, error) {
	data, ok, err := store.GetImage(ctx, r.DB, id)
	if err != nil || !ok {
		return "", false, err
	}
	item, err := store.GetItem(ctx, r.DB, id)
	if err != nil {
		return "", false, err
	}
	if item == nil {
		r.Logger.Debug("ignoring orphaned image", "item", id)
		return "", false, nil
	}
	return data, true, nil
}

// SaveImage stores a data URL for an item.
func (r *Items) SaveImage(ctx context.Context, id, data string) error {
	return store.PutImage(ctx, r.DB, id, data)
}

// DeleteImage removes an item's image.
func (r *Items) DeleteImage(ctx context.Context, id string) error {
	return store.DeleteImage(ctx, r.DB, id)
}

// AttachImage stores a photo for an existing item and points the item at it.
// Resolved items cannot take a photo.
func (r *Items) AttachImage(ctx context.Context, id, data string) error {
	return store.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		item, err := store.GetItem(ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrNotFound
		}
		if item.TrackingStatus == model.TrackingResolved {
			return fmt.Errorf("%w: item %s is resolved", ErrInvalid, id)
		}
		if err := store.PutImage(ctx, tx, id, data); err != nil {
			return err
		}
		item.Image = model.ImageStored
		return store.PutItem(ctx, tx, item)
	})
}

// Update applies an edit to an existing item. Comments, the reporter and the
// stored image reference are kept from the current record.
func (r *Items) Update(ctx context.Context, edit *model.Item) (*model.Item, error) {
	current, err := r.ByID(ctx, edit.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	updated := *current
	updated.Title = edit.Title
	updated.Description = edit.Description
	updated.Location = edit.Location
	updated.Date = edit.Date
	updated.Status = edit.Status
	updated.Category = edit.Category
	updated.Contact = edit.Contact
	if edit.TrackingStatus != "" {
		updated.TrackingStatus = edit.TrackingStatus
	}
	updated.ImageData = edit.ImageData

	if _, err := r.Save(ctx, &updated); err != nil {
		return nil, err
	}
	return r.ByID(ctx, updated.ID)
}

// AddComment appends a comment to an item.
func (r *Items) AddComment(ctx context.Context, id, text, author string) (*model.Item, *model.Comment, error) {
	if text == "" {
		return nil, nil, fmt.Errorf("%w: comment text required", ErrInvalid)
	}
	if author == "" {
		author = "You"
	}

	item, err := r.ByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, ErrNotFound
	}

	now := r.Now().UTC()
	comment := model.Comment{
		ID:     "c" + strconv.FormatInt(now.UnixMilli(), 10),
		Text:   text,
		Author: author,
		Date:   now.Format(time.RFC3339Nano),
	}
	item.Comments = append(item.Comments, comment)

	if _, err := r.Save(ctx, item); err != nil {
		return nil, nil, err
	}
	return item, &comment, nil
}

// SetTrackingStatus moves an item through Open, In Progress and Resolved.
// Resolving an item deletes its image.
func (r *Items) SetTrackingStatus(ctx context.Context, id, status string) (*model.Item, error) {
	if !model.ValidTracking(status) {
		return nil, fmt.Errorf("%w: unknown tracking status %q", ErrInvalid, status)
	}

	var item *model.Item
	err := store.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var err error
		item, err = store.GetItem(ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrNotFound
		}

		item.TrackingStatus = status
		if status == model.TrackingResolved {
			if err := store.DeleteImage(ctx, tx, id); err != nil {
				return err
			}
			item.Image = model.ImagePlaceholder
		}
		return store.PutItem(ctx, tx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Items) validate(item *model.Item) error {
	if r.Validator == nil {
		return nil
	}
	if err := r.Validator.Struct(item); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// PruneImages deletes photos whose item no longer exists and returns how
// many were removed.
func (r *Items) PruneImages(ctx context.Context) (int, error) {
	var pruned int
	err := store.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		images, err := store.ListImages(ctx, tx)
		if err != nil {
			return err
		}
		for _, img := range images {
			item, err := store.GetItem(ctx, tx, img.ID)
			if err != nil {
				return err
			}
			if item != nil {
				continue
			}
			if err := store.DeleteImage(ctx, tx, img.ID); err != nil {
				return err
			}
			pruned++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("pruning images: %w", err)
	}
	if pruned > 0 {
		r.Logger.Info("pruned orphaned images", "count", pruned)
	}
	return pruned, nil
}
