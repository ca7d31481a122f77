package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/erazemk/lostfound/internal/model"
)

const itemColumns = `id, title, description, location, date, status, category, tracking_status,
	comments, contact_name, contact_phone, contact_email, image, reported_by, created_at, updated_at`

// PutItem inserts or replaces an item keyed by its ID. The inline image
// payload is never written. Creation time survives an overwrite.
func PutItem(ctx context.Context, ex Executor, item *model.Item) error {
	comments := item.Comments
	if comments == nil {
		comments = []model.Comment{}
	}
	commentsJSON, err := json.Marshal(comments)
	if err != nil {
		return storageErr("encoding comments", err)
	}

	var contact model.Contact
	if item.Contact != nil {
		contact = *item.Contact
	}

	_, err = ex.ExecContext(ctx,
		`INSERT INTO items (id, title, description, location, date, status, category, tracking_status,
		                    comments, contact_name, contact_phone, contact_email, image, reported_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		    title = excluded.title,
		    description = excluded.description,
		    location = excluded.location,
		    date = excluded.date,
		    status = excluded.status,
		    category = excluded.category,
		    tracking_status = excluded.tracking_status,
		    comments = excluded.comments,
		    contact_name = excluded.contact_name,
		    contact_phone = excluded.contact_phone,
		    contact_email = excluded.contact_email,
		    image = excluded.image,
		    reported_by = excluded.reported_by,
		    updated_at = CURRENT_TIMESTAMP`,
		item.ID, item.Title, item.Description, item.Location, item.Date, item.Status, item.Category,
		item.TrackingStatus, string(commentsJSON), contact.Name, contact.Phone, contact.Email,
		item.Image, item.ReportedBy,
	)
	if err != nil {
		return storageErr("saving item", err)
	}
	return nil
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, ex Executor, id string) (*model.Item, error) {
	row := ex.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("getting item", err)
	}
	return item, nil
}

// ListItems returns every item, newest report first.
func ListItems(ctx context.Context, ex Executor) ([]model.Item, error) {
	rows, err := ex.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY date DESC, id`,
	)
	if err != nil {
		return nil, storageErr("listing items", err)
	}
	return collectItems(rows)
}

// ListItemsByStatus looks items up through the status index.
func ListItemsByStatus(ctx context.Context, ex Executor, status string) ([]model.Item, error) {
	rows, err := ex.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE status = ? ORDER BY date DESC, id`, status,
	)
	if err != nil {
		return nil, storageErr("listing items by status", err)
	}
	return collectItems(rows)
}

// CountItems returns the size of the item collection.
func CountItems(ctx context.Context, ex Executor) (int, error) {
	var n int
	if err := ex.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, storageErr("counting items", err)
	}
	return n, nil
}

// DeleteItem removes an item record. Deleting a missing item is not an error.
func DeleteItem(ctx context.Context, ex Executor, id string) error {
	if _, err := ex.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return storageErr("deleting item", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	var item model.Item
	var comments string
	var contact model.Contact
	err := s.Scan(&item.ID, &item.Title, &item.Description, &item.Location, &item.Date, &item.Status,
		&item.Category, &item.TrackingStatus, &comments, &contact.Name, &contact.Phone, &contact.Email,
		&item.Image, &item.ReportedBy, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(comments), &item.Comments); err != nil {
		return nil, err
	}
	if contact != (model.Contact{}) {
		item.Contact = &contact
	}
	return &item, nil
}

func collectItems(rows *sql.Rows) ([]model.Item, error) {
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, storageErr("scanning item", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating items", err)
	}
	return items, nil
}
