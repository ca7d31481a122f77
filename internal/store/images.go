package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/erazemk/lostfound/internal/model"
)

// PutImage stores an item's photo, replacing any previous one.
func PutImage(ctx context.Context, ex Executor, id, data string) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO images (id, data) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		id, data,
	)
	if err != nil {
		return storageErr("saving image", err)
	}
	return nil
}

// GetImage returns an item's photo. ok is false when there is none.
func GetImage(ctx context.Context, ex Executor, id string) (data string, ok bool, err error) {
	err = ex.QueryRowContext(ctx, `SELECT data FROM images WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageErr("getting image", err)
	}
	return data, true, nil
}

// DeleteImage removes an item's photo. Deleting a missing image is not an error.
func DeleteImage(ctx context.Context, ex Executor, id string) error {
	if _, err := ex.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, id); err != nil {
		return storageErr("deleting image", err)
	}
	return nil
}

// ListImages returns every stored photo.
func ListImages(ctx context.Context, ex Executor) ([]model.Image, error) {
	rows, err := ex.QueryContext(ctx, `SELECT id, data FROM images ORDER BY id`)
	if err != nil {
		return nil, storageErr("listing images", err)
	}
	defer rows.Close()

	var images []model.Image
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.ID, &img.Data); err != nil {
			return nil, storageErr("scanning image", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("listing images", err)
	}
	return images, nil
}
