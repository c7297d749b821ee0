package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lostfound/registry/internal/model"
)

// CreateItem creates a new item. All fields, including the stored image
// name, must already be validated by the caller.
func CreateItem(ctx context.Context, db *sql.DB, name, email, phoneNo, title, description, image string) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, email, phoneno, title, description, image)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		name, email, phoneNo, title, description, image,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if it doesn't exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, phoneno, title, description, image, created_at, updated_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Email, &item.PhoneNo, &item.Title,
		&item.Description, &item.Image, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items, newest first. Ties on creation time
// break on ID so the order is deterministic.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, email, phoneno, title, description, image, created_at, updated_at
		 FROM items ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Email, &item.PhoneNo, &item.Title,
			&item.Description, &item.Image, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem applies a partial update: only non-empty patch fields
// overwrite stored values. Returns the updated item, or nil if the
// item doesn't exist.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, patch model.ItemPatch) (*model.Item, error) {
	item, err := GetItem(ctx, db, id)
	if err != nil || item == nil {
		return nil, err
	}

	if patch.Name != "" {
		item.Name = patch.Name
	}
	if patch.Email != "" {
		item.Email = patch.Email
	}
	if patch.PhoneNo != "" {
		item.PhoneNo = patch.PhoneNo
	}
	if patch.Title != "" {
		item.Title = patch.Title
	}
	if patch.Description != "" {
		item.Description = patch.Description
	}
	if patch.Image != "" {
		item.Image = patch.Image
	}

	_, err = db.ExecContext(ctx,
		`UPDATE items SET name = ?, email = ?, phoneno = ?, title = ?, description = ?,
		 image = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		item.Name, item.Email, item.PhoneNo, item.Title, item.Description, item.Image, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// DeleteItem permanently removes an item. Returns the deleted record so
// callers can clean up its stored image, or nil if it doesn't exist.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := GetItem(ctx, db, id)
	if err != nil || item == nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting item: %w", err)
	}
	return item, nil
}
