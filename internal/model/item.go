package model

import "time"

// Item represents a lost or found posting submitted by a visitor.
// Image holds the stored filename of the uploaded photo, served
// read-only under /files/.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNo     string    `json:"phoneno"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemPatch carries a partial update. Empty fields keep their
// current values.
type ItemPatch struct {
	Name        string
	Email       string
	PhoneNo     string
	Title       string
	Description string
	Image       string
}
