// Package models defines server-side data models persisted in the database.
package models

import "time"

// Note is the sample protected resource served by the API.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
