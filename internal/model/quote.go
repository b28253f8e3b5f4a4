package model

import "time"

// Quote is a shared, global quotation. Quotes are not user-owned; the
// uniqueness key is (content, author). Author may be absent.
type Quote struct {
	ID        string    `json:"id"        db:"id"`
	Content   string    `json:"content"   db:"content"`
	Author    *string   `json:"author"    db:"author"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
