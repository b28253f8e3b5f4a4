package model

import "time"

// Question is a daily journaling prompt from the shared pool.
type Question struct {
	ID        string    `json:"id"        db:"id"`
	Text      string    `json:"question"  db:"question_text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
