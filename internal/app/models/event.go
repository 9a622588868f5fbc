package models

import "time"

// Event is a dated school event shown to an audience.
type Event struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	EventDate time.Time `json:"eventDate" db:"event_date"`
	Venue     string    `json:"venue" db:"venue"`
	Audience  Audience  `json:"audience" db:"audience"`
	CreatedBy Author    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
