package domain

import "time"

// Review is a user's rating of a book. UserID is set once at creation
// and never reassigned.
type Review struct {
	ID        string
	BookID    string
	UserID    string
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
