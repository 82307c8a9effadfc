package domain

import "time"

// Category groups books.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
