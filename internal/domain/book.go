package domain

import "time"

// Book is the domain model for catalog entries.
type Book struct {
	ID              string
	Title           string
	Author          string
	ISBN            string
	Publisher       string
	PublishedYear   int
	TotalCopies     int
	AvailableCopies int
	CategoryID      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
