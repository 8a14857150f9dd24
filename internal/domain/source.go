package domain

import "time"

// Default values applied when a source is created without them.
const DefaultCredibilityRating = 5

// MinPublicationYear is the lower bound accepted for publication years.
const MinPublicationYear = 1000

// Source is a provenance record (book, speech, article) that a quote may
// reference by title. Quote.SourceTitle matches Source.Title as a denormalized
// text join used only for display.
type Source struct {
	ID int64

	Title  string
	Author string

	// PublicationYear is 0 when unknown.
	PublicationYear int

	Publisher  string
	ISBN       string
	URL        string
	SourceType string

	CredibilityRating int
	Description       string

	CreatedAt time.Time
	UpdatedAt time.Time
}
