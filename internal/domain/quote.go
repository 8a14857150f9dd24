// Package domain contains core business entities and rules.
package domain

import (
	"strings"
	"time"
)

// VerificationStatus describes how well a quote's attribution has been vetted.
type VerificationStatus string

const (
	// StatusVerified means the attribution has been confirmed against a source.
	StatusVerified VerificationStatus = "verified"

	// StatusPending means the attribution has not been reviewed yet.
	StatusPending VerificationStatus = "pending"

	// StatusDisputed means the attribution is contested.
	StatusDisputed VerificationStatus = "disputed"
)

// Valid reports whether s is one of the known verification statuses.
func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusVerified, StatusPending, StatusDisputed:
		return true
	}

	return false
}

// Default values applied when a quote is created without them.
const (
	DefaultQualityScore = 5
	DefaultLanguage     = "en"
	DefaultSourceType   = "unknown"
)

// DateLayout is the calendar-date format used for featured dates and the
// date_added range filters.
const DateLayout = "2006-01-02"

// Quote is a motivational saying attributed to an author.
// Optional string fields use the empty string for absence; QualityScore 0
// means unset and is defaulted on create.
type Quote struct {
	ID int64

	// Text is the quote itself.
	Text string

	// Author is who said or wrote the quote.
	Author string

	// Category is an optional single classification.
	Category string

	// Tags is optional comma-separated free text.
	Tags string

	// SourceTitle loosely references Source.Title for display joins.
	// It is not a foreign key.
	SourceTitle string
	SourceURL   string
	SourceType  string

	VerificationStatus VerificationStatus
	QualityScore       int
	Language           string
	ContextNotes       string

	DateAdded time.Time

	// FeaturedDate is the calendar date (DateLayout, UTC) on which this quote
	// was the daily quote. Empty when never featured.
	FeaturedDate string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeKey returns the trimmed, lowercased form of s used for exact
// duplicate comparison of text and author.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SameQuote reports whether two text/author pairs identify the same quote
// under case-insensitive, whitespace-trimmed comparison.
func SameQuote(textA, authorA, textB, authorB string) bool {
	return NormalizeKey(textA) == NormalizeKey(textB) &&
		NormalizeKey(authorA) == NormalizeKey(authorB)
}
