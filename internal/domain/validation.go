package domain

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Violation messages are surfaced to API callers verbatim, so their wording
// is part of the contract.
const (
	ViolationDuplicateQuote = "This quote already exists in the database"
)

// ValidateQuoteFields runs the pure field-shape checks on a quote and returns
// the violations in field order. It does not consult storage; the duplicate
// check is a separate, side-effecting phase appended by the application
// service after all field checks.
func ValidateQuoteFields(q *Quote) []string {
	var violations []string

	textLen := utf8.RuneCountInString(strings.TrimSpace(q.Text))
	if textLen < 10 {
		violations = append(violations, "Quote text must be at least 10 characters long")
	}

	if q.Text == "" || textLen > 1000 {
		violations = append(violations, "Quote text must be less than 1000 characters")
	}

	authorLen := utf8.RuneCountInString(strings.TrimSpace(q.Author))
	if authorLen < 2 {
		violations = append(violations, "Author name must be at least 2 characters long")
	}

	if q.Author == "" || authorLen > 100 {
		violations = append(violations, "Author name must be less than 100 characters")
	}

	if utf8.RuneCountInString(q.Category) > 50 {
		violations = append(violations, "Category must be less than 50 characters")
	}

	if utf8.RuneCountInString(q.Tags) > 200 {
		violations = append(violations, "Tags must be less than 200 characters")
	}

	if q.QualityScore != 0 && (q.QualityScore < 1 || q.QualityScore > 10) {
		violations = append(violations, "Quality score must be between 1 and 10")
	}

	if q.VerificationStatus != "" && !q.VerificationStatus.Valid() {
		violations = append(violations, "Verification status must be verified, pending, or disputed")
	}

	if q.SourceURL != "" && !ValidURL(q.SourceURL) {
		violations = append(violations, "Source URL must be valid")
	}

	return violations
}

// ValidateSourceFields runs the field-shape checks on a source and returns
// the violations in field order.
func ValidateSourceFields(s *Source) []string {
	var violations []string

	if utf8.RuneCountInString(strings.TrimSpace(s.Title)) < 2 {
		violations = append(violations, "Source title must be at least 2 characters long")
	}

	if utf8.RuneCountInString(strings.TrimSpace(s.SourceType)) < 2 {
		violations = append(violations, "Source type is required")
	}

	if s.CredibilityRating != 0 && (s.CredibilityRating < 1 || s.CredibilityRating > 10) {
		violations = append(violations, "Credibility rating must be between 1 and 10")
	}

	if s.PublicationYear != 0 &&
		(s.PublicationYear < MinPublicationYear || s.PublicationYear > time.Now().UTC().Year()) {
		violations = append(violations, "Publication year must be valid")
	}

	if s.URL != "" && !ValidURL(s.URL) {
		violations = append(violations, "URL must be valid")
	}

	return violations
}

// ValidURL reports whether s parses as an absolute URL with scheme http or
// https. Any other scheme, or an unparseable string, is invalid.
func ValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return false
	}

	return u.Scheme == "http" || u.Scheme == "https"
}
