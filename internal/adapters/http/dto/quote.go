package dto

import (
	"time"

	"github.com/quotevault/quotevault/internal/domain"
)

// QuoteRequest is the create/update payload. Field-level validation is the
// domain's job, so no binding constraints beyond JSON shape are applied here.
type QuoteRequest struct {
	Text               string `json:"text"`
	Author             string `json:"author"`
	Category           string `json:"category"`
	Tags               string `json:"tags"`
	SourceTitle        string `json:"source_title"`
	SourceURL          string `json:"source_url"`
	SourceType         string `json:"source_type"`
	VerificationStatus string `json:"verification_status"`
	QualityScore       int    `json:"quality_score"`
	Language           string `json:"language"`
	ContextNotes       string `json:"context_notes"`
}

// ToDomain converts the request into a domain quote.
func (r *QuoteRequest) ToDomain() *domain.Quote {
	return &domain.Quote{
		Text:               r.Text,
		Author:             r.Author,
		Category:           r.Category,
		Tags:               r.Tags,
		SourceTitle:        r.SourceTitle,
		SourceURL:          r.SourceURL,
		SourceType:         r.SourceType,
		VerificationStatus: domain.VerificationStatus(r.VerificationStatus),
		QualityScore:       r.QualityScore,
		Language:           r.Language,
		ContextNotes:       r.ContextNotes,
	}
}

// QuoteResponse is the wire representation of a quote.
type QuoteResponse struct {
	ID                 int64  `json:"id"`
	Text               string `json:"text"`
	Author             string `json:"author"`
	Category           string `json:"category,omitempty"`
	Tags               string `json:"tags,omitempty"`
	SourceTitle        string `json:"source_title,omitempty"`
	SourceURL          string `json:"source_url,omitempty"`
	SourceType         string `json:"source_type,omitempty"`
	VerificationStatus string `json:"verification_status"`
	QualityScore       int    `json:"quality_score"`
	Language           string `json:"language,omitempty"`
	ContextNotes       string `json:"context_notes,omitempty"`
	DateAdded          string `json:"date_added,omitempty"`
	FeaturedDate       string `json:"featured_date,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
	UpdatedAt          string `json:"updated_at,omitempty"`
}

// FromQuote converts a domain quote to its wire form.
func FromQuote(q *domain.Quote) *QuoteResponse {
	return &QuoteResponse{
		ID:                 q.ID,
		Text:               q.Text,
		Author:             q.Author,
		Category:           q.Category,
		Tags:               q.Tags,
		SourceTitle:        q.SourceTitle,
		SourceURL:          q.SourceURL,
		SourceType:         q.SourceType,
		VerificationStatus: string(q.VerificationStatus),
		QualityScore:       q.QualityScore,
		Language:           q.Language,
		ContextNotes:       q.ContextNotes,
		DateAdded:          formatTime(q.DateAdded),
		FeaturedDate:       q.FeaturedDate,
		CreatedAt:          formatTime(q.CreatedAt),
		UpdatedAt:          formatTime(q.UpdatedAt),
	}
}

// FromQuotes converts a slice of domain quotes. It always returns a non-nil
// slice so empty result sets serialize as [] rather than null.
func FromQuotes(quotes []domain.Quote) []*QuoteResponse {
	out := make([]*QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, FromQuote(&quotes[i]))
	}

	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}
