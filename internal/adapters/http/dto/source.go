package dto

import "github.com/quotevault/quotevault/internal/domain"

// SourceRequest is the create/update payload for a provenance source.
type SourceRequest struct {
	Title             string `json:"title"`
	Author            string `json:"author"`
	PublicationYear   int    `json:"publication_year"`
	Publisher         string `json:"publisher"`
	ISBN              string `json:"isbn"`
	URL               string `json:"url"`
	SourceType        string `json:"source_type"`
	CredibilityRating int    `json:"credibility_rating"`
	Description       string `json:"description"`
}

// ToDomain converts the request into a domain source.
func (r *SourceRequest) ToDomain() *domain.Source {
	return &domain.Source{
		Title:             r.Title,
		Author:            r.Author,
		PublicationYear:   r.PublicationYear,
		Publisher:         r.Publisher,
		ISBN:              r.ISBN,
		URL:               r.URL,
		SourceType:        r.SourceType,
		CredibilityRating: r.CredibilityRating,
		Description:       r.Description,
	}
}

// SourceResponse is the wire representation of a source.
type SourceResponse struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Author            string `json:"author,omitempty"`
	PublicationYear   int    `json:"publication_year,omitempty"`
	Publisher         string `json:"publisher,omitempty"`
	ISBN              string `json:"isbn,omitempty"`
	URL               string `json:"url,omitempty"`
	SourceType        string `json:"source_type"`
	CredibilityRating int    `json:"credibility_rating"`
	Description       string `json:"description,omitempty"`
	CreatedAt         string `json:"created_at,omitempty"`
	UpdatedAt         string `json:"updated_at,omitempty"`
}

// FromSource converts a domain source to its wire form.
func FromSource(s *domain.Source) *SourceResponse {
	return &SourceResponse{
		ID:                s.ID,
		Title:             s.Title,
		Author:            s.Author,
		PublicationYear:   s.PublicationYear,
		Publisher:         s.Publisher,
		ISBN:              s.ISBN,
		URL:               s.URL,
		SourceType:        s.SourceType,
		CredibilityRating: s.CredibilityRating,
		Description:       s.Description,
		CreatedAt:         formatTime(s.CreatedAt),
		UpdatedAt:         formatTime(s.UpdatedAt),
	}
}

// FromSources converts a slice of domain sources, always non-nil.
func FromSources(sources []domain.Source) []*SourceResponse {
	out := make([]*SourceResponse, 0, len(sources))
	for i := range sources {
		out = append(out, FromSource(&sources[i]))
	}

	return out
}
