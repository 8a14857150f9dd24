// Package ports defines the interfaces the application layer depends on.
// Adapters implement these contracts, so the core never holds a concrete
// storage handle.
//
// Port conventions:
//   - Context as first parameter on every call
//   - Domain types in and out, never storage rows or DTOs
//   - Absence is a nil result for pick-style lookups (random, daily) and a
//     domain.ErrNotFound for direct lookups by id
//   - Any storage failure is returned as a domain.ErrStorage; no retries
package ports

import (
	"context"

	"github.com/quotevault/quotevault/internal/domain"
)

// SearchFilters is the conjunctive filter set for advanced quote search.
// Zero-valued fields are omitted from the conjunction. Callers must reject a
// fully empty filter before invoking the repository, since it would otherwise
// return the whole catalog.
type SearchFilters struct {
	// Term is matched as a case-insensitive substring against text, author,
	// category and tags.
	Term string

	// Category is an exact, case-sensitive match.
	Category string

	// Author is a case-insensitive substring match.
	Author string

	// Tags is a list of fragments; a quote must contain every fragment.
	Tags []string

	// DateFrom / DateTo bound date_added inclusively, in domain.DateLayout.
	DateFrom string
	DateTo   string
}

// Empty reports whether no filter is set.
func (f SearchFilters) Empty() bool {
	return f.Term == "" && f.Category == "" && f.Author == "" &&
		len(f.Tags) == 0 && f.DateFrom == "" && f.DateTo == ""
}

// Suggestion is one autocomplete candidate, tagged with the field it came
// from ("author" or "category").
type Suggestion struct {
	Value string `json:"suggestion"`
	Kind  string `json:"type"`
}

// Suggestion kinds.
const (
	SuggestionAuthor   = "author"
	SuggestionCategory = "category"
)

// TermCount is an aggregated search term with its occurrence count.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
	Kind  string `json:"type"`
}

// StatusStat is the per-verification-status aggregate.
type StatusStat struct {
	Status     domain.VerificationStatus `json:"verification_status"`
	Count      int                       `json:"count"`
	AvgQuality float64                   `json:"avg_quality"`
}

// SourceTypeStat is the per-source-type aggregate, ordered by count
// descending when listed.
type SourceTypeStat struct {
	SourceType string  `json:"source_type"`
	Count      int     `json:"count"`
	AvgQuality float64 `json:"avg_quality"`
}

// QuoteRepository is the storage port for quotes.
type QuoteRepository interface {
	// Create persists a new quote and returns the assigned id.
	Create(ctx context.Context, q *domain.Quote) (int64, error)

	// Update replaces the full record for id. There are no partial patch
	// semantics. Returns domain.ErrNotFound if the quote does not exist.
	Update(ctx context.Context, id int64, q *domain.Quote) error

	// Delete hard-deletes the quote and returns the number of rows removed.
	Delete(ctx context.Context, id int64) (int64, error)

	// GetByID returns the quote or domain.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Quote, error)

	// List returns quotes ordered newest-first.
	List(ctx context.Context, limit, offset int) ([]domain.Quote, error)

	// Count returns the catalog size.
	Count(ctx context.Context) (int, error)

	// Random picks one quote uniformly among rows matching the optional
	// category and not in excludeIDs. A nil quote means no row matched.
	Random(ctx context.Context, category string, excludeIDs []int64) (*domain.Quote, error)

	// MultipleRandom picks up to count quotes uniformly without repeats.
	// Fewer matching rows than count yields all of them.
	MultipleRandom(ctx context.Context, count int, category string, excludeIDs []int64) ([]domain.Quote, error)

	// ByCategory filters on exact, case-sensitive category.
	ByCategory(ctx context.Context, category string, limit int) ([]domain.Quote, error)

	// ByAuthor filters on case-insensitive author substring.
	ByAuthor(ctx context.Context, author string, limit int) ([]domain.Quote, error)

	// ByVerificationStatus filters on exact status.
	ByVerificationStatus(ctx context.Context, status domain.VerificationStatus, limit int) ([]domain.Quote, error)

	// ByMinQualityScore returns quotes with quality_score >= minScore,
	// ordered by score then recency.
	ByMinQualityScore(ctx context.Context, minScore, limit int) ([]domain.Quote, error)

	// BySourceType filters on exact source type.
	BySourceType(ctx context.Context, sourceType string, limit int) ([]domain.Quote, error)

	// Search matches term as a case-insensitive substring of text, author,
	// category or tags, newest-first.
	Search(ctx context.Context, term string, limit int) ([]domain.Quote, error)

	// AdvancedSearch applies the conjunction of the set filters.
	AdvancedSearch(ctx context.Context, filters SearchFilters, limit, offset int) ([]domain.Quote, error)

	// SuggestAuthors returns distinct author names containing term.
	SuggestAuthors(ctx context.Context, term string, limit int) ([]string, error)

	// SuggestCategories returns distinct non-empty categories containing term.
	SuggestCategories(ctx context.Context, term string, limit int) ([]string, error)

	// PopularAuthors groups quotes by author, most quoted first.
	PopularAuthors(ctx context.Context, limit int) ([]TermCount, error)

	// Categories returns the distinct non-empty categories, sorted.
	Categories(ctx context.Context) ([]string, error)

	// Authors returns the distinct authors, sorted.
	Authors(ctx context.Context) ([]string, error)

	// FindExactDuplicates returns every stored quote whose text and author
	// both equal the given values under trim+lowercase comparison.
	FindExactDuplicates(ctx context.Context, text, author string) ([]domain.Quote, error)

	// All returns the entire catalog. Used by the near-duplicate scan, which
	// is only acceptable at small catalog scale.
	All(ctx context.Context) ([]domain.Quote, error)

	// FeaturedOn returns the quote featured on the given calendar date, or
	// nil when none is.
	FeaturedOn(ctx context.Context, date string) (*domain.Quote, error)

	// RandomNotFeaturedOn picks uniformly among quotes whose featured date is
	// unset or different from date. Nil when the catalog is empty.
	RandomNotFeaturedOn(ctx context.Context, date string) (*domain.Quote, error)

	// SetFeaturedDate stamps the quote's featured date if it is not already
	// set to date. Returns false when the stamp did not apply.
	SetFeaturedDate(ctx context.Context, id int64, date string) (bool, error)

	// VerificationStats groups the catalog by verification status.
	VerificationStats(ctx context.Context) ([]StatusStat, error)

	// SourceTypeStats groups the catalog by source type, count descending.
	SourceTypeStats(ctx context.Context) ([]SourceTypeStat, error)
}

// SourceRepository is the storage port for provenance sources.
type SourceRepository interface {
	Create(ctx context.Context, s *domain.Source) (int64, error)
	Update(ctx context.Context, id int64, s *domain.Source) error
	Delete(ctx context.Context, id int64) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Source, error)

	// List returns sources ordered by credibility then recency.
	List(ctx context.Context, limit, offset int) ([]domain.Source, error)
	Count(ctx context.Context) (int, error)

	// ByType filters on exact source type.
	ByType(ctx context.Context, sourceType string, limit int) ([]domain.Source, error)

	// ByMinCredibility returns sources with credibility_rating >= minRating.
	ByMinCredibility(ctx context.Context, minRating, limit int) ([]domain.Source, error)

	// Search matches term against title, author, publisher or description.
	Search(ctx context.Context, term string, limit int) ([]domain.Source, error)

	// Types returns the distinct source types, sorted.
	Types(ctx context.Context) ([]string, error)

	// QuotesBySource returns quotes whose source_title matches the source's
	// title. A display join, not a foreign key.
	QuotesBySource(ctx context.Context, sourceID int64, limit int) ([]domain.Quote, error)
}
