// Package app contains application services that orchestrate use cases over
// the storage ports. Services are stateless; every call re-reads what it
// needs and no state is cached between calls.
package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/quotevault/quotevault/internal/domain"
	"github.com/quotevault/quotevault/internal/ports"
)

// DefaultListLimit caps read operations that take no explicit limit.
const DefaultListLimit = 20

// QuoteService orchestrates quote use cases: validated writes, duplicate
// detection, search, random and daily selection, and statistics.
type QuoteService struct {
	repo   ports.QuoteRepository
	logger *slog.Logger
	now    func() time.Time
}

// QuoteServiceConfig contains the quote service dependencies.
type QuoteServiceConfig struct {
	Repo   ports.QuoteRepository
	Logger *slog.Logger

	// Now overrides the clock; nil uses time.Now. Tests pin it to control
	// the daily-quote day boundary.
	Now func() time.Time
}

// NewQuoteService creates a quote service. The repository is required.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Repo == nil {
		panic("app: QuoteService requires a repository")
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &QuoteService{repo: cfg.Repo, logger: cfg.Logger, now: cfg.Now}
}

// Validate runs the two-phase quote validation: the pure field-shape checks
// first, then the side-effecting duplicate-existence read against storage.
// All violations are accumulated in field-check order with the duplicate
// violation last; validation never fails fast. A storage failure during the
// duplicate read is returned as an error, not a violation.
func (s *QuoteService) Validate(ctx context.Context, q *domain.Quote) ([]string, error) {
	violations := domain.ValidateQuoteFields(q)

	duplicates, err := s.repo.FindExactDuplicates(ctx, q.Text, q.Author)
	if err != nil {
		return nil, err
	}

	if len(duplicates) > 0 {
		violations = append(violations, domain.ViolationDuplicateQuote)
	}

	return violations, nil
}

// Create validates and persists a new quote, applying defaults for status,
// score, language and source type. Returns the stored quote with its
// assigned id.
func (s *QuoteService) Create(ctx context.Context, q *domain.Quote) (*domain.Quote, error) {
	violations, err := s.Validate(ctx, q)
	if err != nil {
		return nil, err
	}

	if len(violations) > 0 {
		return nil, domain.NewValidationError(violations)
	}

	record := *q
	record.Text = strings.TrimSpace(record.Text)
	record.Author = strings.TrimSpace(record.Author)

	if record.VerificationStatus == "" {
		record.VerificationStatus = domain.StatusPending
	}

	if record.QualityScore == 0 {
		record.QualityScore = domain.DefaultQualityScore
	}

	if record.Language == "" {
		record.Language = domain.DefaultLanguage
	}

	if record.SourceType == "" {
		record.SourceType = domain.DefaultSourceType
	}

	id, err := s.repo.Create(ctx, &record)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "quote created",
		slog.Int64("quote_id", id),
		slog.String("author", record.Author),
	)

	return s.repo.GetByID(ctx, id)
}

// Update replaces the stored record for id after re-running the field-shape
// checks. The duplicate check is skipped: replacing a quote with itself must
// not trip the duplicate rule.
func (s *QuoteService) Update(ctx context.Context, id int64, q *domain.Quote) (*domain.Quote, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if violations := domain.ValidateQuoteFields(q); len(violations) > 0 {
		return nil, domain.NewValidationError(violations)
	}

	record := *q
	record.Text = strings.TrimSpace(record.Text)
	record.Author = strings.TrimSpace(record.Author)

	if err := s.repo.Update(ctx, id, &record); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "quote updated", slog.Int64("quote_id", id))

	return s.repo.GetByID(ctx, id)
}

// Delete hard-deletes a quote. Returns domain.ErrNotFound if it does not
// exist.
func (s *QuoteService) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.NewNotFoundError("quote", id)
	}

	s.logger.InfoContext(ctx, "quote deleted", slog.Int64("quote_id", id))

	return nil
}

// GetByID returns one quote or domain.ErrNotFound.
func (s *QuoteService) GetByID(ctx context.Context, id int64) (*domain.Quote, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns quotes newest-first.
func (s *QuoteService) List(ctx context.Context, limit, offset int) ([]domain.Quote, error) {
	return s.repo.List(ctx, normalizeLimit(limit), offset)
}

// Count returns the catalog size.
func (s *QuoteService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Random picks one quote uniformly among those matching the optional
// category and not in excludeIDs. A nil result means nothing matched; that
// is an absence, not an error.
func (s *QuoteService) Random(ctx context.Context, category string, excludeIDs []int64) (*domain.Quote, error) {
	return s.repo.Random(ctx, category, excludeIDs)
}

// MultipleRandom picks up to count quotes without repeats. Asking for more
// than exist returns all matching rows.
func (s *QuoteService) MultipleRandom(ctx context.Context, count int, category string, excludeIDs []int64) ([]domain.Quote, error) {
	return s.repo.MultipleRandom(ctx, count, category, excludeIDs)
}

// Daily returns the quote featured today (UTC calendar day), picking and
// stamping one at random if no quote is featured yet. Repeated calls within
// a day return the same quote. An empty catalog yields nil.
//
// Two concurrent first-calls-of-the-day can both reach the pick step and
// stamp different quotes; the conditional stamp narrows but does not close
// that race. A later call then settles on whichever row the featured-date
// lookup returns first.
func (s *QuoteService) Daily(ctx context.Context) (*domain.Quote, error) {
	today := s.now().UTC().Format(domain.DateLayout)

	featured, err := s.repo.FeaturedOn(ctx, today)
	if err != nil {
		return nil, err
	}

	if featured != nil {
		return featured, nil
	}

	pick, err := s.repo.RandomNotFeaturedOn(ctx, today)
	if err != nil {
		return nil, err
	}

	if pick == nil {
		return nil, nil
	}

	stamped, err := s.repo.SetFeaturedDate(ctx, pick.ID, today)
	if err != nil {
		return nil, err
	}

	if stamped {
		pick.FeaturedDate = today
		s.logger.InfoContext(ctx, "daily quote selected",
			slog.Int64("quote_id", pick.ID),
			slog.String("featured_date", today),
		)
	}

	return pick, nil
}

// Search matches term case-insensitively against text, author, category and
// tags, newest-first.
func (s *QuoteService) Search(ctx context.Context, term string, limit int) ([]domain.Quote, error) {
	return s.repo.Search(ctx, term, normalizeLimit(limit))
}

// AdvancedSearch applies the conjunction of the set filters. Callers reject
// an empty filter set before invoking; an unfiltered call would return the
// whole catalog page by page.
func (s *QuoteService) AdvancedSearch(ctx context.Context, filters ports.SearchFilters, limit, offset int) ([]domain.Quote, error) {
	return s.repo.AdvancedSearch(ctx, filters, normalizeLimit(limit), offset)
}

// Suggestions merges up to limit/2 distinct author names and limit/2
// distinct categories matching term, tags each with its field, and truncates
// the concatenation to limit. Row order is storage's natural order; there is
// no relevance ranking.
func (s *QuoteService) Suggestions(ctx context.Context, term string, limit int) ([]ports.Suggestion, error) {
	if limit <= 0 {
		limit = 10
	}

	half := limit / 2

	authors, err := s.repo.SuggestAuthors(ctx, term, half)
	if err != nil {
		return nil, err
	}

	categories, err := s.repo.SuggestCategories(ctx, term, half)
	if err != nil {
		return nil, err
	}

	suggestions := make([]ports.Suggestion, 0, len(authors)+len(categories))
	for _, a := range authors {
		suggestions = append(suggestions, ports.Suggestion{Value: a, Kind: ports.SuggestionAuthor})
	}

	for _, c := range categories {
		suggestions = append(suggestions, ports.Suggestion{Value: c, Kind: ports.SuggestionCategory})
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	return suggestions, nil
}

// PopularTerms returns the most-quoted authors with their counts.
func (s *QuoteService) PopularTerms(ctx context.Context, limit int) ([]ports.TermCount, error) {
	if limit <= 0 {
		limit = 10
	}

	return s.repo.PopularAuthors(ctx, limit)
}

// Categories returns the distinct categories in the catalog.
func (s *QuoteService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Authors returns the distinct authors in the catalog.
func (s *QuoteService) Authors(ctx context.Context) ([]string, error) {
	return s.repo.Authors(ctx)
}

// ByCategory filters on exact category.
func (s *QuoteService) ByCategory(ctx context.Context, category string, limit int) ([]domain.Quote, error) {
	return s.repo.ByCategory(ctx, category, normalizeLimit(limit))
}

// ByAuthor filters on case-insensitive author substring.
func (s *QuoteService) ByAuthor(ctx context.Context, author string, limit int) ([]domain.Quote, error) {
	return s.repo.ByAuthor(ctx, author, normalizeLimit(limit))
}

// ByVerificationStatus filters on exact status.
func (s *QuoteService) ByVerificationStatus(ctx context.Context, status domain.VerificationStatus, limit int) ([]domain.Quote, error) {
	return s.repo.ByVerificationStatus(ctx, status, normalizeLimit(limit))
}

// ByMinQualityScore returns quotes scoring at least minScore.
func (s *QuoteService) ByMinQualityScore(ctx context.Context, minScore, limit int) ([]domain.Quote, error) {
	return s.repo.ByMinQualityScore(ctx, minScore, normalizeLimit(limit))
}

// BySourceType filters on exact source type.
func (s *QuoteService) BySourceType(ctx context.Context, sourceType string, limit int) ([]domain.Quote, error) {
	return s.repo.BySourceType(ctx, sourceType, normalizeLimit(limit))
}

// CheckDuplicates returns every stored quote matching text and author under
// trim+lowercase comparison. More than one match is possible when invalid
// data predates the duplicate rule.
func (s *QuoteService) CheckDuplicates(ctx context.Context, text, author string) ([]domain.Quote, error) {
	return s.repo.FindExactDuplicates(ctx, text, author)
}

// FindSimilar scans the whole catalog and returns quotes whose lowercased
// text has a similarity score of at least threshold against the lowercased
// candidate. threshold <= 0 uses the default. Full scan, no early
// termination: acceptable only at small catalog scale, so callers needing
// this at volume pre-filter by author or category first.
func (s *QuoteService) FindSimilar(ctx context.Context, text string, threshold float64) ([]domain.Quote, error) {
	if threshold <= 0 {
		threshold = domain.DefaultSimilarityThreshold
	}

	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	candidate := strings.ToLower(text)

	var similar []domain.Quote

	for _, q := range all {
		if domain.Similarity(candidate, strings.ToLower(q.Text)) >= threshold {
			similar = append(similar, q)
		}
	}

	return similar, nil
}

// VerificationStats groups the catalog by verification status with count and
// mean quality score per group.
func (s *QuoteService) VerificationStats(ctx context.Context) ([]ports.StatusStat, error) {
	return s.repo.VerificationStats(ctx)
}

// SourceTypeStats groups the catalog by source type, most common first.
func (s *QuoteService) SourceTypeStats(ctx context.Context) ([]ports.SourceTypeStat, error) {
	return s.repo.SourceTypeStats(ctx)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}

	return limit
}
