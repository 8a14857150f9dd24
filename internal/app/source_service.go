package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/quotevault/quotevault/internal/domain"
	"github.com/quotevault/quotevault/internal/ports"
)

// DefaultHighCredibilityRating is the cutoff for the high-credibility listing.
const DefaultHighCredibilityRating = 7

// SourceService orchestrates provenance-source use cases.
type SourceService struct {
	repo   ports.SourceRepository
	logger *slog.Logger
}

// SourceServiceConfig contains the source service dependencies.
type SourceServiceConfig struct {
	Repo   ports.SourceRepository
	Logger *slog.Logger
}

// NewSourceService creates a source service. The repository is required.
func NewSourceService(cfg SourceServiceConfig) *SourceService {
	if cfg.Repo == nil {
		panic("app: SourceService requires a repository")
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &SourceService{repo: cfg.Repo, logger: cfg.Logger}
}

// Validate runs the field-shape checks. Source validation has no duplicate
// phase, so it is fully pure.
func (s *SourceService) Validate(src *domain.Source) []string {
	return domain.ValidateSourceFields(src)
}

// Create validates and persists a new source, defaulting the credibility
// rating.
func (s *SourceService) Create(ctx context.Context, src *domain.Source) (*domain.Source, error) {
	if violations := s.Validate(src); len(violations) > 0 {
		return nil, domain.NewValidationError(violations)
	}

	record := *src
	record.Title = strings.TrimSpace(record.Title)

	if record.CredibilityRating == 0 {
		record.CredibilityRating = domain.DefaultCredibilityRating
	}

	id, err := s.repo.Create(ctx, &record)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "source created",
		slog.Int64("source_id", id),
		slog.String("title", record.Title),
	)

	return s.repo.GetByID(ctx, id)
}

// Update replaces the stored record for id after re-validating.
func (s *SourceService) Update(ctx context.Context, id int64, src *domain.Source) (*domain.Source, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if violations := s.Validate(src); len(violations) > 0 {
		return nil, domain.NewValidationError(violations)
	}

	record := *src
	record.Title = strings.TrimSpace(record.Title)

	if err := s.repo.Update(ctx, id, &record); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "source updated", slog.Int64("source_id", id))

	return s.repo.GetByID(ctx, id)
}

// Delete hard-deletes a source.
func (s *SourceService) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.NewNotFoundError("source", id)
	}

	s.logger.InfoContext(ctx, "source deleted", slog.Int64("source_id", id))

	return nil
}

// GetByID returns one source or domain.ErrNotFound.
func (s *SourceService) GetByID(ctx context.Context, id int64) (*domain.Source, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns sources ordered by credibility then recency.
func (s *SourceService) List(ctx context.Context, limit, offset int) ([]domain.Source, error) {
	return s.repo.List(ctx, normalizeLimit(limit), offset)
}

// Count returns the number of sources.
func (s *SourceService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// ByType filters on exact source type.
func (s *SourceService) ByType(ctx context.Context, sourceType string, limit int) ([]domain.Source, error) {
	return s.repo.ByType(ctx, sourceType, normalizeLimit(limit))
}

// ByMinCredibility returns sources rated at least minRating.
func (s *SourceService) ByMinCredibility(ctx context.Context, minRating, limit int) ([]domain.Source, error) {
	return s.repo.ByMinCredibility(ctx, minRating, normalizeLimit(limit))
}

// HighCredibility lists sources at or above the default high-credibility
// cutoff, unlimited.
func (s *SourceService) HighCredibility(ctx context.Context) ([]domain.Source, error) {
	return s.repo.ByMinCredibility(ctx, DefaultHighCredibilityRating, 0)
}

// Search matches term against title, author, publisher and description.
func (s *SourceService) Search(ctx context.Context, term string, limit int) ([]domain.Source, error) {
	return s.repo.Search(ctx, term, normalizeLimit(limit))
}

// Types returns the distinct source types.
func (s *SourceService) Types(ctx context.Context) ([]string, error) {
	return s.repo.Types(ctx)
}

// QuotesBySource returns quotes whose source_title matches the source's
// title. The source must exist.
func (s *SourceService) QuotesBySource(ctx context.Context, sourceID int64, limit int) ([]domain.Quote, error) {
	if _, err := s.repo.GetByID(ctx, sourceID); err != nil {
		return nil, err
	}

	return s.repo.QuotesBySource(ctx, sourceID, normalizeLimit(limit))
}
