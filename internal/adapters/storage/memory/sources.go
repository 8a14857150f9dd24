package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/quotevault/quotevault/internal/domain"
)

type sourceRepo Store

func (r *sourceRepo) Create(_ context.Context, s *domain.Source) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()

	stored := *s
	stored.ID = r.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.nextID++

	r.sources[stored.ID] = stored

	return stored.ID, nil
}

func (r *sourceRepo) Update(_ context.Context, id int64, s *domain.Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.sources[id]
	if !ok {
		return domain.NewNotFoundError("source", id)
	}

	updated := *s
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.sources[id] = updated

	return nil
}

func (r *sourceRepo) Delete(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sources[id]; !ok {
		return 0, nil
	}

	delete(r.sources, id)

	return 1, nil
}

func (r *sourceRepo) GetByID(_ context.Context, id int64) (*domain.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sources[id]
	if !ok {
		return nil, domain.NewNotFoundError("source", id)
	}

	return &s, nil
}

func (r *sourceRepo) List(_ context.Context, limit, offset int) ([]domain.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return page(r.byCredibility(nil), limit, offset), nil
}

func (r *sourceRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sources), nil
}

func (r *sourceRepo) ByType(_ context.Context, sourceType string, limit int) ([]domain.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return page(r.byCredibility(func(s domain.Source) bool {
		return s.SourceType == sourceType
	}), limit, 0), nil
}

func (r *sourceRepo) ByMinCredibility(_ context.Context, minRating, limit int) ([]domain.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return page(r.byCredibility(func(s domain.Source) bool {
		return s.CredibilityRating >= minRating
	}), limit, 0), nil
}

func (r *sourceRepo) Search(_ context.Context, term string, limit int) ([]domain.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(term)

	return page(r.byCredibility(func(s domain.Source) bool {
		return containsFold(s.Title, needle) || containsFold(s.Author, needle) ||
			containsFold(s.Publisher, needle) || containsFold(s.Description, needle)
	}), limit, 0), nil
}

func (r *sourceRepo) Types(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)

	var out []string

	for _, s := range r.sources {
		if s.SourceType != "" && !seen[s.SourceType] {
			seen[s.SourceType] = true
			out = append(out, s.SourceType)
		}
	}

	sort.Strings(out)

	return out, nil
}

func (r *sourceRepo) QuotesBySource(_ context.Context, sourceID int64, limit int) ([]domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sources[sourceID]
	if !ok {
		return nil, nil
	}

	qr := (*quoteRepo)(r)

	return page(qr.newestFirst(func(q domain.Quote) bool {
		return q.SourceTitle == s.Title
	}), limit, 0), nil
}

// byCredibility returns sources matching the optional predicate, ordered by
// credibility rating then recency.
func (r *sourceRepo) byCredibility(match func(domain.Source) bool) []domain.Source {
	var out []domain.Source

	for _, s := range r.sources {
		if match == nil || match(s) {
			out = append(out, s)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CredibilityRating != out[j].CredibilityRating {
			return out[i].CredibilityRating > out[j].CredibilityRating
		}

		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}

		return out[i].ID > out[j].ID
	})

	return out
}
