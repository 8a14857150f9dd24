// Package memory provides in-memory implementations of the storage ports.
// It backs the ephemeral storage mode and the application-layer tests, and
// mirrors the sqlite adapter's semantics without a database file.
package memory

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/quotevault/quotevault/internal/domain"
	"github.com/quotevault/quotevault/internal/ports"
)

// Store holds both repositories over shared in-process state.
type Store struct {
	mu      sync.RWMutex
	quotes  map[int64]domain.Quote
	sources map[int64]domain.Source
	nextID  int64
	rng     *rand.Rand
}

// New creates an empty store.
func New() *Store {
	return &Store{
		quotes:  make(map[int64]domain.Quote),
		sources: make(map[int64]domain.Source),
		nextID:  1,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Quotes returns the quote repository view of the store.
func (s *Store) Quotes() ports.QuoteRepository { return (*quoteRepo)(s) }

// Sources returns the source repository view of the store.
func (s *Store) Sources() ports.SourceRepository { return (*sourceRepo)(s) }

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "memory" }

// Check implements ports.HealthChecker. An in-process map is always healthy.
func (s *Store) Check(_ context.Context) error { return nil }

type quoteRepo Store

func (r *quoteRepo) Create(_ context.Context, q *domain.Quote) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()

	stored := *q
	stored.ID = r.nextID
	stored.DateAdded = now
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.nextID++

	r.quotes[stored.ID] = stored

	return stored.ID, nil
}

func (r *quoteRepo) Update(_ context.Context, id int64, q *domain.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.quotes[id]
	if !ok {
		return domain.NewNotFoundError("quote", id)
	}

	updated := *q
	updated.ID = id
	updated.DateAdded = existing.DateAdded
	updated.FeaturedDate = existing.FeaturedDate
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.quotes[id] = updated

	return nil
}

func (r *quoteRepo) Delete(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.quotes[id]; !ok {
		return 0, nil
	}

	delete(r.quotes, id)

	return 1, nil
}

func (r *quoteRepo) GetByID(_ context.Context, id int64) (*domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.quotes[id]
	if !ok {
		return nil, domain.NewNotFoundError("quote", id)
	}

	return &q, nil
}

func (r *quoteRepo) List(_ context.Context, limit, offset int) ([]domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.newestFirst(nil)

	return page(all, limit, offset), nil
}

func (r *quoteRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.quotes), nil
}

func (r *quoteRepo) Random(ctx context.Context, category string, excludeIDs []int64) (*domain.Quote, error) {
	picks, err := r.MultipleRandom(ctx, 1, category, excludeIDs)
	if err != nil || len(picks) == 0 {
		return nil, err
	}

	return &picks[0], nil
}

func (r *quoteRepo) MultipleRandom(_ context.Context, count int, category string, excludeIDs []int64) ([]domain.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	excluded := make(map[int64]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	var matches []domain.Quote

	for _, q := range r.quotes {
		if excluded[q.ID] {
			continue
		}

		if category != "" && q.Category != category {
			continue
		}

		matches = append(matches, q)
	}

	r.rng.Shuffle(len(matches), func(i, j int) {
		matches[i], matches[j] = matches[j], matches[i]
	})

	if count < len(matches) {
		matches = matches[:count]
	}

	return matches, nil
}

func (r *quoteRepo) ByCategory(_ context.Context, category string, limit int) ([]domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return page(r.newestFirst(func(q domain.Quote) bool {
		return q.Category == category
	}), limit, 0), nil
}

func (r *quoteRepo) ByAuthor(_ context.Context, author string, limit int) ([]domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(author)

	return page(r.newestFirst(func(q domain.Quote) bool {
		return strings.Contains(strings.ToLower(q.Author), needle)
	}), limit, 0), nil
}

func (r *quoteRepo) ByVerificationStatus(_ context.Context, status domain.VerificationStatus, limit int) ([]domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return page(r.newestFirst(func(q domain.Quote) bool {
		return q.VerificationStatus == status
	}), limit, 0), nil
}

func (r *quoteRepo) ByMinQualityScore(_ context.Context, minScore, limit int) ([]domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.newestFirst(func(q domain.Quote) bool {
		return q.QualityScore >= minScore
	})

	// Quality first, recency as tie-break (input is already newest-first).
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].QualityScore > matches[j].QualityScore
	})

	return page(matches, limit, 0), nil
}

func (r *quoteRepo) BySourceType(_ context.Context, sourceType string, limit int) ([]domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return page(r.newestFirst(func(q domain.Quote) bool {
		return q.SourceType == sourceType
	}), limit, 0), nil
}

func (r *quoteRepo) Search(_ context.Context, term string, limit int) ([]domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(term)

	return page(r.newestFirst(func(q domain.Quote) bool {
		return containsFold(q.Text, needle) || containsFold(q.Author, needle) ||
			containsFold(q.Category, needle) || containsFold(q.Tags, needle)
	}), limit, 0), nil
}

func (r *quoteRepo) AdvancedSearch(_ context.Context, filters ports.SearchFilters, limit, offset int) ([]domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term := strings.ToLower(filters.Term)
	author := strings.ToLower(filters.Author)

	matches := r.newestFirst(func(q domain.Quote) bool {
		if filters.Term != "" &&
			!containsFold(q.Text, term) && !containsFold(q.Author, term) &&
			!containsFold(q.Category, term) && !containsFold(q.Tags, term) {
			return false
		}

		if filters.Category != "" && q.Category != filters.Category {
			return false
		}

		if filters.Author != "" && !containsFold(q.Author, author) {
			return false
		}

		for _, tag := range filters.Tags {
			if !containsFold(q.Tags, strings.ToLower(tag)) {
				return false
			}
		}

		added := q.DateAdded.UTC().Format(domain.DateLayout)
		if filters.DateFrom != "" && added < filters.DateFrom {
			return false
		}

		if filters.DateTo != "" && added > filters.DateTo {
			return false
		}

		return true
	})

	return page(matches, limit, offset), nil
}

func (r *quoteRepo) SuggestAuthors(_ context.Context, term string, limit int) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.distinctMatching(func(q domain.Quote) string { return q.Author }, term, limit), nil
}

func (r *quoteRepo) SuggestCategories(_ context.Context, term string, limit int) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.distinctMatching(func(q domain.Quote) string { return q.Category }, term, limit), nil
}

func (r *quoteRepo) PopularAuthors(_ context.Context, limit int) ([]ports.TermCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, q := range r.quotes {
		counts[q.Author]++
	}

	terms := make([]ports.TermCount, 0, len(counts))
	for author, n := range counts {
		terms = append(terms, ports.TermCount{Term: author, Count: n, Kind: ports.SuggestionAuthor})
	}

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}

		return terms[i].Term < terms[j].Term
	})

	if limit > 0 && limit < len(terms) {
		terms = terms[:limit]
	}

	return terms, nil
}

func (r *quoteRepo) Categories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.distinctSorted(func(q domain.Quote) string { return q.Category }), nil
}

func (r *quoteRepo) Authors(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.distinctSorted(func(q domain.Quote) string { return q.Author }), nil
}

func (r *quoteRepo) FindExactDuplicates(_ context.Context, text, author string) ([]domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []domain.Quote

	for _, id := range r.idsAsc() {
		q := r.quotes[id]
		if domain.SameQuote(q.Text, q.Author, text, author) {
			matches = append(matches, q)
		}
	}

	return matches, nil
}

func (r *quoteRepo) All(_ context.Context) ([]domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.Quote, 0, len(r.quotes))
	for _, id := range r.idsAsc() {
		all = append(all, r.quotes[id])
	}

	return all, nil
}

func (r *quoteRepo) FeaturedOn(_ context.Context, date string) (*domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.idsAsc() {
		q := r.quotes[id]
		if q.FeaturedDate == date {
			return &q, nil
		}
	}

	return nil, nil
}

func (r *quoteRepo) RandomNotFeaturedOn(_ context.Context, date string) (*domain.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []domain.Quote

	for _, q := range r.quotes {
		if q.FeaturedDate != date {
			matches = append(matches, q)
		}
	}

	if len(matches) == 0 {
		return nil, nil
	}

	pick := matches[r.rng.Intn(len(matches))]

	return &pick, nil
}

func (r *quoteRepo) SetFeaturedDate(_ context.Context, id int64, date string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.quotes[id]
	if !ok || q.FeaturedDate == date {
		return false, nil
	}

	q.FeaturedDate = date
	r.quotes[id] = q

	return true, nil
}

func (r *quoteRepo) VerificationStats(_ context.Context) ([]ports.StatusStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type agg struct {
		count int
		total int
	}

	groups := make(map[domain.VerificationStatus]*agg)

	for _, q := range r.quotes {
		g, ok := groups[q.VerificationStatus]
		if !ok {
			g = &agg{}
			groups[q.VerificationStatus] = g
		}

		g.count++
		g.total += q.QualityScore
	}

	stats := make([]ports.StatusStat, 0, len(groups))
	for status, g := range groups {
		stats = append(stats, ports.StatusStat{
			Status:     status,
			Count:      g.count,
			AvgQuality: float64(g.total) / float64(g.count),
		})
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Status < stats[j].Status })

	return stats, nil
}

func (r *quoteRepo) SourceTypeStats(_ context.Context) ([]ports.SourceTypeStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type agg struct {
		count int
		total int
	}

	groups := make(map[string]*agg)

	for _, q := range r.quotes {
		g, ok := groups[q.SourceType]
		if !ok {
			g = &agg{}
			groups[q.SourceType] = g
		}

		g.count++
		g.total += q.QualityScore
	}

	stats := make([]ports.SourceTypeStat, 0, len(groups))
	for sourceType, g := range groups {
		stats = append(stats, ports.SourceTypeStat{
			SourceType: sourceType,
			Count:      g.count,
			AvgQuality: float64(g.total) / float64(g.count),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}

		return stats[i].SourceType < stats[j].SourceType
	})

	return stats, nil
}

// newestFirst returns quotes matching the optional predicate, newest first
// with id as the tie-break.
func (r *quoteRepo) newestFirst(match func(domain.Quote) bool) []domain.Quote {
	var out []domain.Quote

	for _, q := range r.quotes {
		if match == nil || match(q) {
			out = append(out, q)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}

		return out[i].ID > out[j].ID
	})

	return out
}

func (r *quoteRepo) idsAsc() []int64 {
	ids := make([]int64, 0, len(r.quotes))
	for id := range r.quotes {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// distinctMatching returns distinct non-empty field values containing term,
// in row order, capped at limit.
func (r *quoteRepo) distinctMatching(field func(domain.Quote) string, term string, limit int) []string {
	needle := strings.ToLower(term)
	seen := make(map[string]bool)

	var out []string

	for _, id := range r.idsAsc() {
		v := field(r.quotes[id])
		if v == "" || seen[v] || !containsFold(v, needle) {
			continue
		}

		seen[v] = true
		out = append(out, v)

		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out
}

func (r *quoteRepo) distinctSorted(field func(domain.Quote) string) []string {
	seen := make(map[string]bool)

	var out []string

	for _, q := range r.quotes {
		v := field(q)
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	sort.Strings(out)

	return out
}

// containsFold reports whether s contains needle case-insensitively; needle
// must already be lowercase.
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}

	items = items[offset:]

	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	return items
}
