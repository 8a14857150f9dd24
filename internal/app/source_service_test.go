package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotevault/quotevault/internal/adapters/storage/memory"
	"github.com/quotevault/quotevault/internal/domain"
)

func newSourceService(t *testing.T) (*SourceService, *memory.Store) {
	t.Helper()

	store := memory.New()
	svc := NewSourceService(SourceServiceConfig{
		Repo:   store.Sources(),
		Logger: discardLogger(),
	})

	return svc, store
}

func mustCreateSource(t *testing.T, svc *SourceService, src domain.Source) *domain.Source {
	t.Helper()

	created, err := svc.Create(context.Background(), &src)
	require.NoError(t, err)
	require.NotNil(t, created)

	return created
}

func TestSourceService_Create_AppliesDefaults(t *testing.T) {
	svc, _ := newSourceService(t)

	created := mustCreateSource(t, svc, domain.Source{
		Title:      "  Meditations  ",
		Author:     "Marcus Aurelius",
		SourceType: "book",
	})

	assert.Equal(t, "Meditations", created.Title)
	assert.Equal(t, domain.DefaultCredibilityRating, created.CredibilityRating)
	assert.NotZero(t, created.ID)
}

func TestSourceService_Create_Invalid(t *testing.T) {
	svc, _ := newSourceService(t)

	_, err := svc.Create(context.Background(), &domain.Source{
		Title:             "",
		SourceType:        "",
		CredibilityRating: 12,
		PublicationYear:   50,
	})

	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Violations, 4)
}

func TestSourceService_Update(t *testing.T) {
	svc, _ := newSourceService(t)

	created := mustCreateSource(t, svc, domain.Source{
		Title:      "Meditations",
		SourceType: "book",
	})

	updated, err := svc.Update(context.Background(), created.ID, &domain.Source{
		Title:             "Meditations",
		SourceType:        "book",
		CredibilityRating: 9,
		Publisher:         "Penguin",
	})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.CredibilityRating)
	assert.Equal(t, "Penguin", updated.Publisher)

	_, err = svc.Update(context.Background(), 999, &domain.Source{
		Title:      "Ghost",
		SourceType: "book",
	})
	assert.True(t, domain.IsNotFound(err))
}

func TestSourceService_Delete(t *testing.T) {
	svc, _ := newSourceService(t)

	created := mustCreateSource(t, svc, domain.Source{Title: "Meditations", SourceType: "book"})

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	err := svc.Delete(context.Background(), created.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestSourceService_CredibilityFilters(t *testing.T) {
	svc, _ := newSourceService(t)

	low := mustCreateSource(t, svc, domain.Source{Title: "Tabloid", SourceType: "website", CredibilityRating: 2})
	high := mustCreateSource(t, svc, domain.Source{Title: "Journal", SourceType: "article", CredibilityRating: 9})

	filtered, err := svc.ByMinCredibility(context.Background(), 5, 20)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, high.ID, filtered[0].ID)

	trusted, err := svc.HighCredibility(context.Background())
	require.NoError(t, err)
	require.Len(t, trusted, 1)
	assert.Equal(t, high.ID, trusted[0].ID)

	all, err := svc.ByMinCredibility(context.Background(), 0, 20)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Ordered by credibility rating descending.
	assert.Equal(t, high.ID, all[0].ID)
	assert.Equal(t, low.ID, all[1].ID)
}

func TestSourceService_SearchAndTypes(t *testing.T) {
	svc, _ := newSourceService(t)

	mustCreateSource(t, svc, domain.Source{Title: "Meditations", Author: "Marcus Aurelius", SourceType: "book"})
	mustCreateSource(t, svc, domain.Source{Title: "Stanford Commencement", Author: "Steve Jobs", SourceType: "speech"})
	mustCreateSource(t, svc, domain.Source{Title: "Walden", Author: "Henry Thoreau", SourceType: "book"})

	byAuthor, err := svc.Search(context.Background(), "aurelius", 20)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)

	byTitle, err := svc.Search(context.Background(), "wald", 20)
	require.NoError(t, err)
	require.Len(t, byTitle, 1)

	types, err := svc.Types(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"book", "speech"}, types)
}

func TestSourceService_QuotesBySource(t *testing.T) {
	store := memory.New()
	sources := NewSourceService(SourceServiceConfig{Repo: store.Sources(), Logger: discardLogger()})
	quotes := NewQuoteService(QuoteServiceConfig{Repo: store.Quotes(), Logger: discardLogger()})

	src := mustCreateSource(t, sources, domain.Source{Title: "Meditations", SourceType: "book"})

	mustCreate(t, quotes, domain.Quote{
		Text:        "You have power over your mind, not outside events.",
		Author:      "Marcus Aurelius",
		SourceTitle: "Meditations",
	})
	mustCreate(t, quotes, domain.Quote{
		Text:   "An unrelated quote from nowhere in particular.",
		Author: "Anonymous Writer",
	})

	linked, err := sources.QuotesBySource(context.Background(), src.ID, 20)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "Marcus Aurelius", linked[0].Author)

	_, err = sources.QuotesBySource(context.Background(), 999, 20)
	assert.True(t, domain.IsNotFound(err))
}
