package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/quotevault/quotevault/internal/domain"
	"github.com/quotevault/quotevault/internal/ports"
)

// quoteColumns is the canonical select list. Optional columns are coalesced so
// rows scan into plain Go values; empty string and zero mean absent.
const quoteColumns = `id, text, author,
	COALESCE(category, ''), COALESCE(tags, ''),
	COALESCE(source_title, ''), COALESCE(source_url, ''), COALESCE(source_type, ''),
	COALESCE(verification_status, ''), COALESCE(quality_score, 0),
	COALESCE(language, ''), COALESCE(context_notes, ''),
	COALESCE(date_added, ''), COALESCE(featured_date, ''),
	COALESCE(created_at, ''), COALESCE(updated_at, '')`

// QuoteRepository implements ports.QuoteRepository on SQLite.
type QuoteRepository struct {
	db *DB
}

func NewQuoteRepository(db *DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

var _ ports.QuoteRepository = (*QuoteRepository)(nil)

func (r *QuoteRepository) Create(ctx context.Context, q *domain.Quote) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO quotes (
			text, author, category, tags, source_title, source_url,
			source_type, verification_status, quality_score, language, context_notes
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.Text, q.Author, nullIfEmpty(q.Category), nullIfEmpty(q.Tags),
		nullIfEmpty(q.SourceTitle), nullIfEmpty(q.SourceURL), q.SourceType,
		string(q.VerificationStatus), q.QualityScore, q.Language,
		nullIfEmpty(q.ContextNotes),
	)
	if err != nil {
		return 0, domain.NewStorageError("insert quote", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.NewStorageError("insert quote", err)
	}

	return id, nil
}

func (r *QuoteRepository) Update(ctx context.Context, id int64, q *domain.Quote) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE quotes
		SET text = ?, author = ?, category = ?, tags = ?, source_title = ?,
		    source_url = ?, source_type = ?, verification_status = ?,
		    quality_score = ?, language = ?, context_notes = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		q.Text, q.Author, nullIfEmpty(q.Category), nullIfEmpty(q.Tags),
		nullIfEmpty(q.SourceTitle), nullIfEmpty(q.SourceURL), q.SourceType,
		string(q.VerificationStatus), q.QualityScore, q.Language,
		nullIfEmpty(q.ContextNotes), id,
	)
	if err != nil {
		return domain.NewStorageError("update quote", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.NewStorageError("update quote", err)
	}
	if affected == 0 {
		return domain.NewNotFoundError("quote", id)
	}

	return nil
}

func (r *QuoteRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = ?`, id)
	if err != nil {
		return 0, domain.NewStorageError("delete quote", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStorageError("delete quote", err)
	}

	return affected, nil
}

func (r *QuoteRepository) GetByID(ctx context.Context, id int64) (*domain.Quote, error) {
	q, err := scanQuote(r.db.QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("quote", id)
	}
	if err != nil {
		return nil, domain.NewStorageError("get quote", err)
	}

	return q, nil
}

func (r *QuoteRepository) List(ctx context.Context, limit, offset int) ([]domain.Quote, error) {
	return r.queryQuotes(ctx, "list quotes",
		`SELECT `+quoteColumns+` FROM quotes
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`, limit, offset)
}

func (r *QuoteRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&count)
	if err != nil {
		return 0, domain.NewStorageError("count quotes", err)
	}

	return count, nil
}

func (r *QuoteRepository) Random(ctx context.Context, category string, excludeIDs []int64) (*domain.Quote, error) {
	where, args := randomFilter(category, excludeIDs)

	return r.pickQuote(ctx, "pick random quote",
		`SELECT `+quoteColumns+` FROM quotes`+where+` ORDER BY RANDOM() LIMIT 1`,
		args...)
}

func (r *QuoteRepository) MultipleRandom(ctx context.Context, count int, category string, excludeIDs []int64) ([]domain.Quote, error) {
	where, args := randomFilter(category, excludeIDs)
	args = append(args, count)

	return r.queryQuotes(ctx, "pick random quotes",
		`SELECT `+quoteColumns+` FROM quotes`+where+` ORDER BY RANDOM() LIMIT ?`,
		args...)
}

// randomFilter builds the optional WHERE clause shared by the random pickers.
func randomFilter(category string, excludeIDs []int64) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, category)
	}

	if len(excludeIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(excludeIDs)), ", ")
		conditions = append(conditions, "id NOT IN ("+placeholders+")")
		for _, id := range excludeIDs {
			args = append(args, id)
		}
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *QuoteRepository) ByCategory(ctx context.Context, category string, limit int) ([]domain.Quote, error) {
	return r.queryQuotes(ctx, "list quotes by category",
		`SELECT `+quoteColumns+` FROM quotes
		 WHERE category = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, category, limit)
}

func (r *QuoteRepository) ByAuthor(ctx context.Context, author string, limit int) ([]domain.Quote, error) {
	return r.queryQuotes(ctx, "list quotes by author",
		`SELECT `+quoteColumns+` FROM quotes
		 WHERE author LIKE ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, likePattern(author), limit)
}

func (r *QuoteRepository) ByVerificationStatus(ctx context.Context, status domain.VerificationStatus, limit int) ([]domain.Quote, error) {
	return r.queryQuotes(ctx, "list quotes by verification status",
		`SELECT `+quoteColumns+` FROM quotes
		 WHERE verification_status = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, string(status), limit)
}

func (r *QuoteRepository) ByMinQualityScore(ctx context.Context, minScore, limit int) ([]domain.Quote, error) {
	return r.queryQuotes(ctx, "list quotes by quality score",
		`SELECT `+quoteColumns+` FROM quotes
		 WHERE quality_score >= ?
		 ORDER BY quality_score DESC, created_at DESC, id DESC
		 LIMIT ?`, minScore, limit)
}

func (r *QuoteRepository) BySourceType(ctx context.Context, sourceType string, limit int) ([]domain.Quote, error) {
	return r.queryQuotes(ctx, "list quotes by source type",
		`SELECT `+quoteColumns+` FROM quotes
		 WHERE source_type = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, sourceType, limit)
}

func (r *QuoteRepository) Search(ctx context.Context, term string, limit int) ([]domain.Quote, error) {
	pattern := likePattern(term)

	return r.queryQuotes(ctx, "search quotes",
		`SELECT `+quoteColumns+` FROM quotes
		 WHERE text LIKE ? OR author LIKE ? OR category LIKE ? OR tags LIKE ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, pattern, pattern, pattern, pattern, limit)
}

func (r *QuoteRepository) AdvancedSearch(ctx context.Context, filters ports.SearchFilters, limit, offset int) ([]domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE 1=1`
	var args []any

	if filters.Term != "" {
		query += ` AND (text LIKE ? OR author LIKE ? OR category LIKE ? OR tags LIKE ?)`
		pattern := likePattern(filters.Term)
		args = append(args, pattern, pattern, pattern, pattern)
	}

	if filters.Category != "" {
		query += ` AND category = ?`
		args = append(args, filters.Category)
	}

	if filters.Author != "" {
		query += ` AND author LIKE ?`
		args = append(args, likePattern(filters.Author))
	}

	for _, tag := range filters.Tags {
		query += ` AND tags LIKE ?`
		args = append(args, likePattern(tag))
	}

	if filters.DateFrom != "" {
		query += ` AND date_added >= ?`
		args = append(args, filters.DateFrom)
	}

	if filters.DateTo != "" {
		// Inclusive upper bound on a calendar date against a datetime column.
		query += ` AND date_added <= datetime(?, '+1 day')`
		args = append(args, filters.DateTo)
	}

	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	return r.queryQuotes(ctx, "advanced search quotes", query, args...)
}

func (r *QuoteRepository) SuggestAuthors(ctx context.Context, term string, limit int) ([]string, error) {
	return r.queryStrings(ctx, "suggest authors",
		`SELECT DISTINCT author FROM quotes WHERE author LIKE ? LIMIT ?`,
		likePattern(term), limit)
}

func (r *QuoteRepository) SuggestCategories(ctx context.Context, term string, limit int) ([]string, error) {
	return r.queryStrings(ctx, "suggest categories",
		`SELECT DISTINCT category FROM quotes
		 WHERE category LIKE ? AND category IS NOT NULL
		 LIMIT ?`, likePattern(term), limit)
}

func (r *QuoteRepository) PopularAuthors(ctx context.Context, limit int) ([]ports.TermCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT author, COUNT(*) AS cnt FROM quotes
		 GROUP BY author
		 ORDER BY cnt DESC, author ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, domain.NewStorageError("list popular authors", err)
	}
	defer rows.Close()

	var terms []ports.TermCount
	for rows.Next() {
		tc := ports.TermCount{Kind: ports.SuggestionAuthor}
		if err := rows.Scan(&tc.Term, &tc.Count); err != nil {
			return nil, domain.NewStorageError("list popular authors", err)
		}
		terms = append(terms, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list popular authors", err)
	}

	return terms, nil
}

func (r *QuoteRepository) Categories(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, "list categories",
		`SELECT DISTINCT category FROM quotes
		 WHERE category IS NOT NULL
		 ORDER BY category`)
}

func (r *QuoteRepository) Authors(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, "list authors",
		`SELECT DISTINCT author FROM quotes ORDER BY author`)
}

func (r *QuoteRepository) FindExactDuplicates(ctx context.Context, text, author string) ([]domain.Quote, error) {
	return r.queryQuotes(ctx, "find duplicate quotes",
		`SELECT `+quoteColumns+` FROM quotes
		 WHERE LOWER(TRIM(text)) = LOWER(TRIM(?))
		   AND LOWER(TRIM(author)) = LOWER(TRIM(?))`, text, author)
}

func (r *QuoteRepository) All(ctx context.Context) ([]domain.Quote, error) {
	return r.queryQuotes(ctx, "list all quotes",
		`SELECT `+quoteColumns+` FROM quotes ORDER BY created_at DESC, id DESC`)
}

func (r *QuoteRepository) FeaturedOn(ctx context.Context, date string) (*domain.Quote, error) {
	return r.pickQuote(ctx, "get featured quote",
		`SELECT `+quoteColumns+` FROM quotes WHERE featured_date = ?`, date)
}

func (r *QuoteRepository) RandomNotFeaturedOn(ctx context.Context, date string) (*domain.Quote, error) {
	return r.pickQuote(ctx, "pick daily candidate",
		`SELECT `+quoteColumns+` FROM quotes
		 WHERE featured_date IS NULL OR featured_date != ?
		 ORDER BY RANDOM()
		 LIMIT 1`, date)
}

func (r *QuoteRepository) SetFeaturedDate(ctx context.Context, id int64, date string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE quotes
		SET featured_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND (featured_date IS NULL OR featured_date != ?)`,
		date, id, date)
	if err != nil {
		return false, domain.NewStorageError("set featured date", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, domain.NewStorageError("set featured date", err)
	}

	return affected > 0, nil
}

func (r *QuoteRepository) VerificationStats(ctx context.Context) ([]ports.StatusStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(verification_status, ''), COUNT(*), COALESCE(AVG(quality_score), 0)
		FROM quotes
		GROUP BY verification_status
		ORDER BY verification_status`)
	if err != nil {
		return nil, domain.NewStorageError("aggregate verification stats", err)
	}
	defer rows.Close()

	var stats []ports.StatusStat
	for rows.Next() {
		var st ports.StatusStat
		if err := rows.Scan(&st.Status, &st.Count, &st.AvgQuality); err != nil {
			return nil, domain.NewStorageError("aggregate verification stats", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("aggregate verification stats", err)
	}

	return stats, nil
}

func (r *QuoteRepository) SourceTypeStats(ctx context.Context) ([]ports.SourceTypeStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(source_type, ''), COUNT(*) AS cnt, COALESCE(AVG(quality_score), 0)
		FROM quotes
		GROUP BY source_type
		ORDER BY cnt DESC, source_type ASC`)
	if err != nil {
		return nil, domain.NewStorageError("aggregate source type stats", err)
	}
	defer rows.Close()

	var stats []ports.SourceTypeStat
	for rows.Next() {
		var st ports.SourceTypeStat
		if err := rows.Scan(&st.SourceType, &st.Count, &st.AvgQuality); err != nil {
			return nil, domain.NewStorageError("aggregate source type stats", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("aggregate source type stats", err)
	}

	return stats, nil
}

// pickQuote runs a single-row query where no match means absence, not an
// error.
func (r *QuoteRepository) pickQuote(ctx context.Context, op, query string, args ...any) (*domain.Quote, error) {
	q, err := scanQuote(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}

	return q, nil
}

func (r *QuoteRepository) queryQuotes(ctx context.Context, op, query string, args ...any) ([]domain.Quote, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	defer rows.Close()

	var quotes []domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, domain.NewStorageError(op, err)
		}
		quotes = append(quotes, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError(op, err)
	}

	return quotes, nil
}

func (r *QuoteRepository) queryStrings(ctx context.Context, op, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, domain.NewStorageError(op, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError(op, err)
	}

	return values, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row rowScanner) (*domain.Quote, error) {
	var (
		q         domain.Quote
		dateAdded string
		createdAt string
		updatedAt string
	)

	err := row.Scan(
		&q.ID, &q.Text, &q.Author, &q.Category, &q.Tags,
		&q.SourceTitle, &q.SourceURL, &q.SourceType,
		&q.VerificationStatus, &q.QualityScore,
		&q.Language, &q.ContextNotes,
		&dateAdded, &q.FeaturedDate,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	q.DateAdded = parseTimestamp(dateAdded)
	q.CreatedAt = parseTimestamp(createdAt)
	q.UpdatedAt = parseTimestamp(updatedAt)

	return &q, nil
}

// timestampLayouts covers CURRENT_TIMESTAMP's format plus the RFC 3339 forms
// other SQLite writers commonly use.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
	domain.DateLayout,
}

// parseTimestamp parses a stored timestamp as UTC, returning the zero time
// for empty or unrecognized values.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}

	return time.Time{}
}

// nullIfEmpty maps the domain's empty-string absence onto SQL NULL.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func likePattern(term string) string {
	return "%" + term + "%"
}
