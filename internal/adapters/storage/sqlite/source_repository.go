package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quotevault/quotevault/internal/domain"
	"github.com/quotevault/quotevault/internal/ports"
)

const sourceColumns = `id, title, COALESCE(author, ''),
	COALESCE(publication_year, 0), COALESCE(publisher, ''), COALESCE(isbn, ''),
	COALESCE(url, ''), source_type, COALESCE(credibility_rating, 0),
	COALESCE(description, ''), COALESCE(created_at, ''), COALESCE(updated_at, '')`

// SourceRepository implements ports.SourceRepository on SQLite.
type SourceRepository struct {
	db *DB
}

func NewSourceRepository(db *DB) *SourceRepository {
	return &SourceRepository{db: db}
}

var _ ports.SourceRepository = (*SourceRepository)(nil)

func (r *SourceRepository) Create(ctx context.Context, s *domain.Source) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO sources (
			title, author, publication_year, publisher, isbn, url,
			source_type, credibility_rating, description
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Title, nullIfEmpty(s.Author), nullIfZero(s.PublicationYear),
		nullIfEmpty(s.Publisher), nullIfEmpty(s.ISBN), nullIfEmpty(s.URL),
		s.SourceType, s.CredibilityRating, nullIfEmpty(s.Description),
	)
	if err != nil {
		return 0, domain.NewStorageError("insert source", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.NewStorageError("insert source", err)
	}

	return id, nil
}

func (r *SourceRepository) Update(ctx context.Context, id int64, s *domain.Source) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sources
		SET title = ?, author = ?, publication_year = ?, publisher = ?,
		    isbn = ?, url = ?, source_type = ?, credibility_rating = ?,
		    description = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		s.Title, nullIfEmpty(s.Author), nullIfZero(s.PublicationYear),
		nullIfEmpty(s.Publisher), nullIfEmpty(s.ISBN), nullIfEmpty(s.URL),
		s.SourceType, s.CredibilityRating, nullIfEmpty(s.Description), id,
	)
	if err != nil {
		return domain.NewStorageError("update source", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.NewStorageError("update source", err)
	}
	if affected == 0 {
		return domain.NewNotFoundError("source", id)
	}

	return nil
}

func (r *SourceRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id)
	if err != nil {
		return 0, domain.NewStorageError("delete source", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStorageError("delete source", err)
	}

	return affected, nil
}

func (r *SourceRepository) GetByID(ctx context.Context, id int64) (*domain.Source, error) {
	s, err := scanSource(r.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("source", id)
	}
	if err != nil {
		return nil, domain.NewStorageError("get source", err)
	}

	return s, nil
}

func (r *SourceRepository) List(ctx context.Context, limit, offset int) ([]domain.Source, error) {
	return r.querySources(ctx, "list sources",
		`SELECT `+sourceColumns+` FROM sources
		 ORDER BY credibility_rating DESC, created_at DESC, id DESC
		 LIMIT ? OFFSET ?`, limit, offset)
}

func (r *SourceRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sources`).Scan(&count)
	if err != nil {
		return 0, domain.NewStorageError("count sources", err)
	}

	return count, nil
}

func (r *SourceRepository) ByType(ctx context.Context, sourceType string, limit int) ([]domain.Source, error) {
	return r.querySources(ctx, "list sources by type",
		`SELECT `+sourceColumns+` FROM sources
		 WHERE source_type = ?
		 ORDER BY credibility_rating DESC, created_at DESC, id DESC
		 LIMIT ?`, sourceType, limit)
}

func (r *SourceRepository) ByMinCredibility(ctx context.Context, minRating, limit int) ([]domain.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources
		 WHERE credibility_rating >= ?
		 ORDER BY credibility_rating DESC, created_at DESC, id DESC`
	args := []any{minRating}

	// Limit 0 means unbounded, used by the trusted-sources listing.
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	return r.querySources(ctx, "list sources by credibility", query, args...)
}

func (r *SourceRepository) Search(ctx context.Context, term string, limit int) ([]domain.Source, error) {
	pattern := likePattern(term)

	return r.querySources(ctx, "search sources",
		`SELECT `+sourceColumns+` FROM sources
		 WHERE title LIKE ? OR author LIKE ? OR publisher LIKE ? OR description LIKE ?
		 ORDER BY credibility_rating DESC, created_at DESC, id DESC
		 LIMIT ?`, pattern, pattern, pattern, pattern, limit)
}

func (r *SourceRepository) Types(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT source_type FROM sources ORDER BY source_type`)
	if err != nil {
		return nil, domain.NewStorageError("list source types", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, domain.NewStorageError("list source types", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list source types", err)
	}

	return types, nil
}

// QuotesBySource resolves the source's title and returns quotes referencing
// it. The title link is denormalized text, not a foreign key.
func (r *SourceRepository) QuotesBySource(ctx context.Context, sourceID int64, limit int) ([]domain.Quote, error) {
	quotes := &QuoteRepository{db: r.db}

	return quotes.queryQuotes(ctx, "list quotes by source",
		`SELECT `+quoteColumns+` FROM quotes
		 WHERE source_title IN (SELECT title FROM sources WHERE id = ?)
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, sourceID, limit)
}

func (r *SourceRepository) querySources(ctx context.Context, op, query string, args ...any) ([]domain.Source, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, domain.NewStorageError(op, err)
		}
		sources = append(sources, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError(op, err)
	}

	return sources, nil
}

func scanSource(row rowScanner) (*domain.Source, error) {
	var (
		s         domain.Source
		createdAt string
		updatedAt string
	)

	err := row.Scan(
		&s.ID, &s.Title, &s.Author,
		&s.PublicationYear, &s.Publisher, &s.ISBN,
		&s.URL, &s.SourceType, &s.CredibilityRating,
		&s.Description, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.CreatedAt = parseTimestamp(createdAt)
	s.UpdatedAt = parseTimestamp(updatedAt)

	return &s, nil
}

// nullIfZero maps the domain's zero-int absence onto SQL NULL.
func nullIfZero(n int) any {
	if n == 0 {
		return nil
	}

	return n
}
