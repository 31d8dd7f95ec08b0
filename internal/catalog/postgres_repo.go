package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const entryColumns = `id, isbn13, volume_id, title, author, description, cover_url, page_count, published_date, trending_score, review_count, view_count, created_at, updated_at`

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(
		&e.ID, &e.ISBN13, &e.VolumeID, &e.Title, &e.Author, &e.Description,
		&e.CoverURL, &e.PageCount, &e.Published, &e.TrendingScore,
		&e.ReviewCount, &e.ViewCount, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *PostgresRepo) GetByNaturalKey(ctx context.Context, key NaturalKey) (Entry, error) {
	const query = `
		SELECT ` + entryColumns + `
		FROM catalog_entries
		WHERE (isbn13 = $1 AND $1 <> '') OR (volume_id = $2 AND $2 <> '')
		LIMIT 1`

	e, err := scanEntry(r.db.QueryRow(ctx, query, key.ISBN13, key.VolumeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	return e, nil
}

// Create inserts a new entry. The conflict target follows the entry's
// primary natural key so a racing create on the same key merges instead
// of duplicating; identity fields are never overwritten on conflict.
func (r *PostgresRepo) Create(ctx context.Context, e *Entry, provider string, raw []byte) error {
	conflict := `(volume_id) WHERE volume_id <> ''`
	if e.ISBN13 != "" {
		conflict = `(isbn13) WHERE isbn13 <> ''`
	}

	sql := fmt.Sprintf(`
		INSERT INTO catalog_entries (isbn13, volume_id, title, author, description, cover_url, page_count, published_date, trending_score, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT %s DO UPDATE SET
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			description = EXCLUDED.description,
			cover_url = EXCLUDED.cover_url,
			page_count = EXCLUDED.page_count,
			published_date = EXCLUDED.published_date,
			trending_score = EXCLUDED.trending_score,
			updated_at = now()
		RETURNING id, created_at, updated_at`, conflict)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, sql,
		e.ISBN13, e.VolumeID, e.Title, e.Author, e.Description,
		e.CoverURL, e.PageCount, e.Published, e.TrendingScore,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}

	if err := upsertSource(ctx, tx, e.ID, provider, raw); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update refreshes score and descriptive fields for an existing entry.
// Identity columns are left untouched.
func (r *PostgresRepo) Update(ctx context.Context, e *Entry, provider string, raw []byte) error {
	const sql = `
		UPDATE catalog_entries SET
			title = $2,
			author = $3,
			description = $4,
			cover_url = $5,
			page_count = $6,
			published_date = $7,
			trending_score = $8,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, sql,
		e.ID, e.Title, e.Author, e.Description, e.CoverURL,
		e.PageCount, e.Published, e.TrendingScore,
	).Scan(&e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}

	if err := upsertSource(ctx, tx, e.ID, provider, raw); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func upsertSource(ctx context.Context, tx pgx.Tx, entryID, provider string, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	const sql = `
		INSERT INTO catalog_sources (entry_id, provider, raw_json, fetched_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (entry_id, provider) DO UPDATE SET
			raw_json = EXCLUDED.raw_json,
			fetched_at = now()`

	if _, err := tx.Exec(ctx, sql, entryID, provider, raw); err != nil {
		return fmt.Errorf("upsert entry source: %w", err)
	}
	return nil
}

func (r *PostgresRepo) TopByScore(ctx context.Context, since time.Time, limit int) ([]Entry, error) {
	const query = `
		SELECT ` + entryColumns + `
		FROM catalog_entries
		WHERE updated_at >= $1
		ORDER BY trending_score DESC, updated_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func (r *PostgresRepo) Search(ctx context.Context, q SearchQuery) ([]Entry, int, error) {
	const where = `
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR author ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM catalog_entries`+where, q.Q).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+entryColumns+`
		FROM catalog_entries`+where+`
		ORDER BY trending_score DESC, title ASC
		LIMIT $2 OFFSET $3`, q.Q, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, err
	}

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *PostgresRepo) Featured(ctx context.Context, limit int) ([]Entry, error) {
	const query = `
		SELECT ` + entryColumns + `
		FROM catalog_entries
		ORDER BY review_count DESC, trending_score DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func (r *PostgresRepo) NewReleases(ctx context.Context, since time.Time, limit int) ([]Entry, error) {
	const query = `
		SELECT ` + entryColumns + `
		FROM catalog_entries
		WHERE published_date IS NOT NULL AND published_date >= $1
		ORDER BY published_date DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func collectEntries(rows pgx.Rows) ([]Entry, error) {
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
