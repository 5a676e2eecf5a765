package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"shortify-be/internal/apperrors"
	"shortify-be/internal/entities"
)

const urlColumns = `id, long_url, short_code, custom_alias, title, description,
	created_at, expires_at, clicks, last_clicked_at, creator_ip, is_active, password_hash`

// URLRepository defines the database operations on URL entries. Lookups by
// identifier match either the short code or the custom alias.
type URLRepository interface {
	Create(u *entities.URL) (*entities.URL, error)
	FindActiveByIdentifier(identifier string) (*entities.URL, error)
	FindByIdentifier(identifier string) (*entities.URL, error)
	IdentifierExists(identifier string) (bool, error)
	FindPermanentByLongURL(longURL string) (*entities.URL, error)
	List(page, limit int) ([]*entities.URL, int64, error)
	Search(query string, limit int) ([]*entities.URL, error)
	Deactivate(identifier string) (*entities.URL, error)
	DeactivateExpired(now time.Time) (int64, error)
}

type urlRepository struct {
	db *sql.DB
}

// NewURLRepository creates a new URL repository.
func NewURLRepository(db *sql.DB) URLRepository {
	return &urlRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanURL(row rowScanner) (*entities.URL, error) {
	var u entities.URL
	err := row.Scan(
		&u.ID,
		&u.LongURL,
		&u.ShortCode,
		&u.CustomAlias,
		&u.Title,
		&u.Description,
		&u.CreatedAt,
		&u.ExpiresAt,
		&u.Clicks,
		&u.LastClickedAt,
		&u.CreatorIP,
		&u.IsActive,
		&u.PasswordHash,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new URL entry. The urls.short_code UNIQUE constraint is the
// final arbiter of the identifier namespace: a late collision surfaces as a
// conflict error, not a crash.
func (r *urlRepository) Create(u *entities.URL) (*entities.URL, error) {
	var expiresAt interface{}
	if u.ExpiresAt != nil {
		// Store expirations in UTC
		expiresAt = u.ExpiresAt.UTC()
	}

	query := `
		INSERT INTO urls (long_url, short_code, custom_alias, title, description, expires_at, creator_ip, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + urlColumns

	created, err := scanURL(r.db.QueryRow(query,
		u.LongURL, u.ShortCode, u.CustomAlias, u.Title, u.Description, expiresAt, u.CreatorIP, u.PasswordHash))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, apperrors.Conflictf("identifier %q", u.ShortCode)
		}
		return nil, fmt.Errorf("failed to create URL: %w", err)
	}

	return created, nil
}

// FindActiveByIdentifier returns the active entry matching the identifier.
// Expiration is not filtered here; the resolver enforces it live so it can
// report expired separately from not-found.
func (r *urlRepository) FindActiveByIdentifier(identifier string) (*entities.URL, error) {
	query := `
		SELECT ` + urlColumns + `
		FROM urls
		WHERE (short_code = $1 OR custom_alias = $1) AND is_active
	`

	u, err := scanURL(r.db.QueryRow(query, identifier))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find URL: %w", err)
	}

	return u, nil
}

// FindByIdentifier returns the entry matching the identifier regardless of its
// active flag. Used by stats, where inactive entries stay reportable.
func (r *urlRepository) FindByIdentifier(identifier string) (*entities.URL, error) {
	query := `
		SELECT ` + urlColumns + `
		FROM urls
		WHERE short_code = $1 OR custom_alias = $1
	`

	u, err := scanURL(r.db.QueryRow(query, identifier))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find URL: %w", err)
	}

	return u, nil
}

// IdentifierExists reports whether the identifier is taken anywhere in the
// namespace, active or not. Uniqueness is permanent once assigned.
func (r *urlRepository) IdentifierExists(identifier string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM urls WHERE short_code = $1 OR custom_alias = $1)`,
		identifier,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check identifier: %w", err)
	}
	return exists, nil
}

// FindPermanentByLongURL returns the oldest entry with the same long URL and no
// expiration, used for the idempotent-by-URL short circuit on create.
func (r *urlRepository) FindPermanentByLongURL(longURL string) (*entities.URL, error) {
	query := `
		SELECT ` + urlColumns + `
		FROM urls
		WHERE long_url = $1 AND expires_at IS NULL
		ORDER BY id
		LIMIT 1
	`

	u, err := scanURL(r.db.QueryRow(query, longURL))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find URL by long URL: %w", err)
	}

	return u, nil
}

// List returns one page of active entries ordered by creation time descending,
// plus the total count of active entries.
func (r *urlRepository) List(page, limit int) ([]*entities.URL, int64, error) {
	var total int64
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM urls WHERE is_active`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count URLs: %w", err)
	}

	query := `
		SELECT ` + urlColumns + `
		FROM urls
		WHERE is_active
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list URLs: %w", err)
	}
	defer rows.Close()

	urls, err := collectURLs(rows)
	if err != nil {
		return nil, 0, err
	}

	return urls, total, nil
}

// Search returns active entries whose long URL, title or description contains
// the query (case-insensitive), ordered by click count descending.
func (r *urlRepository) Search(query string, limit int) ([]*entities.URL, error) {
	pattern := "%" + query + "%"
	stmt := `
		SELECT ` + urlColumns + `
		FROM urls
		WHERE is_active
		AND (long_url ILIKE $1 OR title ILIKE $1 OR description ILIKE $1)
		ORDER BY clicks DESC
		LIMIT $2
	`

	rows, err := r.db.Query(stmt, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search URLs: %w", err)
	}
	defer rows.Close()

	return collectURLs(rows)
}

func collectURLs(rows *sql.Rows) ([]*entities.URL, error) {
	var urls []*entities.URL
	for rows.Next() {
		u, err := scanURL(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan URL: %w", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating URLs: %w", err)
	}
	return urls, nil
}

// Deactivate soft-deletes the active entry matching the identifier and returns
// it so the caller can invalidate caches. Already-inactive entries are
// invisible to this lookup and report not-found.
func (r *urlRepository) Deactivate(identifier string) (*entities.URL, error) {
	query := `
		UPDATE urls
		SET is_active = FALSE
		WHERE (short_code = $1 OR custom_alias = $1) AND is_active
		RETURNING ` + urlColumns

	u, err := scanURL(r.db.QueryRow(query, identifier))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate URL: %w", err)
	}

	return u, nil
}

// DeactivateExpired marks every active entry whose expiration has passed as
// inactive and returns how many rows were affected.
func (r *urlRepository) DeactivateExpired(now time.Time) (int64, error) {
	result, err := r.db.Exec(
		`UPDATE urls SET is_active = FALSE WHERE is_active AND expires_at IS NOT NULL AND expires_at <= $1`,
		now.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired URLs: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected, nil
}
