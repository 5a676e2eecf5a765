package repository

import (
	"database/sql"
	"fmt"
	"time"

	"shortify-be/internal/entities"
)

// AnalyticsRepository defines the database operations for click events and the
// aggregate counters they feed.
type AnalyticsRepository interface {
	InsertClick(click *entities.ClickEvent) error
	IncrementClicks(shortCode string, clickedAt time.Time) error
	RecentClicks(shortCode string, limit int) ([]*entities.ClickEvent, error)
	ClicksByDay(shortCode string, days int) ([]*entities.DayCount, error)
	TopReferers(shortCode string, limit int) ([]*entities.RefererCount, error)
}

type analyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository creates a new analytics repository.
func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// InsertClick appends one click event row.
func (r *analyticsRepository) InsertClick(click *entities.ClickEvent) error {
	_, err := r.db.Exec(`
		INSERT INTO url_clicks (short_code, clicked_at, referer, user_agent, ip_address, country)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, click.ShortCode, click.ClickedAt.UTC(), click.Referer, click.UserAgent, click.IPAddress, click.Country)
	if err != nil {
		return fmt.Errorf("failed to insert click: %w", err)
	}
	return nil
}

// IncrementClicks bumps the owning entry's click counter and last-clicked time.
func (r *analyticsRepository) IncrementClicks(shortCode string, clickedAt time.Time) error {
	_, err := r.db.Exec(`
		UPDATE urls
		SET clicks = clicks + 1, last_clicked_at = $2
		WHERE short_code = $1
	`, shortCode, clickedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to increment click count: %w", err)
	}
	return nil
}

// RecentClicks returns the most recent click events for an entry, newest first.
func (r *analyticsRepository) RecentClicks(shortCode string, limit int) ([]*entities.ClickEvent, error) {
	rows, err := r.db.Query(`
		SELECT id, short_code, clicked_at, referer, user_agent, ip_address, country
		FROM url_clicks
		WHERE short_code = $1
		ORDER BY clicked_at DESC
		LIMIT $2
	`, shortCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent clicks: %w", err)
	}
	defer rows.Close()

	var clicks []*entities.ClickEvent
	for rows.Next() {
		var c entities.ClickEvent
		if err := rows.Scan(&c.ID, &c.ShortCode, &c.ClickedAt, &c.Referer, &c.UserAgent, &c.IPAddress, &c.Country); err != nil {
			return nil, fmt.Errorf("failed to scan click: %w", err)
		}
		clicks = append(clicks, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clicks: %w", err)
	}

	return clicks, nil
}

// ClicksByDay returns per-day click counts for the trailing number of days.
func (r *analyticsRepository) ClicksByDay(shortCode string, days int) ([]*entities.DayCount, error) {
	query := fmt.Sprintf(`
		SELECT DATE_TRUNC('day', clicked_at AT TIME ZONE 'UTC') AT TIME ZONE 'UTC' AS day,
			COUNT(*) AS click_count
		FROM url_clicks
		WHERE short_code = $1
		AND clicked_at >= (NOW() AT TIME ZONE 'UTC') - INTERVAL '%d days'
		GROUP BY day
		ORDER BY day ASC
	`, days)

	rows, err := r.db.Query(query, shortCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get clicks by day: %w", err)
	}
	defer rows.Close()

	var buckets []*entities.DayCount
	for rows.Next() {
		var b entities.DayCount
		if err := rows.Scan(&b.Day, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan day bucket: %w", err)
		}
		buckets = append(buckets, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day buckets: %w", err)
	}

	return buckets, nil
}

// TopReferers returns the referers with the most clicks for an entry.
func (r *analyticsRepository) TopReferers(shortCode string, limit int) ([]*entities.RefererCount, error) {
	rows, err := r.db.Query(`
		SELECT referer, COUNT(*) AS click_count
		FROM url_clicks
		WHERE short_code = $1
		GROUP BY referer
		ORDER BY click_count DESC
		LIMIT $2
	`, shortCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top referers: %w", err)
	}
	defer rows.Close()

	var referers []*entities.RefererCount
	for rows.Next() {
		var rc entities.RefererCount
		if err := rows.Scan(&rc.Referer, &rc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan referer bucket: %w", err)
		}
		referers = append(referers, &rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating referer buckets: %w", err)
	}

	return referers, nil
}
