package models

import (
	"time"

	"shortify-be/internal/entities"
)

// CreateURLResponse is returned after creating (or re-using) a short URL.
type CreateURLResponse struct {
	ShortURL  string     `json:"shortUrl"`
	ShortCode string     `json:"shortCode"`
	ExpiresAt *time.Time `json:"expiresAt"`
	Protected bool       `json:"protected"`
}

// URLResponse is a single entry in listing and search results.
type URLResponse struct {
	ShortCode     string     `json:"shortCode"`
	CustomAlias   *string    `json:"customAlias,omitempty"`
	ShortURL      string     `json:"shortUrl"`
	LongURL       string     `json:"longUrl"`
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Clicks        int64      `json:"clicks"`
	CreatedAt     time.Time  `json:"createdAt"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	LastClickedAt *time.Time `json:"lastClickedAt,omitempty"`
}

// NewURLResponse builds a URLResponse from an entry and the public base URL.
func NewURLResponse(u *entities.URL, baseURL string) *URLResponse {
	return &URLResponse{
		ShortCode:     u.ShortCode,
		CustomAlias:   u.CustomAlias,
		ShortURL:      baseURL + "/" + u.Identifier(),
		LongURL:       u.LongURL,
		Title:         u.Title,
		Description:   u.Description,
		Clicks:        u.Clicks,
		CreatedAt:     u.CreatedAt,
		ExpiresAt:     u.ExpiresAt,
		LastClickedAt: u.LastClickedAt,
	}
}

// ListURLsResponse is the paginated listing payload.
type ListURLsResponse struct {
	URLs      []*URLResponse `json:"urls"`
	Total     int64          `json:"total"`
	Page      int            `json:"page"`
	Limit     int            `json:"limit"`
	PageCount int            `json:"pageCount"`
}

// ClickResponse is one recent click event in the stats payload.
type ClickResponse struct {
	ClickedAt time.Time `json:"clickedAt"`
	Referer   string    `json:"referer"`
	UserAgent string    `json:"userAgent"`
	Country   *string   `json:"country,omitempty"`
}

// DayCountResponse is a per-day click bucket in the stats payload.
type DayCountResponse struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

// RefererCountResponse is a clicks-per-referer bucket in the stats payload.
type RefererCountResponse struct {
	Referer string `json:"referer"`
	Count   int64  `json:"count"`
}

// URLStatsResponse is the aggregate stats payload for one entry.
type URLStatsResponse struct {
	ShortCode     string                  `json:"shortCode"`
	CustomAlias   *string                 `json:"customAlias,omitempty"`
	ShortURL      string                  `json:"shortUrl"`
	LongURL       string                  `json:"longUrl"`
	Title         *string                 `json:"title,omitempty"`
	Description   *string                 `json:"description,omitempty"`
	Clicks        int64                   `json:"clicks"`
	CreatedAt     time.Time               `json:"createdAt"`
	ExpiresAt     *time.Time              `json:"expiresAt,omitempty"`
	LastClickedAt *time.Time              `json:"lastClickedAt,omitempty"`
	IsActive      bool                    `json:"isActive"`
	Protected     bool                    `json:"protected"`
	RecentClicks  []*ClickResponse        `json:"recentClicks"`
	ClicksByDay   []*DayCountResponse     `json:"clicksByDay"`
	TopReferers   []*RefererCountResponse `json:"topReferers"`
}

// VerifyPasswordResponse is returned by a successful password check.
type VerifyPasswordResponse struct {
	Success bool `json:"success"`
}
