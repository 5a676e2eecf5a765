package entities

import "time"

// ClickEvent represents one recorded redirect for a URL entry. ShortCode always
// references the resolved short code, never the alias.
type ClickEvent struct {
	ID        int64     `json:"id"`
	ShortCode string    `json:"short_code"`
	ClickedAt time.Time `json:"clicked_at"`
	Referer   string    `json:"referer"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	Country   *string   `json:"country,omitempty"`
}

// DayCount is a per-day click bucket used by the stats aggregation.
type DayCount struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

// RefererCount is a clicks-per-referer bucket used by the stats aggregation.
type RefererCount struct {
	Referer string `json:"referer"`
	Count   int64  `json:"count"`
}
