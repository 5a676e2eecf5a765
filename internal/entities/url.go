package entities

import "time"

// URL represents a shortening mapping in the database.
// When a custom alias is supplied at creation time it is stored both as the
// row's short code and in CustomAlias, so the UNIQUE constraint on short_code
// covers the whole identifier namespace.
type URL struct {
	ID            int64      `json:"id"`
	LongURL       string     `json:"long_url"`
	ShortCode     string     `json:"short_code"`
	CustomAlias   *string    `json:"custom_alias,omitempty"`
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"` // Pointer allows nil (never expires)
	Clicks        int64      `json:"clicks"`
	LastClickedAt *time.Time `json:"last_clicked_at,omitempty"`
	CreatorIP     *string    `json:"-"`
	IsActive      bool       `json:"is_active"`
	PasswordHash  *string    `json:"-"` // Don't expose the credential in JSON
}

// Identifier returns the public identifier of the entry: the custom alias if
// one was chosen, otherwise the generated short code.
func (u *URL) Identifier() string {
	if u.CustomAlias != nil && *u.CustomAlias != "" {
		return *u.CustomAlias
	}
	return u.ShortCode
}

// Expired reports whether the entry's expiration has passed at the given time.
func (u *URL) Expired(now time.Time) bool {
	return u.ExpiresAt != nil && !u.ExpiresAt.After(now)
}

// Protected reports whether redirects require a password.
func (u *URL) Protected() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
