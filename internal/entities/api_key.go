package entities

import "time"

// APIKey represents an issued API key. Keys are tracked when presented but no
// endpoint requires one.
type APIKey struct {
	ID         int64      `json:"id"`
	APIKey     string     `json:"-"`
	Name       string     `json:"name"`
	IsActive   bool       `json:"is_active"`
	UsageCount int64      `json:"usage_count"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}
