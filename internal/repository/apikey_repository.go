package repository

import (
	"database/sql"
	"fmt"

	"shortify-be/internal/apperrors"
	"shortify-be/internal/entities"
)

// APIKeyRepository defines the database operations for API keys. Keys are
// bookkeeping only; no endpoint requires one.
type APIKeyRepository interface {
	Create(apiKey, name string) (*entities.APIKey, error)
	FindActive(apiKey string) (*entities.APIKey, error)
	TouchUsage(apiKey string) error
}

type apiKeyRepository struct {
	db *sql.DB
}

// NewAPIKeyRepository creates a new API key repository.
func NewAPIKeyRepository(db *sql.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

// Create inserts a new API key.
func (r *apiKeyRepository) Create(apiKey, name string) (*entities.APIKey, error) {
	query := `
		INSERT INTO api_keys (api_key, name)
		VALUES ($1, $2)
		RETURNING id, api_key, name, is_active, usage_count, created_at, last_used_at
	`

	var k entities.APIKey
	err := r.db.QueryRow(query, apiKey, name).Scan(
		&k.ID, &k.APIKey, &k.Name, &k.IsActive, &k.UsageCount, &k.CreatedAt, &k.LastUsedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create API key: %w", err)
	}

	return &k, nil
}

// FindActive returns the active key matching the given value.
func (r *apiKeyRepository) FindActive(apiKey string) (*entities.APIKey, error) {
	query := `
		SELECT id, api_key, name, is_active, usage_count, created_at, last_used_at
		FROM api_keys
		WHERE api_key = $1 AND is_active
	`

	var k entities.APIKey
	err := r.db.QueryRow(query, apiKey).Scan(
		&k.ID, &k.APIKey, &k.Name, &k.IsActive, &k.UsageCount, &k.CreatedAt, &k.LastUsedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find API key: %w", err)
	}

	return &k, nil
}

// TouchUsage increments a key's usage counter and stamps its last use.
func (r *apiKeyRepository) TouchUsage(apiKey string) error {
	_, err := r.db.Exec(`
		UPDATE api_keys
		SET usage_count = usage_count + 1, last_used_at = (NOW() AT TIME ZONE 'UTC')
		WHERE api_key = $1
	`, apiKey)
	if err != nil {
		return fmt.Errorf("failed to update API key usage: %w", err)
	}
	return nil
}
