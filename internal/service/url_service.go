package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shortify-be/internal/apperrors"
	"shortify-be/internal/cache"
	"shortify-be/internal/entities"
	"shortify-be/internal/models"
	"shortify-be/internal/repository"
	"shortify-be/internal/shortcode"
)

const (
	cacheTTL      = time.Hour
	defaultLimit  = 20
	searchResults = 20
)

// URLService defines the URL shortening business logic.
type URLService interface {
	CreateShortURL(req *models.CreateURLRequest, creatorIP string) (*models.CreateURLResponse, error)
	ResolveURL(identifier string, click *models.ClickContext) (string, error)
	VerifyPassword(identifier, password string) error
	ListURLs(page, limit int) (*models.ListURLsResponse, error)
	SearchURLs(query string) ([]*models.URLResponse, error)
	DeleteURL(identifier string) error
}

type urlService struct {
	repo        repository.URLRepository
	analytics   AnalyticsService
	cache       cache.Cache
	log         *zap.Logger
	baseURL     string
	codeLength  int
	maxAttempts int
	ctx         context.Context
	now         func() time.Time
}

// cachedEntry is the resolved view of an entry kept in the cache. The live
// expiry and protection checks still run against it on every hit.
type cachedEntry struct {
	ShortCode string     `json:"short_code"`
	LongURL   string     `json:"long_url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Protected bool       `json:"protected"`
}

// NewURLService creates a new URL service. cacheClient may be nil for
// graceful degradation without Redis.
func NewURLService(
	repo repository.URLRepository,
	analytics AnalyticsService,
	cacheClient cache.Cache,
	log *zap.Logger,
	baseURL string,
	codeLength, maxAttempts int,
) URLService {
	return &urlService{
		repo:        repo,
		analytics:   analytics,
		cache:       cacheClient,
		log:         log,
		baseURL:     baseURL,
		codeLength:  codeLength,
		maxAttempts: maxAttempts,
		ctx:         context.Background(),
		now:         time.Now,
	}
}

// CreateShortURL validates the request, resolves alias or generated code
// collisions and persists a new entry. Creating the same plain long URL twice
// (no alias, no expiration) returns the existing mapping instead.
func (s *urlService) CreateShortURL(req *models.CreateURLRequest, creatorIP string) (*models.CreateURLResponse, error) {
	longURL := strings.TrimSpace(req.LongURL)
	if longURL == "" || !shortcode.IsValidURL(longURL) {
		return nil, apperrors.Validationf("longUrl must be an absolute http or https URL")
	}

	if req.ExpiresIn != nil && *req.ExpiresIn <= 0 {
		return nil, apperrors.Validationf("expiresIn must be a positive number of seconds")
	}

	var alias string
	if req.CustomAlias != nil {
		alias = strings.TrimSpace(*req.CustomAlias)
	}
	if alias != "" {
		if !shortcode.IsValidAlias(alias) {
			return nil, apperrors.Validationf("customAlias must be 3-20 letters, digits, hyphens or underscores")
		}
		taken, err := s.repo.IdentifierExists(alias)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflictf("alias %q is already taken", alias)
		}
	}

	// Idempotent-by-URL short circuit: a permanent anonymous mapping for the
	// same long URL is returned as-is. Never applies when an alias or an
	// expiration was requested.
	if alias == "" && req.ExpiresIn == nil {
		existing, err := s.repo.FindPermanentByLongURL(longURL)
		if err == nil {
			return s.createResponse(existing), nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	code := alias
	if code == "" {
		generated, err := s.allocateCode()
		if err != nil {
			return nil, err
		}
		code = generated
	}

	entry := &entities.URL{
		LongURL:     longURL,
		ShortCode:   code,
		Title:       req.Title,
		Description: req.Description,
	}
	if alias != "" {
		entry.CustomAlias = &alias
	}
	if req.ExpiresIn != nil {
		expiresAt := s.now().Add(time.Duration(*req.ExpiresIn) * time.Second).UTC()
		entry.ExpiresAt = &expiresAt
	}
	if creatorIP != "" {
		entry.CreatorIP = &creatorIP
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hash := string(hashed)
		entry.PasswordHash = &hash
	}

	created, err := s.repo.Create(entry)
	if err != nil {
		// A losing insert race surfaces here as a conflict error
		return nil, err
	}

	s.cacheEntry(created)

	return s.createResponse(created), nil
}

// allocateCode generates a candidate code and checks it against the store,
// retrying a bounded number of times. When every attempt collides the final
// duplicate-check failure is returned as a conflict error.
func (s *urlService) allocateCode() (string, error) {
	var code string
	backoff := retry.WithMaxRetries(uint64(s.maxAttempts-1), retry.NewConstant(time.Millisecond))

	err := retry.Do(s.ctx, backoff, func(ctx context.Context) error {
		candidate, err := shortcode.Generate(s.codeLength)
		if err != nil {
			return err
		}
		taken, err := s.repo.IdentifierExists(candidate)
		if err != nil {
			return err
		}
		if taken {
			return retry.RetryableError(apperrors.Conflictf("generated code %q collided", candidate))
		}
		code = candidate
		return nil
	})
	if err != nil {
		return "", err
	}

	return code, nil
}

func (s *urlService) createResponse(u *entities.URL) *models.CreateURLResponse {
	return &models.CreateURLResponse{
		ShortURL:  s.baseURL + "/" + u.Identifier(),
		ShortCode: u.ShortCode,
		ExpiresAt: u.ExpiresAt,
		Protected: u.Protected(),
	}
}

// ResolveURL returns the long URL for an identifier, applying the priority
// chain existence -> expiry -> protection -> record. Analytics recording is
// best-effort: its failures are logged and never block the redirect.
func (s *urlService) ResolveURL(identifier string, click *models.ClickContext) (string, error) {
	if entry, ok := s.cachedLookup(identifier); ok {
		if entry.ExpiresAt != nil && !entry.ExpiresAt.After(s.now()) {
			s.invalidate(identifier)
			return "", apperrors.ErrExpired
		}
		if entry.Protected {
			return "", apperrors.ErrProtected
		}
		s.record(entry.ShortCode, click)
		return entry.LongURL, nil
	}

	u, err := s.repo.FindActiveByIdentifier(identifier)
	if err != nil {
		return "", err
	}
	if u.Expired(s.now()) {
		return "", apperrors.ErrExpired
	}
	if u.Protected() {
		return "", apperrors.ErrProtected
	}

	s.cacheEntry(u)
	s.record(u.ShortCode, click)

	return u.LongURL, nil
}

func (s *urlService) record(shortCode string, click *models.ClickContext) {
	if click == nil {
		click = &models.ClickContext{}
	}
	if err := s.analytics.Record(shortCode, click); err != nil {
		s.log.Warn("failed to record click",
			zap.String("short_code", shortCode),
			zap.Error(err),
		)
	}
}

// VerifyPassword checks a candidate password against an active entry's stored
// credential. It performs no redirect and records no click.
func (s *urlService) VerifyPassword(identifier, password string) error {
	u, err := s.repo.FindActiveByIdentifier(identifier)
	if err != nil {
		return err
	}
	if !u.Protected() {
		return apperrors.ErrNotProtected
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)); err != nil {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// ListURLs returns one page of active entries, newest first.
func (s *urlService) ListURLs(page, limit int) (*models.ListURLsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}

	urls, total, err := s.repo.List(page, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.URLResponse, 0, len(urls))
	for _, u := range urls {
		responses = append(responses, models.NewURLResponse(u, s.baseURL))
	}

	pageCount := int((total + int64(limit) - 1) / int64(limit))

	return &models.ListURLsResponse{
		URLs:      responses,
		Total:     total,
		Page:      page,
		Limit:     limit,
		PageCount: pageCount,
	}, nil
}

// SearchURLs returns active entries matching the query, ranked by clicks.
func (s *urlService) SearchURLs(query string) ([]*models.URLResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.Validationf("search query is required")
	}

	urls, err := s.repo.Search(query, searchResults)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.URLResponse, 0, len(urls))
	for _, u := range urls {
		responses = append(responses, models.NewURLResponse(u, s.baseURL))
	}

	return responses, nil
}

// DeleteURL soft-deletes the entry matching the identifier. An already
// inactive entry is invisible to this lookup and reports not-found.
func (s *urlService) DeleteURL(identifier string) error {
	u, err := s.repo.Deactivate(identifier)
	if err != nil {
		return err
	}

	identifiers := []string{u.ShortCode}
	if u.CustomAlias != nil && *u.CustomAlias != "" && *u.CustomAlias != u.ShortCode {
		identifiers = append(identifiers, *u.CustomAlias)
	}
	s.invalidate(identifiers...)

	return nil
}

func (s *urlService) cachedLookup(identifier string) (*cachedEntry, bool) {
	if s.cache == nil {
		return nil, false
	}
	var entry cachedEntry
	if err := s.cache.GetJSON(s.ctx, "url:"+identifier, &entry); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("cache lookup failed", zap.String("identifier", identifier), zap.Error(err))
		}
		return nil, false
	}
	return &entry, true
}

func (s *urlService) cacheEntry(u *entities.URL) {
	if s.cache == nil {
		return
	}
	entry := cachedEntry{
		ShortCode: u.ShortCode,
		LongURL:   u.LongURL,
		ExpiresAt: u.ExpiresAt,
		Protected: u.Protected(),
	}
	if err := s.cache.SetJSON(s.ctx, "url:"+u.Identifier(), entry, cacheTTL); err != nil {
		s.log.Warn("cache write failed", zap.String("identifier", u.Identifier()), zap.Error(err))
	}
}

func (s *urlService) invalidate(identifiers ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(identifiers))
	for _, id := range identifiers {
		keys = append(keys, "url:"+id)
	}
	if err := s.cache.Delete(s.ctx, keys...); err != nil {
		s.log.Warn("cache invalidation failed", zap.Error(err))
	}
}
