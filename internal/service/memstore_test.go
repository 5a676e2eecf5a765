package service

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"shortify-be/internal/apperrors"
	"shortify-be/internal/entities"
	"shortify-be/internal/models"
)

// memURLRepo is an in-memory URLRepository used behind service tests.
type memURLRepo struct {
	mu          sync.Mutex
	entries     []*entities.URL
	nextID      int64
	existsCalls int
	alwaysTaken bool
}

func newMemURLRepo() *memURLRepo {
	return &memURLRepo{}
}

func matches(e *entities.URL, identifier string) bool {
	if e.ShortCode == identifier {
		return true
	}
	return e.CustomAlias != nil && *e.CustomAlias == identifier
}

func (r *memURLRepo) Create(u *entities.URL) (*entities.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if matches(e, u.ShortCode) {
			return nil, apperrors.Conflictf("identifier %q", u.ShortCode)
		}
	}

	r.nextID++
	clone := *u
	clone.ID = r.nextID
	clone.CreatedAt = time.Unix(1_700_000_000+r.nextID, 0).UTC()
	clone.IsActive = true
	r.entries = append(r.entries, &clone)

	snapshot := clone
	return &snapshot, nil
}

func (r *memURLRepo) FindActiveByIdentifier(identifier string) (*entities.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if matches(e, identifier) && e.IsActive {
			snapshot := *e
			return &snapshot, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memURLRepo) FindByIdentifier(identifier string) (*entities.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if matches(e, identifier) {
			snapshot := *e
			return &snapshot, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memURLRepo) IdentifierExists(identifier string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.existsCalls++
	if r.alwaysTaken {
		return true, nil
	}
	for _, e := range r.entries {
		if matches(e, identifier) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memURLRepo) FindPermanentByLongURL(longURL string) (*entities.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.LongURL == longURL && e.ExpiresAt == nil {
			snapshot := *e
			return &snapshot, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memURLRepo) List(page, limit int) ([]*entities.URL, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var active []*entities.URL
	for _, e := range r.entries {
		if e.IsActive {
			snapshot := *e
			active = append(active, &snapshot)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})

	total := int64(len(active))
	start := (page - 1) * limit
	if start >= len(active) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(active) {
		end = len(active)
	}
	return active[start:end], total, nil
}

func (r *memURLRepo) Search(query string, limit int) ([]*entities.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := strings.ToLower(query)
	contains := func(s *string) bool {
		return s != nil && strings.Contains(strings.ToLower(*s), q)
	}

	var found []*entities.URL
	for _, e := range r.entries {
		if !e.IsActive {
			continue
		}
		if strings.Contains(strings.ToLower(e.LongURL), q) || contains(e.Title) || contains(e.Description) {
			snapshot := *e
			found = append(found, &snapshot)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].Clicks > found[j].Clicks
	})
	if len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func (r *memURLRepo) Deactivate(identifier string) (*entities.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if matches(e, identifier) && e.IsActive {
			e.IsActive = false
			snapshot := *e
			return &snapshot, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memURLRepo) DeactivateExpired(now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	for _, e := range r.entries {
		if e.IsActive && e.ExpiresAt != nil && !e.ExpiresAt.After(now) {
			e.IsActive = false
			affected++
		}
	}
	return affected, nil
}

func (r *memURLRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *memURLRepo) setClicks(identifier string, clicks int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if matches(e, identifier) {
			e.Clicks = clicks
		}
	}
}

// fakeAnalytics captures Record calls made by the resolver.
type fakeAnalytics struct {
	mu         sync.Mutex
	recorded   []string
	failRecord bool
}

func (f *fakeAnalytics) Record(shortCode string, click *models.ClickContext) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failRecord {
		return errors.New("analytics store down")
	}
	f.recorded = append(f.recorded, shortCode)
	return nil
}

func (f *fakeAnalytics) GetStats(identifier string) (*models.URLStatsResponse, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeAnalytics) recordedCodes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.recorded...)
}
