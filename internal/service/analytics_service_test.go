package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shortify-be/internal/apperrors"
	"shortify-be/internal/entities"
	"shortify-be/internal/models"
)

// fakeAnalyticsRepo captures writes and serves canned aggregates.
type fakeAnalyticsRepo struct {
	inserted    []*entities.ClickEvent
	incremented []string
	recent      []*entities.ClickEvent
	byDay       []*entities.DayCount
	referers    []*entities.RefererCount
}

func (f *fakeAnalyticsRepo) InsertClick(click *entities.ClickEvent) error {
	f.inserted = append(f.inserted, click)
	return nil
}

func (f *fakeAnalyticsRepo) IncrementClicks(shortCode string, clickedAt time.Time) error {
	f.incremented = append(f.incremented, shortCode)
	return nil
}

func (f *fakeAnalyticsRepo) RecentClicks(shortCode string, limit int) ([]*entities.ClickEvent, error) {
	return f.recent, nil
}

func (f *fakeAnalyticsRepo) ClicksByDay(shortCode string, days int) ([]*entities.DayCount, error) {
	return f.byDay, nil
}

func (f *fakeAnalyticsRepo) TopReferers(shortCode string, limit int) ([]*entities.RefererCount, error) {
	return f.referers, nil
}

func TestRecordAppliesDefaults(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	svc := NewAnalyticsService(newMemURLRepo(), repo, zap.NewNop(), testBaseURL)

	err := svc.Record("abc123", &models.ClickContext{})
	require.NoError(t, err)

	require.Len(t, repo.inserted, 1)
	event := repo.inserted[0]
	assert.Equal(t, "abc123", event.ShortCode)
	assert.Equal(t, "Direct", event.Referer)
	assert.Equal(t, "Unknown", event.UserAgent)
	assert.Equal(t, "Unknown", event.IPAddress)
	assert.Nil(t, event.Country)
	assert.Equal(t, []string{"abc123"}, repo.incremented)
}

func TestRecordKeepsMetadata(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	svc := NewAnalyticsService(newMemURLRepo(), repo, zap.NewNop(), testBaseURL)

	err := svc.Record("abc123", &models.ClickContext{
		Referer:   "https://news.example",
		UserAgent: "Mozilla/5.0",
		IPAddress: "10.0.0.1",
		Country:   "DE",
	})
	require.NoError(t, err)

	require.Len(t, repo.inserted, 1)
	event := repo.inserted[0]
	assert.Equal(t, "https://news.example", event.Referer)
	assert.Equal(t, "Mozilla/5.0", event.UserAgent)
	assert.Equal(t, "10.0.0.1", event.IPAddress)
	require.NotNil(t, event.Country)
	assert.Equal(t, "DE", *event.Country)
}

func TestGetStats(t *testing.T) {
	urls := newMemURLRepo()
	created, err := urls.Create(&entities.URL{
		LongURL:   "https://example.com",
		ShortCode: "abc123",
	})
	require.NoError(t, err)

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	repo := &fakeAnalyticsRepo{
		recent: []*entities.ClickEvent{
			{ShortCode: "abc123", ClickedAt: day, Referer: "Direct", UserAgent: "Unknown", IPAddress: "Unknown"},
		},
		byDay:    []*entities.DayCount{{Day: day, Count: 5}},
		referers: []*entities.RefererCount{{Referer: "Direct", Count: 5}},
	}
	svc := NewAnalyticsService(urls, repo, zap.NewNop(), testBaseURL)

	stats, err := svc.GetStats("abc123")
	require.NoError(t, err)

	assert.Equal(t, "abc123", stats.ShortCode)
	assert.Equal(t, testBaseURL+"/abc123", stats.ShortURL)
	assert.Equal(t, created.CreatedAt, stats.CreatedAt)
	assert.True(t, stats.IsActive)
	assert.False(t, stats.Protected)
	require.Len(t, stats.RecentClicks, 1)
	require.Len(t, stats.ClicksByDay, 1)
	assert.Equal(t, "2026-08-30", stats.ClicksByDay[0].Date)
	assert.Equal(t, int64(5), stats.ClicksByDay[0].Count)
	require.Len(t, stats.TopReferers, 1)
	assert.Equal(t, "Direct", stats.TopReferers[0].Referer)
}

func TestGetStatsIncludesInactiveEntries(t *testing.T) {
	urls := newMemURLRepo()
	_, err := urls.Create(&entities.URL{LongURL: "https://example.com", ShortCode: "abc123"})
	require.NoError(t, err)
	_, err = urls.Deactivate("abc123")
	require.NoError(t, err)

	svc := NewAnalyticsService(urls, &fakeAnalyticsRepo{}, zap.NewNop(), testBaseURL)

	stats, err := svc.GetStats("abc123")
	require.NoError(t, err)
	assert.False(t, stats.IsActive)
}

func TestGetStatsNotFound(t *testing.T) {
	svc := NewAnalyticsService(newMemURLRepo(), &fakeAnalyticsRepo{}, zap.NewNop(), testBaseURL)

	_, err := svc.GetStats("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
