package service

import (
	"time"

	"go.uber.org/zap"

	"shortify-be/internal/entities"
	"shortify-be/internal/models"
	"shortify-be/internal/repository"
)

// Sentinel values recorded when request metadata is absent.
const (
	refererDirect = "Direct"
	valueUnknown  = "Unknown"
)

const (
	recentClickLimit = 10
	statsDays        = 30
	topRefererLimit  = 5
)

// AnalyticsService records click events and aggregates entry statistics.
type AnalyticsService interface {
	Record(shortCode string, click *models.ClickContext) error
	GetStats(identifier string) (*models.URLStatsResponse, error)
}

type analyticsService struct {
	urls      repository.URLRepository
	analytics repository.AnalyticsRepository
	log       *zap.Logger
	baseURL   string
	now       func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(
	urls repository.URLRepository,
	analytics repository.AnalyticsRepository,
	log *zap.Logger,
	baseURL string,
) AnalyticsService {
	return &analyticsService{
		urls:      urls,
		analytics: analytics,
		log:       log,
		baseURL:   baseURL,
		now:       time.Now,
	}
}

// Record appends one click event for the resolved short code and bumps the
// owning entry's counters. The caller decides whether a failure matters; the
// redirect path swallows it.
func (s *analyticsService) Record(shortCode string, click *models.ClickContext) error {
	clickedAt := s.now().UTC()

	event := &entities.ClickEvent{
		ShortCode: shortCode,
		ClickedAt: clickedAt,
		Referer:   orDefault(click.Referer, refererDirect),
		UserAgent: orDefault(click.UserAgent, valueUnknown),
		IPAddress: orDefault(click.IPAddress, valueUnknown),
	}
	if click.Country != "" {
		country := click.Country
		event.Country = &country
	}

	if err := s.analytics.InsertClick(event); err != nil {
		return err
	}

	return s.analytics.IncrementClicks(shortCode, clickedAt)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// GetStats aggregates entry metadata, the most recent clicks, per-day counts
// for the trailing 30 days and the top referers. Inactive entries stay
// reportable for historical analysis.
func (s *analyticsService) GetStats(identifier string) (*models.URLStatsResponse, error) {
	u, err := s.urls.FindByIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	recent, err := s.analytics.RecentClicks(u.ShortCode, recentClickLimit)
	if err != nil {
		return nil, err
	}

	byDay, err := s.analytics.ClicksByDay(u.ShortCode, statsDays)
	if err != nil {
		return nil, err
	}

	referers, err := s.analytics.TopReferers(u.ShortCode, topRefererLimit)
	if err != nil {
		return nil, err
	}

	stats := &models.URLStatsResponse{
		ShortCode:     u.ShortCode,
		CustomAlias:   u.CustomAlias,
		ShortURL:      s.baseURL + "/" + u.Identifier(),
		LongURL:       u.LongURL,
		Title:         u.Title,
		Description:   u.Description,
		Clicks:        u.Clicks,
		CreatedAt:     u.CreatedAt,
		ExpiresAt:     u.ExpiresAt,
		LastClickedAt: u.LastClickedAt,
		IsActive:      u.IsActive,
		Protected:     u.Protected(),
		RecentClicks:  make([]*models.ClickResponse, 0, len(recent)),
		ClicksByDay:   make([]*models.DayCountResponse, 0, len(byDay)),
		TopReferers:   make([]*models.RefererCountResponse, 0, len(referers)),
	}

	for _, c := range recent {
		stats.RecentClicks = append(stats.RecentClicks, &models.ClickResponse{
			ClickedAt: c.ClickedAt,
			Referer:   c.Referer,
			UserAgent: c.UserAgent,
			Country:   c.Country,
		})
	}
	for _, b := range byDay {
		stats.ClicksByDay = append(stats.ClicksByDay, &models.DayCountResponse{
			Date:  b.Day.Format("2006-01-02"),
			Count: b.Count,
		})
	}
	for _, rc := range referers {
		stats.TopReferers = append(stats.TopReferers, &models.RefererCountResponse{
			Referer: rc.Referer,
			Count:   rc.Count,
		})
	}

	return stats, nil
}
