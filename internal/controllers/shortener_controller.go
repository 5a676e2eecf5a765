package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shortify-be/internal/apperrors"
	"shortify-be/internal/models"
	"shortify-be/internal/service"
)

type ShortenerController struct {
	urlService service.URLService
	analytics  service.AnalyticsService
}

func NewShortenerController(urlService service.URLService, analytics service.AnalyticsService) *ShortenerController {
	return &ShortenerController{
		urlService: urlService,
		analytics:  analytics,
	}
}

// respondError translates the error taxonomy into HTTP statuses. Anything
// outside the taxonomy becomes a generic 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found"})
	case errors.Is(err, apperrors.ErrExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Short URL has expired"})
	case errors.Is(err, apperrors.ErrProtected):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This short URL is password protected"})
	case errors.Is(err, apperrors.ErrNotProtected):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This short URL is not password protected"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func clickContext(c *gin.Context) *models.ClickContext {
	return &models.ClickContext{
		Referer:   c.GetHeader("Referer"),
		UserAgent: c.GetHeader("User-Agent"),
		IPAddress: c.ClientIP(),
		Country:   c.GetHeader("CF-IPCountry"),
	}
}

// CreateShortURL handles POST /api/v1/shorten
func (sc *ShortenerController) CreateShortURL(c *gin.Context) {
	var req models.CreateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	response, err := sc.urlService.CreateShortURL(&req, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// RedirectToURL handles GET /:identifier - redirects to the long URL
func (sc *ShortenerController) RedirectToURL(c *gin.Context) {
	identifier := c.Param("identifier")

	longURL, err := sc.urlService.ResolveURL(identifier, clickContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusMovedPermanently, longURL)
}

// GetOriginalURLPublic handles GET /api/v1/redirect/:identifier - returns the
// long URL as JSON instead of redirecting
func (sc *ShortenerController) GetOriginalURLPublic(c *gin.Context) {
	identifier := c.Param("identifier")

	longURL, err := sc.urlService.ResolveURL(identifier, clickContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"longUrl": longURL})
}

// GetURLStats handles GET /api/v1/url/:identifier - returns entry statistics
func (sc *ShortenerController) GetURLStats(c *gin.Context) {
	identifier := c.Param("identifier")

	stats, err := sc.analytics.GetStats(identifier)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListURLs handles GET /api/v1/urls - paginated listing of active entries
func (sc *ShortenerController) ListURLs(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	response, err := sc.urlService.ListURLs(page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func queryInt(c *gin.Context, key string, defaultValue int) int {
	if raw := c.Query(key); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			return value
		}
	}
	return defaultValue
}

// SearchURLs handles GET /api/v1/search?q= - free-text search over active entries
func (sc *ShortenerController) SearchURLs(c *gin.Context) {
	results, err := sc.urlService.SearchURLs(c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// VerifyPassword handles POST /api/v1/url/:identifier/verify - gate check only,
// no redirect and no click recording
func (sc *ShortenerController) VerifyPassword(c *gin.Context) {
	identifier := c.Param("identifier")

	var req models.VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := sc.urlService.VerifyPassword(identifier, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.VerifyPasswordResponse{Success: true})
}

// DeleteURL handles DELETE /api/v1/url/:identifier - soft delete
func (sc *ShortenerController) DeleteURL(c *gin.Context) {
	identifier := c.Param("identifier")

	if err := sc.urlService.DeleteURL(identifier); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "URL deleted successfully"})
}
