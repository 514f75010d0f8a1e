package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// errorResponse writes the standard error envelope used by every API
// route.
func errorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().Format(time.RFC3339),
		"code":      code,
	})
}

// Pagination describes the page window of a listing response.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalCount int  `json:"total_count"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

func newPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		TotalCount: total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

// parsePage returns the page query parameter clamped to >= 1.
func parsePage(c *gin.Context) int {
	page := intQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	return page
}

// parseLimit returns the limit query parameter, reset to def when
// outside [1, max]. Out-of-range values are not an error.
func parseLimit(c *gin.Context, def, max int) int {
	limit := intQuery(c, "limit", def)
	if limit < 1 || limit > max {
		limit = def
	}
	return limit
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
