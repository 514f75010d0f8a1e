package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"newscheck/internal/card"
	"newscheck/internal/repository"
)

const (
	historyDefaultLimit = 10
	historyMaxLimit     = 50
)

type HistoryHandler interface {
	GetHistory(c *gin.Context)
	ClearHistory(c *gin.Context)
}

type historyHandler struct {
	repo      repository.PredictionRepository
	projector *card.Projector
	logger    *zap.Logger
}

func NewHistoryHandler(repo repository.PredictionRepository, projector *card.Projector, logger *zap.Logger) HistoryHandler {
	return &historyHandler{repo: repo, projector: projector, logger: logger}
}

// GetHistory handles GET /api/history: the authenticated user's own
// predictions, newest first, with per-user statistics.
func (h *historyHandler) GetHistory(c *gin.Context) {
	username := c.MustGet("username").(string)

	opts := repository.ListOptions{
		Page:     parsePage(c),
		Limit:    parseLimit(c, historyDefaultLimit, historyMaxLimit),
		Username: username,
	}

	recs, total, err := h.repo.List(c.Request.Context(), opts)
	if err != nil {
		h.logger.Error("Failed to list history", zap.Error(err), zap.String("username", username))
		errorResponse(c, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}

	stats, err := h.repo.UserStats(c.Request.Context(), username)
	if err != nil {
		h.logger.Error("Failed to compute user stats", zap.Error(err), zap.String("username", username))
		errorResponse(c, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}

	cards := make([]card.Card, 0, len(recs))
	for _, rec := range recs {
		cards = append(cards, h.projector.Project(rec))
	}

	c.JSON(http.StatusOK, gin.H{
		"cards":      cards,
		"stats":      stats,
		"pagination": newPagination(opts.Page, opts.Limit, total),
	})
}

// ClearHistory handles POST /api/history/clear: bulk delete of the
// authenticated user's own records. The only delete path in the system.
func (h *historyHandler) ClearHistory(c *gin.Context) {
	username := c.MustGet("username").(string)

	deleted, err := h.repo.DeleteByUsername(c.Request.Context(), username)
	if err != nil {
		h.logger.Error("Failed to clear history", zap.Error(err), zap.String("username", username))
		errorResponse(c, http.StatusInternalServerError, "Failed to clear history")
		return
	}

	h.logger.Info("History cleared", zap.String("username", username), zap.Int64("deleted", deleted))
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}
