package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"newscheck/internal/cache"
	"newscheck/internal/repository"
)

type AdminHandler interface {
	Stats(c *gin.Context)
	ClearCache(c *gin.Context)
	Backfill(c *gin.Context)
}

type adminHandler struct {
	predictions repository.PredictionRepository
	users       repository.AuthRepository
	cache       *cache.Cache
	logger      *zap.Logger
}

func NewAdminHandler(predictions repository.PredictionRepository, users repository.AuthRepository, cache *cache.Cache, logger *zap.Logger) AdminHandler {
	return &adminHandler{
		predictions: predictions,
		users:       users,
		cache:       cache,
		logger:      logger,
	}
}

// Stats reports raw operational counters, bypassing the response caches.
func (h *adminHandler) Stats(c *gin.Context) {
	totalPredictions, err := h.predictions.CountAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to count predictions", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "Failed to load admin stats")
		return
	}

	totalUsers, err := h.users.CountUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to count users", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "Failed to load admin stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"total_predictions": totalPredictions,
		"total_users":       totalUsers,
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *adminHandler) ClearCache(c *gin.Context) {
	h.cache.InvalidateAll()
	h.logger.Info("Caches cleared by admin", zap.String("username", c.GetString("username")))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All caches cleared",
	})
}

// Backfill fills missing card metadata on old records in place.
func (h *adminHandler) Backfill(c *gin.Context) {
	updated, err := h.predictions.BackfillDefaults(c.Request.Context())
	if err != nil {
		h.logger.Error("Backfill failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "Backfill failed")
		return
	}

	h.cache.InvalidateAll()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"updated": updated,
	})
}
