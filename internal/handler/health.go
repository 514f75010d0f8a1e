package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"newscheck/internal/classifier"
)

type HealthHandler interface {
	Health(c *gin.Context)
	ModelInfo(c *gin.Context)
}

type healthHandler struct {
	db    *sqlx.DB
	model *classifier.Model
}

func NewHealthHandler(db *sqlx.DB, model *classifier.Model) HealthHandler {
	return &healthHandler{db: db, model: model}
}

func (h *healthHandler) Health(c *gin.Context) {
	components := gin.H{
		"model": "loaded",
		"cache": "active",
	}
	status := "healthy"
	code := http.StatusOK

	if err := h.db.PingContext(c.Request.Context()); err != nil {
		components["database"] = "unreachable"
		status = "degraded"
		code = http.StatusServiceUnavailable
	} else {
		components["database"] = "connected"
	}

	c.JSON(code, gin.H{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *healthHandler) ModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"model_version": h.model.Version(),
		"model_type":    "tfidf-linear",
		"classes":       h.model.Classes(),
		"features": gin.H{
			"text_cleaning":      true,
			"entity_extraction":  true,
			"language_detection": true,
			"tag_generation":     true,
		},
	})
}
