package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"newscheck/internal/service"
)

type PredictHandler interface {
	Predict(c *gin.Context)
	PredictBatch(c *gin.Context)
}

type predictHandler struct {
	svc    service.PredictionService
	logger *zap.Logger
}

func NewPredictHandler(svc service.PredictionService, logger *zap.Logger) PredictHandler {
	return &predictHandler{svc: svc, logger: logger}
}

type PredictRequest struct {
	Text     string `json:"text" binding:"required"`
	Source   string `json:"source"`
	Category string `json:"category"`
}

type BatchPredictRequest struct {
	Articles []struct {
		Text string `json:"text"`
	} `json:"articles" binding:"required"`
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrTextRequired) ||
		errors.Is(err, service.ErrTextTooShort) ||
		errors.Is(err, service.ErrTextTooLong)
}

// Predict handles POST /api/predict.
func (h *predictHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Missing required fields: text")
		return
	}

	out, err := h.svc.Predict(c.Request.Context(), service.PredictInput{
		Text:      req.Text,
		Source:    req.Source,
		Category:  req.Category,
		Username:  c.GetString("username"),
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		if isValidationError(err) {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Prediction failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "Prediction failed")
		return
	}

	if out.Cached {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"card":    out.Card,
			"prediction": gin.H{
				"result":        out.Label,
				"confidence":    out.Confidence,
				"model_version": out.ModelVersion,
			},
			"cached": true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"card":    out.Card,
		"saved":   out.Saved,
		"prediction": gin.H{
			"result":          out.Label,
			"confidence":      out.Confidence,
			"probabilities":   out.Probabilities,
			"processing_time": out.ProcessingTime,
			"model_version":   out.ModelVersion,
		},
		"metadata": gin.H{
			"language":        out.Language,
			"entities":        out.Entities,
			"tags":            out.Tags,
			"word_count":      out.WordCount,
			"character_count": out.CharacterCount,
		},
	})
}

// PredictBatch handles POST /api/predict/batch.
func (h *predictHandler) PredictBatch(c *gin.Context) {
	var req BatchPredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Missing required fields: articles")
		return
	}

	items := make([]service.BatchItem, len(req.Articles))
	for i, a := range req.Articles {
		items[i] = service.BatchItem{Text: a.Text}
	}

	results, err := h.svc.PredictBatch(c.Request.Context(), items)
	if err != nil {
		if errors.Is(err, service.ErrBatchTooBig) {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Batch prediction failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "Batch prediction failed")
		return
	}

	successful := 0
	for _, r := range results {
		if r.Success {
			successful++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"results":         results,
		"total_processed": len(results),
		"successful":      successful,
		"failed":          len(results) - successful,
	})
}
