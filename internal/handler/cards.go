package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"newscheck/internal/cache"
	"newscheck/internal/card"
	"newscheck/internal/repository"
	"newscheck/internal/service"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type CardsHandler interface {
	GetCards(c *gin.Context)
	GetCardByID(c *gin.Context)
	SearchCards(c *gin.Context)
	GetStats(c *gin.Context)
}

type cardsHandler struct {
	repo      repository.PredictionRepository
	projector *card.Projector
	cache     *cache.Cache
	logger    *zap.Logger
}

func NewCardsHandler(repo repository.PredictionRepository, projector *card.Projector, c *cache.Cache, logger *zap.Logger) CardsHandler {
	return &cardsHandler{repo: repo, projector: projector, cache: c, logger: logger}
}

// GetCards handles GET /api/cards with pagination, search, label filter
// and sorting. The default first page is served through the short-TTL
// recent-listing cache.
func (h *cardsHandler) GetCards(c *gin.Context) {
	opts := repository.ListOptions{
		Page:      parsePage(c),
		Limit:     parseLimit(c, defaultPageLimit, maxPageLimit),
		Search:    c.Query("search"),
		Filter:    strings.ToUpper(c.Query("filter")),
		SortBy:    c.DefaultQuery("sort", "timestamp"),
		SortOrder: c.DefaultQuery("order", "desc"),
	}

	build := func() (interface{}, error) {
		recs, total, err := h.repo.List(c.Request.Context(), opts)
		if err != nil {
			return nil, err
		}
		cards := make([]card.Card, 0, len(recs))
		for _, rec := range recs {
			cards = append(cards, h.projector.Project(rec))
		}
		return gin.H{
			"cards":      cards,
			"pagination": newPagination(opts.Page, opts.Limit, total),
			"filters": gin.H{
				"search":     opts.Search,
				"prediction": opts.Filter,
				"sort_by":    opts.SortBy,
				"sort_order": opts.SortOrder,
			},
		}, nil
	}

	var result interface{}
	var err error
	if isDefaultListing(opts) {
		result, err = h.cache.GetOrCompute(service.CacheRecent, build)
	} else {
		result, err = build()
	}
	if err != nil {
		h.logger.Error("Failed to list cards", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "Failed to retrieve cards")
		return
	}

	c.JSON(http.StatusOK, result)
}

func isDefaultListing(opts repository.ListOptions) bool {
	return opts.Page == 1 && opts.Limit == defaultPageLimit &&
		opts.Search == "" && opts.Filter == "" &&
		opts.SortBy == "timestamp" && opts.SortOrder == "desc"
}

// GetCardByID handles GET /api/cards/:id. The modal view gets the full
// content plus an analysis block on top of the card fields.
func (h *cardsHandler) GetCardByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid card ID")
		return
	}

	rec, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get card", zap.Error(err), zap.String("id", id.String()))
		errorResponse(c, http.StatusInternalServerError, "Failed to retrieve card")
		return
	}
	if rec == nil {
		errorResponse(c, http.StatusNotFound, "Card not found")
		return
	}

	projected := h.projector.Project(rec)

	c.JSON(http.StatusOK, gin.H{
		"card":         projected,
		"full_content": rec.News,
		"analysis": gin.H{
			"prediction":    projected.Prediction,
			"confidence":    projected.Confidence,
			"model_version": projected.ModelVersion,
			"processed_at":  rec.CreatedAt.Format(time.RFC3339),
		},
	})
}

// SearchCards handles GET /api/cards/search.
func (h *cardsHandler) SearchCards(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		errorResponse(c, http.StatusBadRequest, "Search query is required")
		return
	}

	opts := repository.ListOptions{
		Page:   parsePage(c),
		Limit:  parseLimit(c, defaultPageLimit, maxPageLimit),
		Search: query,
	}

	recs, total, err := h.repo.List(c.Request.Context(), opts)
	if err != nil {
		h.logger.Error("Search failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "Search failed")
		return
	}

	cards := make([]card.Card, 0, len(recs))
	for _, rec := range recs {
		cards = append(cards, h.projector.Project(rec))
	}

	c.JSON(http.StatusOK, gin.H{
		"query":       query,
		"cards":       cards,
		"total_count": total,
		"page":        opts.Page,
		"limit":       opts.Limit,
		"has_more":    opts.Page*opts.Limit < total,
	})
}

// GetStats handles GET /api/cards/stats, served through the statistics
// cache so the aggregate queries run at most once per TTL.
func (h *cardsHandler) GetStats(c *gin.Context) {
	result, err := h.cache.GetOrCompute(service.CacheStats, func() (interface{}, error) {
		return h.repo.Stats(c.Request.Context())
	})
	if err != nil {
		h.logger.Error("Stats retrieval failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "Stats retrieval failed")
		return
	}

	c.JSON(http.StatusOK, result)
}
