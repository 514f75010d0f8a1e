package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"newscheck/internal/cache"
	"newscheck/internal/card"
	"newscheck/internal/classifier"
	"newscheck/internal/enrich"
	"newscheck/internal/models"
	"newscheck/internal/repository"
)

// Cache entry names owned by the pipeline.
const (
	CacheStats  = "stats"
	CacheRecent = "recent_cards"
)

// Submission length bounds, enforced before any write.
const (
	MinTextLength = 10
	MaxTextLength = 10000
)

var (
	ErrTextRequired = errors.New("text is required")
	ErrTextTooShort = fmt.Errorf("text must be at least %d characters long", MinTextLength)
	ErrTextTooLong  = fmt.Errorf("text must be less than %d characters", MaxTextLength)
	ErrBatchTooBig  = errors.New("maximum 10 articles per batch")
)

// Classifier is the pre-trained model capability the pipeline depends
// on. Satisfied by *classifier.Model.
type Classifier interface {
	Version() string
	Predict(ctx context.Context, cleaned string) (string, error)
	Probabilities(ctx context.Context, cleaned string) (map[string]float64, error)
}

// PredictInput is one prediction request after transport decoding.
type PredictInput struct {
	Text      string
	Source    string
	Category  string
	Username  string
	UserAgent string
	IPAddress string
}

// PredictOutcome is everything a prediction response is shaped from.
type PredictOutcome struct {
	Card           card.Card
	Label          string
	Confidence     float64
	Probabilities  models.Probabilities
	ProcessingTime float64
	ModelVersion   string
	Cached         bool
	Saved          bool
	Language       string
	Entities       models.Entities
	Tags           []string
	WordCount      int
	CharacterCount int
}

// BatchItem is one article inside a batch request.
type BatchItem struct {
	Text string
}

// BatchResult is the per-article outcome of a batch request.
type BatchResult struct {
	Index      int     `json:"index"`
	Prediction string  `json:"prediction,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Title      string  `json:"title,omitempty"`
	Error      string  `json:"error,omitempty"`
	Success    bool    `json:"success"`
}

type PredictionService interface {
	Predict(ctx context.Context, in PredictInput) (*PredictOutcome, error)
	PredictBatch(ctx context.Context, items []BatchItem) ([]BatchResult, error)
	ValidateText(text string) (string, error)
}

type predictionService struct {
	repo      repository.PredictionRepository
	model     Classifier
	enricher  enrich.Enricher
	projector *card.Projector
	cache     *cache.Cache
	logger    *zap.Logger
}

func NewPredictionService(repo repository.PredictionRepository, model Classifier, enricher enrich.Enricher, c *cache.Cache, logger *zap.Logger) PredictionService {
	return &predictionService{
		repo:      repo,
		model:     model,
		enricher:  enricher,
		projector: card.NewProjector(enricher),
		cache:     c,
		logger:    logger,
	}
}

// ValidateText trims the submission and enforces the length bounds.
func (s *predictionService) ValidateText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrTextRequired
	}
	if len(trimmed) < MinTextLength {
		return "", ErrTextTooShort
	}
	if len(trimmed) > MaxTextLength {
		return "", ErrTextTooLong
	}
	return trimmed, nil
}

// Predict runs the request pipeline: validate, dedup by content hash,
// classify, persist, invalidate the aggregate caches, project to a
// card. Identical text resubmission is idempotent: it returns the
// existing record's card flagged as cached, with no new write.
func (s *predictionService) Predict(ctx context.Context, in PredictInput) (*PredictOutcome, error) {
	text, err := s.ValidateText(in.Text)
	if err != nil {
		return nil, err
	}

	hash := card.ContentHash(text)
	existing, err := s.repo.GetByContentHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("dedup lookup failed: %w", err)
	}
	if existing != nil {
		s.logger.Info("Returning cached prediction", zap.String("content_hash", hash))
		return s.outcome(existing, true, true), nil
	}

	start := time.Now()
	cleaned := classifier.Clean(text)

	label, err := s.model.Predict(ctx, cleaned)
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	confidence, probabilities := s.confidence(ctx, cleaned, label)
	processingTime := time.Since(start).Seconds()

	username := in.Username
	if username == "" {
		username = "anonymous"
	}
	source := in.Source
	if source == "" {
		source = "API"
	}
	category := in.Category
	if category == "" {
		category = "General"
	}

	entities := s.enricher.Entities(text)
	rec := &models.Prediction{
		Username:       username,
		News:           text,
		Label:          label,
		Confidence:     confidence,
		Probabilities:  probabilities,
		CreatedAt:      time.Now(),
		Source:         source,
		Category:       category,
		Tags:           s.enricher.Tags(text),
		Language:       s.enricher.Language(text),
		Entities:       &entities,
		ContentHash:    hash,
		ProcessingTime: processingTime,
		ModelVersion:   s.model.Version(),
		UserAgent:      in.UserAgent,
		IPAddress:      in.IPAddress,
	}

	// Best-effort durability: a store failure is logged and surfaced
	// through the saved flag, but the computed result still goes back
	// to the caller.
	saved := true
	if err := s.repo.Save(ctx, rec); err != nil {
		s.logger.Error("Failed to save prediction", zap.Error(err), zap.String("content_hash", hash))
		saved = false
	}

	s.cache.Invalidate(CacheStats)
	s.cache.Invalidate(CacheRecent)

	return s.outcome(rec, false, saved), nil
}

// confidence resolves the confidence score and per-class probabilities,
// falling back to the fixed default when the model is uncalibrated.
func (s *predictionService) confidence(ctx context.Context, cleaned, label string) (float64, models.Probabilities) {
	probs, err := s.model.Probabilities(ctx, cleaned)
	if err != nil {
		if !errors.Is(err, classifier.ErrNoProbabilities) {
			s.logger.Warn("Failed to get confidence scores", zap.Error(err))
		}
		synth := models.Probabilities{models.LabelReal: 0.15, models.LabelFake: 0.15}
		synth[label] = models.DefaultConfidence
		return models.DefaultConfidence, synth
	}

	confidence := 0.0
	for _, p := range probs {
		if p > confidence {
			confidence = p
		}
	}
	return confidence, models.Probabilities(probs)
}

func (s *predictionService) outcome(rec *models.Prediction, cached, saved bool) *PredictOutcome {
	c := s.projector.Project(rec)

	confidence := rec.Confidence
	if confidence == 0 {
		confidence = models.DefaultConfidence
	}
	version := rec.ModelVersion
	if version == "" {
		version = "1.0"
	}

	return &PredictOutcome{
		Card:           c,
		Label:          rec.Label,
		Confidence:     confidence,
		Probabilities:  rec.Probabilities,
		ProcessingTime: rec.ProcessingTime,
		ModelVersion:   version,
		Cached:         cached,
		Saved:          saved,
		Language:       c.Language,
		Entities:       c.Entities,
		Tags:           c.Tags,
		WordCount:      c.WordCount,
		CharacterCount: c.CharacterCount,
	}
}

// PredictBatch classifies up to ten articles in one call. Batch results
// are not persisted and never short-circuit through the dedup path; a
// bad article fails its own slot without failing the batch.
func (s *predictionService) PredictBatch(ctx context.Context, items []BatchItem) ([]BatchResult, error) {
	if len(items) > 10 {
		return nil, ErrBatchTooBig
	}

	results := make([]BatchResult, 0, len(items))
	for i, item := range items {
		text, err := s.ValidateText(item.Text)
		if err != nil {
			results = append(results, BatchResult{Index: i, Error: err.Error()})
			continue
		}

		cleaned := classifier.Clean(text)
		label, err := s.model.Predict(ctx, cleaned)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			results = append(results, BatchResult{Index: i, Error: err.Error()})
			continue
		}

		confidence, _ := s.confidence(ctx, cleaned, label)
		results = append(results, BatchResult{
			Index:      i,
			Prediction: label,
			Confidence: confidence,
			Title:      card.ExtractTitle(text, 100),
			Success:    true,
		})
	}
	return results, nil
}
