package card

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"newscheck/internal/enrich"
	"newscheck/internal/models"
)

// Card is the externally-shaped, enriched view of a stored prediction.
type Card struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Content        string          `json:"content"`
	Prediction     string          `json:"prediction"`
	Confidence     float64         `json:"confidence"`
	Timestamp      string          `json:"timestamp"`
	Username       string          `json:"username"`
	ImageURL       string          `json:"imageUrl"`
	Source         string          `json:"source"`
	Category       string          `json:"category"`
	Tags           []string        `json:"tags"`
	Language       string          `json:"language"`
	WordCount      int             `json:"word_count"`
	CharacterCount int             `json:"character_count"`
	ContentHash    string          `json:"content_hash"`
	Entities       models.Entities `json:"entities"`
	ModelVersion   string          `json:"model_version"`
}

const (
	titleMaxLength  = 100
	defaultTitle    = "News Article"
	defaultSource   = "User Submission"
	defaultCategory = "General"
	defaultVersion  = "1.0"
)

var (
	sentenceEndRE = regexp.MustCompile(`[.!?]+`)
	whitespaceRE  = regexp.MustCompile(`\s+`)
)

// ExtractTitle derives a card title from the first sentence of the
// text, whitespace-normalized and truncated on a word boundary.
func ExtractTitle(text string, maxLength int) string {
	sentences := sentenceEndRE.Split(strings.TrimSpace(text), -1)
	if len(sentences) == 0 {
		return defaultTitle
	}

	title := whitespaceRE.ReplaceAllString(strings.TrimSpace(sentences[0]), " ")
	if title == "" {
		return defaultTitle
	}
	// Truncation counts characters, not bytes, so multibyte titles are
	// never cut mid-rune.
	if runes := []rune(title); len(runes) > maxLength {
		truncated := string(runes[:maxLength])
		if idx := strings.LastIndex(truncated, " "); idx > 0 {
			truncated = truncated[:idx]
		}
		title = truncated + "..."
	}
	return title
}

// PlaceholderImageURL synthesizes a placeholder image colored by label.
func PlaceholderImageURL(label string) string {
	color := "ef4444"
	if label == models.LabelReal {
		color = "10b981"
	}
	return fmt.Sprintf("https://via.placeholder.com/300x200/%s/ffffff?text=%s", color, label)
}

// ContentHash is the dedup key: a pure function of the raw text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Projector maps stored prediction records into cards, filling every
// optional field with a documented default so projection never fails.
type Projector struct {
	enricher enrich.Enricher
}

func NewProjector(enricher enrich.Enricher) *Projector {
	return &Projector{enricher: enricher}
}

// Project converts a record into its card representation. Pure and
// total: records missing optional fields project with defaults.
func (p *Projector) Project(rec *models.Prediction) Card {
	confidence := rec.Confidence
	if confidence == 0 {
		confidence = models.DefaultConfidence
	}

	source := rec.Source
	if source == "" {
		source = defaultSource
	}

	category := rec.Category
	if category == "" {
		category = defaultCategory
	}

	tags := []string(rec.Tags)
	if tags == nil {
		tags = p.enricher.Tags(rec.News)
	}

	language := rec.Language
	if language == "" {
		language = p.enricher.Language(rec.News)
	}

	entities := models.EmptyEntities()
	if rec.Entities != nil {
		entities = *rec.Entities
	}

	hash := rec.ContentHash
	if hash == "" {
		hash = ContentHash(rec.News)
	}

	version := rec.ModelVersion
	if version == "" {
		version = defaultVersion
	}

	return Card{
		ID:             rec.ID.String(),
		Title:          ExtractTitle(rec.News, titleMaxLength),
		Content:        rec.News,
		Prediction:     rec.Label,
		Confidence:     confidence,
		Timestamp:      rec.CreatedAt.Format(time.RFC3339),
		Username:       rec.Username,
		ImageURL:       PlaceholderImageURL(rec.Label),
		Source:         source,
		Category:       category,
		Tags:           tags,
		Language:       language,
		WordCount:      len(strings.Fields(rec.News)),
		CharacterCount: len(rec.News),
		ContentHash:    hash,
		Entities:       entities,
		ModelVersion:   version,
	}
}
