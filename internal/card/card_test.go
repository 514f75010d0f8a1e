package card

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"newscheck/internal/enrich"
	"newscheck/internal/models"

	"github.com/google/uuid"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "first sentence",
			text: "Big story breaks today. More details inside.",
			want: "Big story breaks today",
		},
		{
			name: "no terminal punctuation uses whole text",
			text: "a headline without punctuation",
			want: "a headline without punctuation",
		},
		{
			name: "whitespace normalized",
			text: "Big   story\t breaks. Rest.",
			want: "Big story breaks",
		},
		{
			name: "empty text falls back",
			text: "",
			want: "News Article",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(tt.text, 100))
		})
	}
}

func TestExtractTitleTruncatesOnWordBoundary(t *testing.T) {
	long := strings.Repeat("wordy ", 40) // one long sentence, no period
	title := ExtractTitle(long, 100)

	assert.True(t, strings.HasSuffix(title, "..."))
	assert.LessOrEqual(t, len(title), 103)
	// No mid-word cut before the ellipsis.
	trimmed := strings.TrimSuffix(title, "...")
	assert.True(t, strings.HasSuffix(trimmed, "wordy"))
}

func TestExtractTitleTruncatesMultibyteOnRuneBoundary(t *testing.T) {
	// One long CJK sentence with no spaces; character-based truncation
	// must never cut a rune in half.
	long := strings.Repeat("新", 150)
	title := ExtractTitle(long, 100)

	assert.True(t, utf8.ValidString(title))
	assert.Equal(t, strings.Repeat("新", 100)+"...", title)
	assert.Equal(t, 103, utf8.RuneCountInString(title))

	// Mixed script with a space inside the first 100 characters still
	// truncates on the word boundary.
	mixed := "速報 " + strings.Repeat("新", 150)
	title = ExtractTitle(mixed, 100)
	assert.True(t, utf8.ValidString(title))
	assert.True(t, strings.HasPrefix(title, "速報"))
	assert.True(t, strings.HasSuffix(title, "..."))

	// Short multibyte titles pass through untouched.
	assert.Equal(t, "短い見出し", ExtractTitle("短い見出し", 100))
}

func TestPlaceholderImageURL(t *testing.T) {
	assert.Equal(t, "https://via.placeholder.com/300x200/10b981/ffffff?text=REAL", PlaceholderImageURL("REAL"))
	assert.Equal(t, "https://via.placeholder.com/300x200/ef4444/ffffff?text=FAKE", PlaceholderImageURL("FAKE"))
}

func TestContentHashIsPure(t *testing.T) {
	assert.Equal(t, ContentHash("same text"), ContentHash("same text"))
	assert.NotEqual(t, ContentHash("one"), ContentHash("two"))
	assert.Len(t, ContentHash("x"), 64)
}

func TestProjectFullRecord(t *testing.T) {
	p := NewProjector(enrich.NewHeuristic())

	rec := &models.Prediction{
		ID:           uuid.New(),
		Username:     "alice",
		News:         "Scientists discover a new vaccine. It works.",
		Label:        models.LabelReal,
		Confidence:   0.92,
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Source:       "API",
		Category:     "Health",
		Tags:         []string{"health"},
		Language:     "en",
		Entities:     &models.Entities{Persons: []string{"Jane Doe"}, Organizations: []string{}, Locations: []string{}},
		ContentHash:  "abc123",
		ModelVersion: "2.0",
	}

	c := p.Project(rec)

	assert.Equal(t, rec.ID.String(), c.ID)
	assert.Equal(t, "Scientists discover a new vaccine", c.Title)
	assert.Equal(t, "REAL", c.Prediction)
	assert.Equal(t, 0.92, c.Confidence)
	assert.Equal(t, "2025-06-01T12:00:00Z", c.Timestamp)
	assert.Equal(t, []string{"health"}, c.Tags)
	assert.Equal(t, "abc123", c.ContentHash)
	assert.Equal(t, "2.0", c.ModelVersion)
	assert.Equal(t, 7, c.WordCount)
	assert.Equal(t, len(rec.News), c.CharacterCount)
}

func TestProjectDefaultsForMissingOptionalFields(t *testing.T) {
	p := NewProjector(enrich.NewHeuristic())

	// Only the mandatory fields set, everything optional absent.
	rec := &models.Prediction{
		ID:    uuid.New(),
		News:  "The president spoke to congress about the new policy today.",
		Label: models.LabelFake,
	}

	c := p.Project(rec)

	assert.Equal(t, models.DefaultConfidence, c.Confidence)
	assert.Equal(t, "User Submission", c.Source)
	assert.Equal(t, "General", c.Category)
	assert.Equal(t, "1.0", c.ModelVersion)
	assert.Equal(t, []string{"politics"}, c.Tags)
	assert.Equal(t, "en", c.Language)
	assert.NotNil(t, c.Entities.Persons)
	assert.Len(t, c.ContentHash, 64)
	assert.NotEmpty(t, c.ImageURL)
}
