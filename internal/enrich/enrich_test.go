package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTags(t *testing.T) {
	h := NewHeuristic()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single category",
			text: "The president addressed congress about the election",
			want: []string{"politics"},
		},
		{
			name: "multiple categories in taxonomy order",
			text: "A scientist published research on a new vaccine for the virus",
			want: []string{"health", "science"},
		},
		{
			name: "no matches",
			text: "a quiet afternoon walk",
			want: []string{},
		},
		{
			name: "case insensitive",
			text: "FOOTBALL CHAMPIONSHIP tonight",
			want: []string{"sports"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Tags(tt.text))
		})
	}
}

func TestTagsCapped(t *testing.T) {
	h := NewHeuristic()
	text := "The president saw a doctor about ai, watched football, checked the stock market, a movie, and read a research journal on climate"
	tags := h.Tags(text)
	assert.Len(t, tags, 5)
}

func TestLanguage(t *testing.T) {
	h := NewHeuristic()

	assert.Equal(t, "en", h.Language("The quick brown fox jumps over the lazy dog in the morning"))
	assert.Equal(t, "unknown", h.Language("lorem ipsum dolor sit amet consectetur adipiscing elit sed"))
	assert.Equal(t, "unknown", h.Language(""))
}

func TestEntities(t *testing.T) {
	h := NewHeuristic()

	e := h.Entities("John Smith of Acme Corp visited New York last week")
	assert.Contains(t, e.Persons, "John Smith")
	assert.Contains(t, e.Organizations, "Acme Corp")
	assert.Contains(t, e.Locations, "New York")
}

func TestEntitiesEmptyText(t *testing.T) {
	h := NewHeuristic()

	e := h.Entities("")
	assert.NotNil(t, e.Persons)
	assert.NotNil(t, e.Organizations)
	assert.NotNil(t, e.Locations)
	assert.Empty(t, e.Persons)
}
