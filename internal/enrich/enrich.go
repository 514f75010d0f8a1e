package enrich

import (
	"regexp"
	"strings"

	"newscheck/internal/models"
)

// Enricher derives tags, language and named entities from raw article
// text. The heuristic implementation below can be swapped for a real
// NLP component without touching the request pipeline.
type Enricher interface {
	Tags(text string) []string
	Language(text string) string
	Entities(text string) models.Entities
}

const maxTags = 5

// Keyword taxonomy for tag extraction. Order is the order tags appear
// in the result, so keep it stable.
var tagCategories = []struct {
	tag      string
	keywords []string
}{
	{"politics", []string{"election", "government", "president", "congress", "senate", "vote", "policy", "democrat", "republican"}},
	{"health", []string{"doctor", "hospital", "medicine", "vaccine", "virus", "disease", "treatment", "medical", "covid"}},
	{"technology", []string{"computer", "software", "internet", "ai", "artificial intelligence", "robot", "tech", "digital"}},
	{"sports", []string{"football", "basketball", "baseball", "soccer", "game", "team", "player", "championship", "olympic"}},
	{"business", []string{"company", "market", "stock", "economy", "finance", "investment", "profit", "business", "corporate"}},
	{"entertainment", []string{"movie", "music", "celebrity", "actor", "singer", "film", "show", "entertainment", "hollywood"}},
	{"science", []string{"research", "study", "scientist", "discovery", "experiment", "university", "academic", "journal"}},
	{"environment", []string{"climate", "environment", "pollution", "green", "renewable", "carbon", "sustainability"}},
	{"crime", []string{"police", "arrest", "crime", "criminal", "court", "judge", "law", "legal", "investigation"}},
	{"international", []string{"country", "nation", "international", "global", "world", "foreign", "embassy", "diplomatic"}},
}

var englishStopwords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
}

var (
	personRE   = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
	orgRE      = regexp.MustCompile(`\b[A-Z][a-z]+ (?:Inc|Corp|LLC|Ltd|Company|Organization)\b`)
	locationRE = regexp.MustCompile(`\b(?:New York|Los Angeles|Chicago|Houston|Phoenix|Philadelphia|San Antonio|San Diego|Dallas|San Jose)\b`)
)

// Heuristic is the built-in keyword/regex enricher.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Tags returns up to five taxonomy categories whose keywords occur in
// the text.
func (h *Heuristic) Tags(text string) []string {
	lower := strings.ToLower(text)
	tags := []string{}
	for _, cat := range tagCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, cat.tag)
				break
			}
		}
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

// Language reports "en" when enough of the first 50 words are common
// English stopwords, "unknown" otherwise.
func (h *Heuristic) Language(text string) string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) > 50 {
		words = words[:50]
	}
	if len(words) == 0 {
		return "unknown"
	}

	hits := 0
	for _, w := range words {
		if _, ok := englishStopwords[w]; ok {
			hits++
		}
	}
	if float64(hits) > float64(len(words))*0.1 {
		return "en"
	}
	return "unknown"
}

// Entities extracts persons, organizations and locations by pattern
// matching capitalized phrases.
func (h *Heuristic) Entities(text string) models.Entities {
	entities := models.EmptyEntities()
	entities.Persons = append(entities.Persons, personRE.FindAllString(text, -1)...)
	entities.Organizations = append(entities.Organizations, orgRE.FindAllString(text, -1)...)
	entities.Locations = append(entities.Locations, locationRE.FindAllString(text, -1)...)
	return entities
}
