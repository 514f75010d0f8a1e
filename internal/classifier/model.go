package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

// ErrNoProbabilities is returned when the loaded model artifact is not
// calibrated and cannot produce class probabilities. Callers fall back
// to a fixed default confidence.
var ErrNoProbabilities = errors.New("model does not support probability estimates")

// artifact is the on-disk JSON layout of a trained TF-IDF + linear model.
type artifact struct {
	ModelVersion string             `json:"model_version"`
	Classes      [2]string          `json:"classes"`
	Vocabulary   map[string]int     `json:"vocabulary"`
	IDF          []float64          `json:"idf"`
	Coef         []float64          `json:"coef"`
	Intercept    float64            `json:"intercept"`
	Calibrated   bool               `json:"calibrated"`
}

// Model is a pre-trained linear text classifier over TF-IDF features.
// Read-only after Load and safe for concurrent use; inference is bounded
// by a semaphore sized for the expected request concurrency.
type Model struct {
	version    string
	classes    [2]string
	vocabulary map[string]int
	idf        []float64
	coef       []float64
	intercept  float64
	calibrated bool

	sem chan struct{}
}

// Load reads a model artifact from path. A load failure is fatal to the
// caller: the process must not serve traffic without a classifier.
func Load(path string, maxConcurrent int) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}

	return newModel(a, maxConcurrent)
}

func newModel(a artifact, maxConcurrent int) (*Model, error) {
	if len(a.Vocabulary) == 0 {
		return nil, errors.New("model artifact has an empty vocabulary")
	}
	if len(a.IDF) != len(a.Vocabulary) || len(a.Coef) != len(a.Vocabulary) {
		return nil, fmt.Errorf("model artifact dimensions disagree: vocab=%d idf=%d coef=%d",
			len(a.Vocabulary), len(a.IDF), len(a.Coef))
	}
	if a.Classes[0] == "" || a.Classes[1] == "" {
		return nil, errors.New("model artifact is missing class labels")
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Model{
		version:    a.ModelVersion,
		classes:    a.Classes,
		vocabulary: a.Vocabulary,
		idf:        a.IDF,
		coef:       a.Coef,
		intercept:  a.Intercept,
		calibrated: a.Calibrated,
		sem:        make(chan struct{}, maxConcurrent),
	}, nil
}

// Version returns the artifact's model version tag.
func (m *Model) Version() string {
	return m.version
}

// Classes returns the label pair, negative class first.
func (m *Model) Classes() []string {
	return []string{m.classes[0], m.classes[1]}
}

func (m *Model) acquire(ctx context.Context) error {
	select {
	case m.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Model) release() {
	<-m.sem
}

// score computes the decision function over the l2-normalized TF-IDF
// vector of the cleaned text. Empty input scores the zero vector, so
// the label falls out of the intercept sign deterministically.
func (m *Model) score(cleaned string) float64 {
	tf := make(map[int]float64)
	for _, tok := range strings.Fields(cleaned) {
		if idx, ok := m.vocabulary[tok]; ok {
			tf[idx]++
		}
	}

	var norm float64
	for idx, count := range tf {
		w := count * m.idf[idx]
		tf[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
	} else {
		norm = 1
	}

	score := m.intercept
	for idx, w := range tf {
		score += m.coef[idx] * w / norm
	}
	return score
}

// Predict classifies already-cleaned text and returns one of the two
// class labels. It blocks while the inference pool is saturated.
func (m *Model) Predict(ctx context.Context, cleaned string) (string, error) {
	if err := m.acquire(ctx); err != nil {
		return "", err
	}
	defer m.release()

	if m.score(cleaned) >= 0 {
		return m.classes[1], nil
	}
	return m.classes[0], nil
}

// Probabilities returns per-class probabilities for the cleaned text, or
// ErrNoProbabilities when the artifact is not calibrated.
func (m *Model) Probabilities(ctx context.Context, cleaned string) (map[string]float64, error) {
	if !m.calibrated {
		return nil, ErrNoProbabilities
	}
	if err := m.acquire(ctx); err != nil {
		return nil, err
	}
	defer m.release()

	p := 1 / (1 + math.Exp(-m.score(cleaned)))
	return map[string]float64{
		m.classes[1]: p,
		m.classes[0]: 1 - p,
	}, nil
}
