package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Prediction labels produced by the classifier.
const (
	LabelReal = "REAL"
	LabelFake = "FAKE"
)

// DefaultConfidence is used when the model cannot produce probabilities.
const DefaultConfidence = 0.85

// Probabilities maps a label to its class probability. Stored as jsonb.
type Probabilities map[string]float64

func (p Probabilities) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *Probabilities) Scan(src interface{}) error {
	if src == nil {
		*p = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported probabilities type %T", src)
	}
}

// Entities holds named entities extracted from the text. Stored as jsonb.
type Entities struct {
	Persons       []string `json:"persons"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// Empty returns an Entities value with all lists present but empty.
func EmptyEntities() Entities {
	return Entities{Persons: []string{}, Organizations: []string{}, Locations: []string{}}
}

func (e Entities) Value() (driver.Value, error) {
	return json.Marshal(e)
}

func (e *Entities) Scan(src interface{}) error {
	if src == nil {
		*e = EmptyEntities()
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return fmt.Errorf("unsupported entities type %T", src)
	}
}

// Prediction represents one analyzed submission stored in the
// 'predictions' table. Immutable once written, except for the bulk
// backfill of legacy rows missing newer optional fields.
type Prediction struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	Username       string         `db:"username" json:"username"`
	News           string         `db:"news" json:"news"`
	Label          string         `db:"label" json:"prediction"`
	Confidence     float64        `db:"confidence" json:"confidence"`
	Probabilities  Probabilities  `db:"probabilities" json:"probabilities,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	Source         string         `db:"source" json:"source"`
	Category       string         `db:"category" json:"category"`
	Tags           pq.StringArray `db:"tags" json:"tags"`
	Language       string         `db:"language" json:"language"`
	Entities       *Entities      `db:"entities" json:"entities,omitempty"`
	ContentHash    string         `db:"content_hash" json:"content_hash"`
	ProcessingTime float64        `db:"processing_time" json:"processing_time"`
	ModelVersion   string         `db:"model_version" json:"model_version"`
	UserAgent      string         `db:"user_agent" json:"-"`
	IPAddress      string         `db:"ip_address" json:"-"`
}
