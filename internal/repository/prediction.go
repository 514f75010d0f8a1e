package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"newscheck/internal/models"
)

const predictionColumns = `id, username, news, label, confidence, probabilities, created_at,
	source, category, tags, language, entities, content_hash, processing_time,
	model_version, user_agent, ip_address`

// ListOptions controls filtered, paginated listing of predictions.
type ListOptions struct {
	Page      int
	Limit     int
	Search    string
	Filter    string // REAL or FAKE, empty for all
	SortBy    string
	SortOrder string
	Username  string // restrict to one submitter, empty for all
}

// LabelAggregate holds per-label confidence statistics.
type LabelAggregate struct {
	Count         int     `db:"count" json:"count"`
	AvgConfidence float64 `db:"avg_confidence" json:"avg_confidence"`
	MinConfidence float64 `db:"min_confidence" json:"min_confidence"`
	MaxConfidence float64 `db:"max_confidence" json:"max_confidence"`
}

// TagCount is one entry of the tag distribution.
type TagCount struct {
	Tag   string `db:"tag" json:"tag"`
	Count int    `db:"count" json:"count"`
}

// LanguageCount is one entry of the language distribution.
type LanguageCount struct {
	Language string `db:"language" json:"language"`
	Count    int    `db:"count" json:"count"`
}

// SourceCount is one entry of the source distribution.
type SourceCount struct {
	Source string `db:"source" json:"source"`
	Count  int    `db:"count" json:"count"`
}

// Stats is the aggregate statistics object served by /api/cards/stats.
type Stats struct {
	TotalPredictions  int                       `json:"total_predictions"`
	ByPrediction      map[string]LabelAggregate `json:"by_prediction"`
	TimeBased         map[string]int            `json:"time_based"`
	TopTags           []TagCount                `json:"top_tags"`
	Languages         []LanguageCount           `json:"languages"`
	Sources           []SourceCount             `json:"sources"`
	AvgProcessingTime float64                   `json:"avg_processing_time"`
}

// UserStats summarizes one submitter's history.
type UserStats struct {
	Total         int     `db:"total" json:"total"`
	RealCount     int     `db:"real_count" json:"real_count"`
	FakeCount     int     `db:"fake_count" json:"fake_count"`
	AvgConfidence float64 `db:"avg_confidence" json:"avg_confidence"`
}

type PredictionRepository interface {
	Save(ctx context.Context, rec *models.Prediction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
	GetByContentHash(ctx context.Context, hash string) (*models.Prediction, error)
	List(ctx context.Context, opts ListOptions) ([]*models.Prediction, int, error)
	Stats(ctx context.Context) (*Stats, error)
	UserStats(ctx context.Context, username string) (*UserStats, error)
	DeleteByUsername(ctx context.Context, username string) (int64, error)
	CountAll(ctx context.Context) (int, error)
	BackfillDefaults(ctx context.Context) (int64, error)
}

type predictionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPredictionRepository(db *sqlx.DB, logger *zap.Logger) PredictionRepository {
	return &predictionRepository{db: db, logger: logger}
}

func (r *predictionRepository) Save(ctx context.Context, rec *models.Prediction) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	query := `INSERT INTO predictions (id, username, news, label, confidence, probabilities,
	          source, category, tags, language, entities, content_hash, processing_time,
	          model_version, user_agent, ip_address)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	          RETURNING created_at`
	return r.db.QueryRowxContext(ctx, query, rec.ID, rec.Username, rec.News, rec.Label,
		rec.Confidence, rec.Probabilities, rec.Source, rec.Category, rec.Tags,
		rec.Language, rec.Entities, rec.ContentHash, rec.ProcessingTime,
		rec.ModelVersion, rec.UserAgent, rec.IPAddress).Scan(&rec.CreatedAt)
}

func (r *predictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	var rec models.Prediction
	query := fmt.Sprintf(`SELECT %s FROM predictions WHERE id = $1`, predictionColumns)
	err := r.db.GetContext(ctx, &rec, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *predictionRepository) GetByContentHash(ctx context.Context, hash string) (*models.Prediction, error) {
	var rec models.Prediction
	query := fmt.Sprintf(`SELECT %s FROM predictions WHERE content_hash = $1
	                      ORDER BY created_at ASC LIMIT 1`, predictionColumns)
	err := r.db.GetContext(ctx, &rec, query, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Whitelisted sort columns; anything else falls back to created_at.
var sortColumns = map[string]string{
	"timestamp":  "created_at",
	"created_at": "created_at",
	"confidence": "confidence",
	"prediction": "label",
}

func (r *predictionRepository) List(ctx context.Context, opts ListOptions) ([]*models.Prediction, int, error) {
	where := []string{}
	args := []interface{}{}

	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		where = append(where, fmt.Sprintf("(news ILIKE $%d OR username ILIKE $%d)", len(args), len(args)))
	}
	if opts.Filter == models.LabelReal || opts.Filter == models.LabelFake {
		args = append(args, opts.Filter)
		where = append(where, fmt.Sprintf("label = $%d", len(args)))
	}
	if opts.Username != "" {
		args = append(args, opts.Username)
		where = append(where, fmt.Sprintf("username = $%d", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM predictions" + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	sortColumn, ok := sortColumns[opts.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		direction = "ASC"
	}

	offset := (opts.Page - 1) * opts.Limit
	args = append(args, opts.Limit, offset)
	query := fmt.Sprintf("SELECT %s FROM predictions%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		predictionColumns, whereClause, sortColumn, direction, len(args)-1, len(args))

	var recs []*models.Prediction
	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

func (r *predictionRepository) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByPrediction: make(map[string]LabelAggregate),
		TimeBased:    make(map[string]int),
		TopTags:      []TagCount{},
		Languages:    []LanguageCount{},
		Sources:      []SourceCount{},
	}

	var totals struct {
		Total             int     `db:"total"`
		AvgProcessingTime float64 `db:"avg_processing_time"`
	}
	err := r.db.GetContext(ctx, &totals,
		`SELECT COUNT(*) AS total, COALESCE(AVG(processing_time), 0) AS avg_processing_time FROM predictions`)
	if err != nil {
		return nil, err
	}
	stats.TotalPredictions = totals.Total
	stats.AvgProcessingTime = totals.AvgProcessingTime

	rows, err := r.db.QueryxContext(ctx,
		`SELECT label, COUNT(*) AS count,
		        COALESCE(AVG(confidence), 0) AS avg_confidence,
		        COALESCE(MIN(confidence), 0) AS min_confidence,
		        COALESCE(MAX(confidence), 0) AS max_confidence
		 FROM predictions GROUP BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var label string
		var agg LabelAggregate
		if err := rows.Scan(&label, &agg.Count, &agg.AvgConfidence, &agg.MinConfidence, &agg.MaxConfidence); err != nil {
			return nil, err
		}
		stats.ByPrediction[label] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var windows struct {
		LastHour  int `db:"last_hour"`
		Last24h   int `db:"last_24h"`
		LastWeek  int `db:"last_week"`
		LastMonth int `db:"last_month"`
	}
	err = r.db.GetContext(ctx, &windows,
		`SELECT COUNT(*) FILTER (WHERE created_at >= now() - interval '1 hour')  AS last_hour,
		        COUNT(*) FILTER (WHERE created_at >= now() - interval '1 day')   AS last_24h,
		        COUNT(*) FILTER (WHERE created_at >= now() - interval '1 week')  AS last_week,
		        COUNT(*) FILTER (WHERE created_at >= now() - interval '30 days') AS last_month
		 FROM predictions`)
	if err != nil {
		return nil, err
	}
	stats.TimeBased["last_hour"] = windows.LastHour
	stats.TimeBased["last_24h"] = windows.Last24h
	stats.TimeBased["last_week"] = windows.LastWeek
	stats.TimeBased["last_month"] = windows.LastMonth

	err = r.db.SelectContext(ctx, &stats.TopTags,
		`SELECT tag, COUNT(*) AS count
		 FROM predictions, unnest(tags) AS tag
		 GROUP BY tag ORDER BY count DESC, tag ASC LIMIT 10`)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &stats.Languages,
		`SELECT COALESCE(NULLIF(language, ''), 'unknown') AS language, COUNT(*) AS count
		 FROM predictions GROUP BY 1 ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &stats.Sources,
		`SELECT COALESCE(NULLIF(source, ''), 'User Submission') AS source, COUNT(*) AS count
		 FROM predictions GROUP BY 1 ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *predictionRepository) UserStats(ctx context.Context, username string) (*UserStats, error) {
	var stats UserStats
	err := r.db.GetContext(ctx, &stats,
		`SELECT COUNT(*) AS total,
		        COUNT(*) FILTER (WHERE label = $2) AS real_count,
		        COUNT(*) FILTER (WHERE label = $3) AS fake_count,
		        COALESCE(AVG(confidence), 0) AS avg_confidence
		 FROM predictions WHERE username = $1`,
		username, models.LabelReal, models.LabelFake)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *predictionRepository) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM predictions WHERE username = $1`, username)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *predictionRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM predictions`)
	return count, err
}

// BackfillDefaults fills newer optional fields on legacy rows that were
// written before those fields existed. The only in-place mutation the
// predictions table ever sees.
func (r *predictionRepository) BackfillDefaults(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE predictions SET
		    confidence    = CASE WHEN confidence = 0 THEN $1 ELSE confidence END,
		    source        = COALESCE(NULLIF(source, ''), 'User Submission'),
		    category      = COALESCE(NULLIF(category, ''), 'General'),
		    model_version = COALESCE(NULLIF(model_version, ''), '1.0'),
		    content_hash  = COALESCE(NULLIF(content_hash, ''), encode(sha256(news::bytea), 'hex'))
		 WHERE confidence = 0 OR source = '' OR category = '' OR model_version = '' OR content_hash = ''`,
		models.DefaultConfidence)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
