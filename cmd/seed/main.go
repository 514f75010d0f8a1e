package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"newscheck/internal/card"
	"newscheck/internal/config"
	"newscheck/internal/enrich"
	"newscheck/internal/models"
	"newscheck/internal/repository"
)

type sample struct {
	text       string
	label      string
	confidence float64
	source     string
	category   string
}

var samples = []sample{
	{
		text:       "Scientists at MIT have developed a new battery technology that can charge electric vehicles in under ten minutes. The research, published in Nature Energy, demonstrates a novel electrode design that withstands thousands of fast-charging cycles without significant degradation.",
		label:      models.LabelReal,
		confidence: 0.94,
		source:     "Tech Daily",
		category:   "Technology",
	},
	{
		text:       "BREAKING: Government secretly confirms aliens built the pyramids and has been hiding the evidence for decades. Anonymous insiders claim the truth will shock everyone and mainstream media refuses to report it.",
		label:      models.LabelFake,
		confidence: 0.97,
		source:     "User Submission",
		category:   "General",
	},
	{
		text:       "The city council approved a new budget on Tuesday that allocates additional funding for public transportation and road maintenance. The measure passed with a vote of seven to two after a lengthy public comment period.",
		label:      models.LabelReal,
		confidence: 0.89,
		source:     "Local News",
		category:   "Politics",
	},
	{
		text:       "Doctors hate this one weird trick that cures all diseases instantly. Big pharma has spent billions trying to suppress this miracle remedy discovered by a stay-at-home mom.",
		label:      models.LabelFake,
		confidence: 0.96,
		source:     "User Submission",
		category:   "Health",
	},
	{
		text:       "Researchers report that global renewable energy capacity grew by a record amount last year, driven largely by solar installations in Asia. The International Energy Agency expects the trend to continue through the decade.",
		label:      models.LabelReal,
		confidence: 0.91,
		source:     "World Report",
		category:   "Environment",
	},
}

func main() {
	log := logrus.New()

	cfgPath := "configs/config.yml"
	if envPath := os.Getenv("NEWSCHECK_CONFIG"); envPath != "" {
		cfgPath = envPath
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := zap.NewNop()
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repository.MigrateDB(db, logger)

	repo := repository.NewPredictionRepository(db, logger)
	enricher := enrich.NewHeuristic()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	inserted := 0
	for _, s := range samples {
		hash := card.ContentHash(s.text)

		existing, err := repo.GetByContentHash(ctx, hash)
		if err != nil {
			log.Fatalf("Failed to check existing sample: %v", err)
		}
		if existing != nil {
			log.Infof("Skipping existing sample: %s", card.ExtractTitle(s.text, 60))
			continue
		}

		other := models.LabelFake
		if s.label == models.LabelFake {
			other = models.LabelReal
		}
		entities := enricher.Entities(s.text)

		rec := &models.Prediction{
			Username:      "sample_data",
			News:          s.text,
			Label:         s.label,
			Confidence:    s.confidence,
			Probabilities: models.Probabilities{s.label: s.confidence, other: 1 - s.confidence},
			CreatedAt:     time.Now(),
			Source:        s.source,
			Category:      s.category,
			Tags:          enricher.Tags(s.text),
			Language:      enricher.Language(s.text),
			Entities:      &entities,
			ContentHash:   hash,
			ModelVersion:  "1.0",
		}

		if err := repo.Save(ctx, rec); err != nil {
			log.Fatalf("Failed to insert sample: %v", err)
		}
		inserted++
		log.Infof("Inserted sample: %s", card.ExtractTitle(s.text, 60))
	}

	log.Infof("Done. %d samples inserted, %d skipped.", inserted, len(samples)-inserted)
}
