// Command seed loads the bundled exercise library into the configured store.
package main

import (
	"alcyxob/fitness-backend/internal/config"
	"alcyxob/fitness-backend/internal/domain"
	"alcyxob/fitness-backend/internal/repository"
	"alcyxob/fitness-backend/internal/repository/memory"
	"alcyxob/fitness-backend/internal/repository/mongo"
	"alcyxob/fitness-backend/pkg/logger"
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

//go:embed exercises.json
var seedData []byte

const sampleSize = 5

func main() {
	keep := flag.Bool("keep", false, "keep existing exercises instead of clearing them first")
	flag.Parse()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Could not load config: %v", err)
	}
	log := logger.InitLogger(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	exercises, err := loadSeedExercises(seedData)
	if err != nil {
		log.Fatalf("Invalid seed data: %v", err)
	}

	var repo repository.ExerciseRepository
	if cfg.Database.Driver == config.DriverMemory {
		repo = memory.NewExerciseRepository()
	} else {
		client, err := mongo.ConnectDB(ctx, cfg.Database.URI)
		if err != nil {
			log.Fatalf("Could not connect to MongoDB: %v", err)
		}
		defer func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.WithError(err).Error("Failed to disconnect MongoDB")
			}
		}()
		repo = mongo.NewMongoExerciseRepository(client.Database(cfg.Database.Name))
		log.Info("Connected to MongoDB")
	}

	inserted, err := seed(ctx, repo, exercises, *keep, log)
	if err != nil {
		log.Fatalf("Error seeding exercises: %v", err)
	}

	log.Infof("Successfully seeded %d exercises", len(inserted))
	for i := 0; i < len(inserted) && i < sampleSize; i++ {
		log.WithField("category", inserted[i].Category).Info("  - " + inserted[i].Name)
	}
}

// loadSeedExercises decodes and validates the bundled library.
func loadSeedExercises(data []byte) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	if err := json.Unmarshal(data, &exercises); err != nil {
		return nil, err
	}
	for i := range exercises {
		exercises[i].ApplyDefaults()
		if err := exercises[i].Validate(); err != nil {
			return nil, fmt.Errorf("exercise %d (%q): %w", i, exercises[i].Name, err)
		}
	}
	return exercises, nil
}

// seed clears the collection unless keep is set, then inserts exercises in order.
func seed(ctx context.Context, repo repository.ExerciseRepository, exercises []domain.Exercise, keep bool, log logrus.FieldLogger) ([]domain.Exercise, error) {
	if !keep {
		removed, err := repo.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("clearing exercises: %w", err)
		}
		log.WithField("removed", removed).Info("Cleared existing exercises")
	}

	inserted := make([]domain.Exercise, 0, len(exercises))
	for _, ex := range exercises {
		ex := ex
		if _, err := repo.Create(ctx, &ex); err != nil {
			return inserted, fmt.Errorf("inserting %q: %w", ex.Name, err)
		}
		inserted = append(inserted, ex)
	}
	return inserted, nil
}
