package service

import (
	"alcyxob/fitness-backend/internal/domain"
	"alcyxob/fitness-backend/internal/media"
	"alcyxob/fitness-backend/internal/normalize"
	"alcyxob/fitness-backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseImageFolder is the default media host folder for exercise images.
const ExerciseImageFolder = "exercises"

// ExerciseInput carries the exercise fields exactly as the client sent them.
// Absent fields are left untouched on update.
type ExerciseInput struct {
	Name              normalize.RawField `json:"name"`
	Description       normalize.RawField `json:"description"`
	Category          normalize.RawField `json:"category"`
	MuscleGroups      normalize.RawField `json:"muscleGroups"`
	Equipment         normalize.RawField `json:"equipment"`
	Difficulty        normalize.RawField `json:"difficulty"`
	Instructions      normalize.RawField `json:"instructions"`
	ImageURL          normalize.RawField `json:"imageUrl"`
	VideoURL          normalize.RawField `json:"videoUrl"`
	CaloriesPerMinute normalize.RawField `json:"caloriesPerMinute"`
}

type ExerciseService interface {
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, id string) (*domain.Exercise, error)
	// image is nil when no file was uploaded.
	CreateExercise(ctx context.Context, in ExerciseInput, image []byte) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, id string, in ExerciseInput, image []byte) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, id string) error
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	media        *media.Manager
	imageFolder  string
	now          func() time.Time
}

// NewExerciseService creates a new instance of exerciseService. Images are
// uploaded to imageFolder, or ExerciseImageFolder when it is empty.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, mediaManager *media.Manager, imageFolder string) ExerciseService {
	if imageFolder == "" {
		imageFolder = ExerciseImageFolder
	}
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		media:        mediaManager,
		imageFolder:  imageFolder,
		now:          time.Now,
	}
}

func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

// GetExercise retrieves a single exercise. Malformed ids are reported as not found.
func (s *exerciseService) GetExercise(ctx context.Context, id string) (*domain.Exercise, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrExerciseNotFound
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, objID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// CreateExercise uploads the image first, if any, so a failed upload never
// leaves a record pointing at a missing asset.
func (s *exerciseService) CreateExercise(ctx context.Context, in ExerciseInput, image []byte) (*domain.Exercise, error) {
	exercise := &domain.Exercise{}
	applyExerciseInput(exercise, in)
	exercise.ApplyDefaults()
	if err := exercise.Validate(); err != nil {
		return nil, fromDomain(err)
	}

	uploaded := ""
	if image != nil {
		url, err := s.media.Upload(ctx, image, s.imageFolder, s.imageName())
		if err != nil {
			return nil, err
		}
		uploaded = url
		exercise.ImageURL = url
	}

	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		s.media.Release(ctx, uploaded)
		return nil, err
	}
	return exercise, nil
}

// UpdateExercise applies the present fields of in to the stored exercise.
//
// A new image is uploaded before anything is written; its URL is persisted and
// only then is the previous asset released. An explicit imageUrl in the input
// takes precedence over the uploaded one, in which case the fresh upload is
// released too. Updates without an image never release anything.
func (s *exerciseService) UpdateExercise(ctx context.Context, id string, in ExerciseInput, image []byte) (*domain.Exercise, error) {
	existing, err := s.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}
	oldImageURL := existing.ImageURL

	updated := *existing
	applyExerciseInput(&updated, in)
	updated.ApplyDefaults()
	if err := updated.Validate(); err != nil {
		return nil, fromDomain(err)
	}

	uploaded := ""
	if image != nil {
		url, err := s.media.Upload(ctx, image, s.imageFolder, s.imageName())
		if err != nil {
			return nil, err
		}
		uploaded = url
		if explicit, ok := in.ImageURL.Value(); !ok || strings.TrimSpace(explicit) == "" {
			updated.ImageURL = url
		}
	}

	if err := s.exerciseRepo.Update(ctx, &updated); err != nil {
		s.media.Release(ctx, uploaded)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if uploaded != "" && updated.ImageURL != uploaded {
		s.media.Release(ctx, uploaded)
	}
	// Without new image bytes the caller manages its own media.
	if uploaded != "" && oldImageURL != "" && oldImageURL != updated.ImageURL {
		s.media.Release(ctx, oldImageURL)
	}
	return &updated, nil
}

// DeleteExercise removes the record even when its image cannot be released.
func (s *exerciseService) DeleteExercise(ctx context.Context, id string) error {
	exercise, err := s.GetExercise(ctx, id)
	if err != nil {
		return err
	}

	s.media.Release(ctx, exercise.ImageURL)

	if err := s.exerciseRepo.Delete(ctx, exercise.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}

func (s *exerciseService) imageName() string {
	return fmt.Sprintf("exercise-%d", s.now().UnixMilli())
}

// applyExerciseInput copies every present field of in onto exercise.
func applyExerciseInput(exercise *domain.Exercise, in ExerciseInput) {
	if v, ok := in.Name.Value(); ok {
		exercise.Name = strings.TrimSpace(v)
	}
	if v, ok := in.Description.Value(); ok {
		exercise.Description = strings.TrimSpace(v)
	}
	if v, ok := in.Category.Value(); ok {
		exercise.Category = domain.Category(strings.TrimSpace(v))
	}
	if v, ok := in.Difficulty.Value(); ok {
		exercise.Difficulty = domain.Difficulty(strings.TrimSpace(v))
	}
	if !in.MuscleGroups.IsAbsent() {
		exercise.MuscleGroups = normalize.StringList(in.MuscleGroups)
	}
	if !in.Equipment.IsAbsent() {
		exercise.Equipment = normalize.StringList(in.Equipment)
	}
	if !in.Instructions.IsAbsent() {
		exercise.Instructions = normalize.StringList(in.Instructions)
	}
	if v, ok := in.ImageURL.Value(); ok && strings.TrimSpace(v) != "" {
		exercise.ImageURL = strings.TrimSpace(v)
	}
	if v, ok := in.VideoURL.Value(); ok {
		exercise.VideoURL = strings.TrimSpace(v)
	}
	if !in.CaloriesPerMinute.IsAbsent() {
		exercise.CaloriesPerMinute = normalize.Int(in.CaloriesPerMinute)
	}
}
