package service

import (
	"alcyxob/fitness-backend/internal/domain"
	"alcyxob/fitness-backend/internal/normalize"
	"alcyxob/fitness-backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutInput is the body of a create-workout request.
// A nil Exercises slice means the field was missing.
type WorkoutInput struct {
	DateTime  normalize.RawField     `json:"dateTime"`
	Duration  normalize.RawField     `json:"duration"`
	Notes     normalize.RawField     `json:"notes"`
	UserID    normalize.RawField     `json:"userId"`
	Exercises []WorkoutExerciseInput `json:"exercises"`
}

type WorkoutExerciseInput struct {
	ExerciseID normalize.RawField `json:"exerciseId"`
	DocumentID normalize.RawField `json:"_id"` // clients echoing a full exercise document
	Name       normalize.RawField `json:"name"`
	Sets       []WorkoutSetInput  `json:"sets"`
}

type WorkoutSetInput struct {
	Reps       normalize.RawField `json:"reps"`
	Weight     normalize.RawField `json:"weight"`
	WeightUnit normalize.RawField `json:"weightUnit"`
}

type WorkoutService interface {
	ListWorkouts(ctx context.Context) ([]domain.Workout, error)
	GetWorkout(ctx context.Context, id string) (*domain.Workout, error)
	ListWorkoutsByUser(ctx context.Context, userID string) ([]domain.Workout, error)
	CreateWorkout(ctx context.Context, in WorkoutInput) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id, userID string) (bool, *domain.Workout, error)
	ListLikedWorkouts(ctx context.Context, userID string) ([]domain.Workout, error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	now         func() time.Time
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository) WorkoutService {
	return &workoutService{
		workoutRepo: workoutRepo,
		now:         time.Now,
	}
}

func (s *workoutService) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	return s.workoutRepo.List(ctx)
}

func (s *workoutService) GetWorkout(ctx context.Context, id string) (*domain.Workout, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrWorkoutNotFound
	}
	workout, err := s.workoutRepo.GetByID(ctx, objID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// ListWorkoutsByUser never fails for unknown users; the list is just empty.
func (s *workoutService) ListWorkoutsByUser(ctx context.Context, userID string) ([]domain.Workout, error) {
	return s.workoutRepo.ListByUser(ctx, userID)
}

// CreateWorkout normalizes the nested exercises and sets and writes the
// whole workout in a single insert.
func (s *workoutService) CreateWorkout(ctx context.Context, in WorkoutInput) (*domain.Workout, error) {
	if len(in.Exercises) == 0 {
		return nil, invalid("exercises", "At least one exercise is required")
	}

	exercises := make([]domain.WorkoutExercise, 0, len(in.Exercises))
	for i, raw := range in.Exercises {
		ex, err := normalizeWorkoutExercise(i, raw)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}

	dateTime, ok, err := normalize.Timestamp(in.DateTime)
	if err != nil {
		return nil, invalid("dateTime", err.Error())
	}
	if !ok {
		dateTime = s.now()
	}

	notes, _ := in.Notes.Value()
	userID, _ := in.UserID.Value()
	workout := &domain.Workout{
		UserID:    strings.TrimSpace(userID),
		DateTime:  dateTime.UTC(),
		Duration:  normalize.WholeNumber(in.Duration),
		Notes:     notes,
		Exercises: exercises,
		LikedBy:   []string{},
	}
	if err := workout.Validate(); err != nil {
		return nil, fromDomain(err)
	}

	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func normalizeWorkoutExercise(i int, raw WorkoutExerciseInput) (domain.WorkoutExercise, error) {
	ex := domain.WorkoutExercise{Sets: make([]domain.WorkoutSet, 0, len(raw.Sets))}

	ref, ok := raw.ExerciseID.Value()
	if !ok || ref == "" {
		ref, _ = raw.DocumentID.Value()
	}
	if ref != "" {
		id, err := primitive.ObjectIDFromHex(ref)
		if err != nil {
			field := fmt.Sprintf("exercises.%d.exerciseId", i)
			return ex, invalid(field, fmt.Sprintf("%s: %q is not a valid id", field, ref))
		}
		ex.ExerciseID = &id
	}

	name, _ := raw.Name.Value()
	ex.Name = strings.TrimSpace(name)

	for _, set := range raw.Sets {
		unit := domain.UnitKilograms
		if u, _ := set.WeightUnit.Value(); u == string(domain.UnitPounds) {
			unit = domain.UnitPounds
		}
		ex.Sets = append(ex.Sets, domain.WorkoutSet{
			Reps:       normalize.WholeNumber(set.Reps),
			Weight:     normalize.Float(set.Weight),
			WeightUnit: unit,
		})
	}
	return ex, nil
}

func (s *workoutService) DeleteWorkout(ctx context.Context, id string) error {
	workout, err := s.GetWorkout(ctx, id)
	if err != nil {
		return err
	}
	if err := s.workoutRepo.Delete(ctx, workout.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}

// ToggleLike flips userID's like on a workout and reports the new state.
// The add and remove are atomic set operations in the store; deciding which
// one to apply is a separate read, so two concurrent toggles by the same user
// may both pick the same direction.
func (s *workoutService) ToggleLike(ctx context.Context, id, userID string) (bool, *domain.Workout, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, nil, invalid("userId", "userId is required")
	}

	workout, err := s.GetWorkout(ctx, id)
	if err != nil {
		return false, nil, err
	}

	liked := !workout.IsLikedBy(userID)
	if liked {
		workout, err = s.workoutRepo.AddLike(ctx, workout.ID, userID)
	} else {
		workout, err = s.workoutRepo.RemoveLike(ctx, workout.ID, userID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil, ErrWorkoutNotFound
		}
		return false, nil, err
	}
	return liked, workout, nil
}

func (s *workoutService) ListLikedWorkouts(ctx context.Context, userID string) ([]domain.Workout, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, invalid("userId", "userId is required")
	}
	return s.workoutRepo.ListLikedBy(ctx, userID)
}
