// Package memory holds in-process repositories used when the server runs
// with mock data instead of MongoDB.
package memory

import (
	"alcyxob/fitness-backend/internal/domain"
	"alcyxob/fitness-backend/internal/repository"
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseRepository implements repository.ExerciseRepository in memory.
type ExerciseRepository struct {
	mu        sync.RWMutex
	exercises map[primitive.ObjectID]domain.Exercise
}

func NewExerciseRepository() *ExerciseRepository {
	return &ExerciseRepository{exercises: make(map[primitive.ObjectID]domain.Exercise)}
}

var _ repository.ExerciseRepository = (*ExerciseRepository)(nil)

func (r *ExerciseRepository) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	r.exercises[exercise.ID] = cloneExercise(*exercise)
	return exercise.ID, nil
}

func (r *ExerciseRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ex, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	ex = cloneExercise(ex)
	return &ex, nil
}

func (r *ExerciseRepository) List(_ context.Context) ([]domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]domain.Exercise, 0, len(r.exercises))
	for _, ex := range r.exercises {
		list = append(list, cloneExercise(ex))
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID.Hex() < list[j].ID.Hex()
	})
	return list, nil
}

func (r *ExerciseRepository) Update(_ context.Context, exercise *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.exercises[exercise.ID]
	if !ok {
		return repository.ErrNotFound
	}
	exercise.CreatedAt = existing.CreatedAt
	exercise.UpdatedAt = time.Now().UTC()
	r.exercises[exercise.ID] = cloneExercise(*exercise)
	return nil
}

func (r *ExerciseRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

func (r *ExerciseRepository) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.exercises))
	r.exercises = make(map[primitive.ObjectID]domain.Exercise)
	return n, nil
}

// WorkoutRepository implements repository.WorkoutRepository in memory.
type WorkoutRepository struct {
	mu       sync.RWMutex
	workouts map[primitive.ObjectID]domain.Workout
}

func NewWorkoutRepository() *WorkoutRepository {
	return &WorkoutRepository{workouts: make(map[primitive.ObjectID]domain.Workout)}
}

var _ repository.WorkoutRepository = (*WorkoutRepository)(nil)

func (r *WorkoutRepository) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	if workout.LikedBy == nil {
		workout.LikedBy = []string{}
	}
	r.workouts[workout.ID] = cloneWorkout(*workout)
	return workout.ID, nil
}

func (r *WorkoutRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	w = cloneWorkout(w)
	return &w, nil
}

func (r *WorkoutRepository) List(_ context.Context) ([]domain.Workout, error) {
	return r.filter(func(domain.Workout) bool { return true }), nil
}

func (r *WorkoutRepository) ListByUser(_ context.Context, userID string) ([]domain.Workout, error) {
	return r.filter(func(w domain.Workout) bool { return w.UserID == userID }), nil
}

func (r *WorkoutRepository) ListLikedBy(_ context.Context, userID string) ([]domain.Workout, error) {
	return r.filter(func(w domain.Workout) bool { return w.IsLikedBy(userID) }), nil
}

func (r *WorkoutRepository) filter(keep func(domain.Workout) bool) []domain.Workout {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := []domain.Workout{}
	for _, w := range r.workouts {
		if keep(w) {
			list = append(list, cloneWorkout(w))
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].DateTime.Equal(list[j].DateTime) {
			return list[i].DateTime.After(list[j].DateTime)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

func (r *WorkoutRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.workouts, id)
	return nil
}

func (r *WorkoutRepository) AddLike(_ context.Context, id primitive.ObjectID, userID string) (*domain.Workout, error) {
	return r.updateLikes(id, func(w *domain.Workout) {
		if !w.IsLikedBy(userID) {
			w.LikedBy = append(w.LikedBy, userID)
		}
	})
}

func (r *WorkoutRepository) RemoveLike(_ context.Context, id primitive.ObjectID, userID string) (*domain.Workout, error) {
	return r.updateLikes(id, func(w *domain.Workout) {
		kept := make([]string, 0, len(w.LikedBy))
		for _, u := range w.LikedBy {
			if u != userID {
				kept = append(kept, u)
			}
		}
		w.LikedBy = kept
	})
}

func (r *WorkoutRepository) updateLikes(id primitive.ObjectID, apply func(*domain.Workout)) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	w = cloneWorkout(w)
	apply(&w)
	w.UpdatedAt = time.Now().UTC()
	r.workouts[id] = w

	out := cloneWorkout(w)
	return &out, nil
}

// Stored values must not share slices with callers.

func cloneExercise(ex domain.Exercise) domain.Exercise {
	ex.MuscleGroups = append([]string{}, ex.MuscleGroups...)
	ex.Equipment = append([]string{}, ex.Equipment...)
	ex.Instructions = append([]string{}, ex.Instructions...)
	return ex
}

func cloneWorkout(w domain.Workout) domain.Workout {
	w.LikedBy = append([]string{}, w.LikedBy...)
	exercises := make([]domain.WorkoutExercise, len(w.Exercises))
	for i, e := range w.Exercises {
		e.Sets = append([]domain.WorkoutSet{}, e.Sets...)
		if e.ExerciseID != nil {
			id := *e.ExerciseID
			e.ExerciseID = &id
		}
		exercises[i] = e
	}
	w.Exercises = exercises
	return w
}
