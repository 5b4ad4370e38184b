package repository

import (
	"alcyxob/fitness-backend/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound = RepositoryError("not found")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error) // sorted by name ascending
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) (int64, error)
}

// WorkoutRepository defines the interface for interacting with workout data.
// Lists are sorted by dateTime descending, then createdAt descending.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	List(ctx context.Context) ([]domain.Workout, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Workout, error)
	ListLikedBy(ctx context.Context, userID string) ([]domain.Workout, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// AddLike and RemoveLike apply set-union / set-difference on likedBy
	// atomically and return the updated workout.
	AddLike(ctx context.Context, id primitive.ObjectID, userID string) (*domain.Workout, error)
	RemoveLike(ctx context.Context, id primitive.ObjectID, userID string) (*domain.Workout, error)
}
