package mongo

import (
	"alcyxob/fitness-backend/internal/domain"
	"alcyxob/fitness-backend/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// workoutSort is the order of every workout listing: newest session first.
var workoutSort = bson.D{{Key: "dateTime", Value: -1}, {Key: "createdAt", Value: -1}}

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	if workout.LikedBy == nil {
		workout.LikedBy = []string{}
	}

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

func (r *mongoWorkoutRepository) List(ctx context.Context) ([]domain.Workout, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoWorkoutRepository) ListByUser(ctx context.Context, userID string) ([]domain.Workout, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// ListLikedBy returns the workouts whose likedBy array contains userID.
func (r *mongoWorkoutRepository) ListLikedBy(ctx context.Context, userID string) ([]domain.Workout, error) {
	return r.find(ctx, bson.M{"likedBy": userID})
}

func (r *mongoWorkoutRepository) find(ctx context.Context, filter bson.M) ([]domain.Workout, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(workoutSort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workouts := []domain.Workout{}
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *mongoWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddLike adds userID to likedBy with $addToSet, so it is never duplicated.
func (r *mongoWorkoutRepository) AddLike(ctx context.Context, id primitive.ObjectID, userID string) (*domain.Workout, error) {
	return r.updateLikes(ctx, id, bson.M{
		"$addToSet": bson.M{"likedBy": userID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

// RemoveLike removes every occurrence of userID from likedBy with $pull.
func (r *mongoWorkoutRepository) RemoveLike(ctx context.Context, id primitive.ObjectID, userID string) (*domain.Workout, error) {
	return r.updateLikes(ctx, id, bson.M{
		"$pull": bson.M{"likedBy": userID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoWorkoutRepository) updateLikes(ctx context.Context, id primitive.ObjectID, update bson.M) (*domain.Workout, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var workout domain.Workout
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "dateTime", Value: -1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "dateTime", Value: -1}},
			Options: options.Index(),
		},
		{
			// Multikey index for the liked-workouts listing.
			Keys:    bson.D{{Key: "likedBy", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
