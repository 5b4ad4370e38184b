package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeightUnit is the unit a set's weight is recorded in.
type WeightUnit string

const (
	UnitKilograms WeightUnit = "kg"
	UnitPounds    WeightUnit = "lbs"
)

// Workout is one logged training session.
type Workout struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"userId"` // free-form, not checked against any user record
	DateTime  time.Time          `bson:"dateTime" json:"dateTime"`
	Duration  int                `bson:"duration" json:"duration"` // seconds
	Notes     string             `bson:"notes" json:"notes"`
	Exercises []WorkoutExercise  `bson:"exercises" json:"exercises"`
	LikedBy   []string           `bson:"likedBy" json:"likedBy"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutExercise is an exercise as performed inside a workout.
type WorkoutExercise struct {
	ExerciseID *primitive.ObjectID `bson:"exerciseId,omitempty" json:"exerciseId,omitempty"`
	Name       string              `bson:"name" json:"name"`
	Sets       []WorkoutSet        `bson:"sets" json:"sets"`
}

// WorkoutSet is a single set of an exercise.
type WorkoutSet struct {
	Reps       int        `bson:"reps" json:"reps"`
	Weight     float64    `bson:"weight" json:"weight"`
	WeightUnit WeightUnit `bson:"weightUnit" json:"weightUnit"`
}

// IsLikedBy reports whether userID is in the workout's likedBy set.
func (w *Workout) IsLikedBy(userID string) bool {
	for _, id := range w.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Validate enforces the workout schema, including the embedded exercises and sets.
func (w *Workout) Validate() error {
	if w.Duration < 0 {
		return &FieldError{Field: "duration", Message: "duration must not be negative"}
	}
	for i, ex := range w.Exercises {
		if ex.Name == "" {
			return &FieldError{Field: fmt.Sprintf("exercises.%d.name", i), Message: fmt.Sprintf("exercises.%d.name is required", i)}
		}
		for j, set := range ex.Sets {
			if set.Reps < 0 {
				return &FieldError{Field: fmt.Sprintf("exercises.%d.sets.%d.reps", i, j), Message: fmt.Sprintf("exercises.%d.sets.%d.reps must not be negative", i, j)}
			}
			if set.Weight < 0 {
				return &FieldError{Field: fmt.Sprintf("exercises.%d.sets.%d.weight", i, j), Message: fmt.Sprintf("exercises.%d.sets.%d.weight must not be negative", i, j)}
			}
			if set.WeightUnit != UnitKilograms && set.WeightUnit != UnitPounds {
				return &FieldError{Field: fmt.Sprintf("exercises.%d.sets.%d.weightUnit", i, j), Message: fmt.Sprintf("`%s` is not a valid weight unit", set.WeightUnit)}
			}
		}
	}
	return nil
}
