// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups exercises by training type.
type Category string

const (
	CategoryStrength    Category = "Strength"
	CategoryCardio      Category = "Cardio"
	CategoryFlexibility Category = "Flexibility"
	CategoryBalance     Category = "Balance"
	CategorySports      Category = "Sports"
)

// Difficulty is the skill level an exercise targets.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Exercise represents a single exercise definition in the library.
type Exercise struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Description       string             `bson:"description" json:"description"`
	Category          Category           `bson:"category" json:"category"`
	MuscleGroups      []string           `bson:"muscleGroups" json:"muscleGroups"`
	Equipment         []string           `bson:"equipment" json:"equipment"`
	Difficulty        Difficulty         `bson:"difficulty" json:"difficulty"`
	Instructions      []string           `bson:"instructions" json:"instructions"`
	ImageURL          string             `bson:"imageUrl" json:"imageUrl"`
	VideoURL          string             `bson:"videoUrl" json:"videoUrl"`
	CaloriesPerMinute int                `bson:"caloriesPerMinute" json:"caloriesPerMinute"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ApplyDefaults fills the zero values the schema gives a default for.
func (e *Exercise) ApplyDefaults() {
	if e.Category == "" {
		e.Category = CategoryStrength
	}
	if e.Difficulty == "" {
		e.Difficulty = DifficultyBeginner
	}
	if e.MuscleGroups == nil {
		e.MuscleGroups = []string{}
	}
	if e.Equipment == nil {
		e.Equipment = []string{}
	}
	if e.Instructions == nil {
		e.Instructions = []string{}
	}
}

// Validate enforces the exercise schema. Name is expected to be trimmed already.
func (e *Exercise) Validate() error {
	if e.Name == "" {
		return &FieldError{Field: "name", Message: "name is required"}
	}
	switch e.Category {
	case CategoryStrength, CategoryCardio, CategoryFlexibility, CategoryBalance, CategorySports:
	default:
		return &FieldError{Field: "category", Message: "`" + string(e.Category) + "` is not a valid category"}
	}
	switch e.Difficulty {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
	default:
		return &FieldError{Field: "difficulty", Message: "`" + string(e.Difficulty) + "` is not a valid difficulty"}
	}
	if e.CaloriesPerMinute < 0 {
		return &FieldError{Field: "caloriesPerMinute", Message: "caloriesPerMinute must not be negative"}
	}
	return nil
}

// FieldError describes a schema violation on one field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}
