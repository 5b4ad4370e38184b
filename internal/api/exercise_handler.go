package api

import (
	"alcyxob/fitness-backend/internal/domain"
	"alcyxob/fitness-backend/internal/normalize"
	"alcyxob/fitness-backend/internal/service"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	images          imageFilter
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, maxUploadBytes int64) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService: exerciseService,
		images:          imageFilter{maxBytes: maxUploadBytes},
	}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	MuscleGroups      []string  `json:"muscleGroups"`
	Equipment         []string  `json:"equipment"`
	Difficulty        string    `json:"difficulty"`
	Instructions      []string  `json:"instructions"`
	ImageURL          string    `json:"imageUrl"`
	VideoURL          string    `json:"videoUrl"`
	CaloriesPerMinute int       `json:"caloriesPerMinute"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:                ex.ID.Hex(),
		Name:              ex.Name,
		Description:       ex.Description,
		Category:          string(ex.Category),
		MuscleGroups:      nonNil(ex.MuscleGroups),
		Equipment:         nonNil(ex.Equipment),
		Difficulty:        string(ex.Difficulty),
		Instructions:      nonNil(ex.Instructions),
		ImageURL:          ex.ImageURL,
		VideoURL:          ex.VideoURL,
		CaloriesPerMinute: ex.CaloriesPerMinute,
		CreatedAt:         ex.CreatedAt,
		UpdatedAt:         ex.UpdatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// --- Handler Methods ---

// GetExercises handles GET /api/exercises.
func (h *ExerciseHandler) GetExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondList(c, MapExercisesToResponse(exercises), len(exercises))
}

// GetExercise handles GET /api/exercises/:id.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, MapExerciseToResponse(exercise))
}

// CreateExercise handles POST /api/exercises. The body is either JSON or a
// form, optionally multipart with an image file.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	in, image, err := h.bindExercise(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), in, image)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, MapExerciseToResponse(exercise))
}

// UpdateExercise handles PUT /api/exercises/:id.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	in, image, err := h.bindExercise(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), c.Param("id"), in, image)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise handles DELETE /api/exercises/:id.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	if err := h.exerciseService.DeleteExercise(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}

// bindExercise reads the exercise fields from any supported body encoding.
// Upload filter violations are returned before the service is involved.
func (h *ExerciseHandler) bindExercise(c *gin.Context) (service.ExerciseInput, []byte, error) {
	var in service.ExerciseInput

	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		form, err := h.images.parseMultipart(c)
		if err != nil {
			return in, nil, err
		}
		image, err := h.images.read(form)
		if err != nil {
			return in, nil, err
		}
		return exerciseInputFromForm(form.Value), image, nil

	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return in, nil, err
		}
		return exerciseInputFromForm(c.Request.PostForm), nil, nil

	default:
		if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
			return in, nil, &requestError{msg: "Invalid request body: " + err.Error()}
		}
		return in, nil, nil
	}
}

func exerciseInputFromForm(values url.Values) service.ExerciseInput {
	field := func(key string) normalize.RawField {
		// "muscleGroups[]" is how some form encoders send arrays
		all := append(append([]string{}, values[key]...), values[key+"[]"]...)
		return normalize.FromValues(all)
	}
	return service.ExerciseInput{
		Name:              field("name"),
		Description:       field("description"),
		Category:          field("category"),
		MuscleGroups:      field("muscleGroups"),
		Equipment:         field("equipment"),
		Difficulty:        field("difficulty"),
		Instructions:      field("instructions"),
		ImageURL:          field("imageUrl"),
		VideoURL:          field("videoUrl"),
		CaloriesPerMinute: field("caloriesPerMinute"),
	}
}
