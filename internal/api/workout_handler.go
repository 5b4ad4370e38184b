package api

import (
	"alcyxob/fitness-backend/internal/domain"
	"alcyxob/fitness-backend/internal/normalize"
	"alcyxob/fitness-backend/internal/service"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type WorkoutSetResponse struct {
	Reps       int     `json:"reps"`
	Weight     float64 `json:"weight"`
	WeightUnit string  `json:"weightUnit"`
}

type WorkoutExerciseResponse struct {
	ExerciseID string               `json:"exerciseId,omitempty"`
	Name       string               `json:"name"`
	Sets       []WorkoutSetResponse `json:"sets"`
}

// WorkoutResponse is the DTO for returning a workout.
type WorkoutResponse struct {
	ID        string                    `json:"id"`
	UserID    string                    `json:"userId"`
	DateTime  time.Time                 `json:"dateTime"`
	Duration  int                       `json:"duration"`
	Notes     string                    `json:"notes"`
	Exercises []WorkoutExerciseResponse `json:"exercises"`
	LikedBy   []string                  `json:"likedBy"`
	CreatedAt time.Time                 `json:"createdAt"`
	UpdatedAt time.Time                 `json:"updatedAt"`
}

// ToggleLikeResponse is the data of a like toggle.
type ToggleLikeResponse struct {
	Liked   bool            `json:"liked"`
	Likes   int             `json:"likes"`
	Workout WorkoutResponse `json:"workout"`
}

func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	exercises := make([]WorkoutExerciseResponse, len(w.Exercises))
	for i, ex := range w.Exercises {
		sets := make([]WorkoutSetResponse, len(ex.Sets))
		for j, s := range ex.Sets {
			sets[j] = WorkoutSetResponse{Reps: s.Reps, Weight: s.Weight, WeightUnit: string(s.WeightUnit)}
		}
		out := WorkoutExerciseResponse{Name: ex.Name, Sets: sets}
		if ex.ExerciseID != nil {
			out.ExerciseID = ex.ExerciseID.Hex()
		}
		exercises[i] = out
	}
	return WorkoutResponse{
		ID:        w.ID.Hex(),
		UserID:    w.UserID,
		DateTime:  w.DateTime,
		Duration:  w.Duration,
		Notes:     w.Notes,
		Exercises: exercises,
		LikedBy:   nonNil(w.LikedBy),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	return responses
}

// --- Handler Methods ---

// GetWorkouts handles GET /api/workouts, newest first.
func (h *WorkoutHandler) GetWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondList(c, MapWorkoutsToResponse(workouts), len(workouts))
}

// GetWorkout handles GET /api/workouts/:id.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	workout, err := h.workoutService.GetWorkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, MapWorkoutToResponse(workout))
}

// GetUserWorkouts handles GET /api/workouts/user/:id.
func (h *WorkoutHandler) GetUserWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.ListWorkoutsByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondList(c, MapWorkoutsToResponse(workouts), len(workouts))
}

// GetLikedWorkouts handles GET /api/workouts/liked/:userId.
func (h *WorkoutHandler) GetLikedWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.ListLikedWorkouts(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondList(c, MapWorkoutsToResponse(workouts), len(workouts))
}

// CreateWorkout handles POST /api/workouts. Without a userId in the body the
// caller's token identity, if any, is used.
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var in service.WorkoutInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if v, _ := in.UserID.Value(); v == "" {
		if uid := getUserIDFromContext(c); uid != "" {
			in.UserID = normalize.Text(uid)
		}
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, MapWorkoutToResponse(workout))
}

// DeleteWorkout handles DELETE /api/workouts/:id.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}

type toggleLikeRequest struct {
	UserID normalize.RawField `json:"userId"`
}

// ToggleLike handles POST /api/workouts/:id/like.
func (h *WorkoutHandler) ToggleLike(c *gin.Context) {
	var req toggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	userID, _ := req.UserID.Value()
	if userID == "" {
		userID = getUserIDFromContext(c)
	}

	liked, workout, err := h.workoutService.ToggleLike(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, ToggleLikeResponse{
		Liked:   liked,
		Likes:   len(workout.LikedBy),
		Workout: MapWorkoutToResponse(workout),
	})
}
