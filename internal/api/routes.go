package api

import (
	"alcyxob/fitness-backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterConfig holds the HTTP-level settings of the API.
type RouterConfig struct {
	JWTSecret      string
	RequireAuth    bool
	MaxUploadBytes int64
}

func SetupRoutes(
	router *gin.Engine,
	cfg RouterConfig,
	exerciseService service.ExerciseService,
	workoutService service.WorkoutService,
) {
	exerciseHandler := NewExerciseHandler(exerciseService, cfg.MaxUploadBytes)
	workoutHandler := NewWorkoutHandler(workoutService)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Fitness Backend API is running!"})
	})
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := router.Group("/api")
	apiGroup.Use(AuthMiddleware(cfg.JWTSecret, cfg.RequireAuth))
	{
		exerciseGroup := apiGroup.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.GetExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.PUT("/:id", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
		}

		workoutGroup := apiGroup.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.GetWorkouts)
			workoutGroup.GET("/user/:id", workoutHandler.GetUserWorkouts)
			workoutGroup.GET("/liked/:userId", workoutHandler.GetLikedWorkouts)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
			workoutGroup.POST("/:id/like", workoutHandler.ToggleLike)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "Route not found")
	})
}
