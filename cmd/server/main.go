package main

import (
	"alcyxob/fitness-backend/internal/api"
	"alcyxob/fitness-backend/internal/config"
	"alcyxob/fitness-backend/internal/media"
	"alcyxob/fitness-backend/internal/repository"
	"alcyxob/fitness-backend/internal/repository/memory"
	"alcyxob/fitness-backend/internal/repository/mongo"
	"alcyxob/fitness-backend/internal/service"
	"alcyxob/fitness-backend/internal/storage"
	"alcyxob/fitness-backend/pkg/logger"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Could not load config: %v", err)
	}
	log := logger.InitLogger(cfg.Log.Level, cfg.Log.Format)
	log.Info("Starting Fitness Backend server...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Repositories ---
	exerciseRepo, workoutRepo, closeDB, err := openRepositories(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Could not open %s repositories: %v", cfg.Database.Driver, err)
	}
	defer closeDB()

	// --- Media storage ---
	imageStorage, err := storage.New(ctx, cfg.Media)
	if err != nil {
		log.Fatalf("Could not initialize %s media storage: %v", cfg.Media.Provider, err)
	}
	mediaManager := media.NewManager(imageStorage, log)

	// --- Services ---
	exerciseService := service.NewExerciseService(exerciseRepo, mediaManager, cfg.Media.Folder)
	workoutService := service.NewWorkoutService(workoutRepo)

	// --- Router ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(log))
	api.SetupRoutes(router, api.RouterConfig{
		JWTSecret:      cfg.JWT.Secret,
		RequireAuth:    cfg.JWT.Required,
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
	}, exerciseService, workoutService)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", api.RequestIDHeader},
		ExposedHeaders: []string{api.RequestIDHeader},
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// --- Serve until signalled ---
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Errorf("Server stopped with error: %v", err)
		closeDB()
		os.Exit(1)
	}
	log.Info("Server exiting.")
}

// openRepositories builds the repositories for the configured driver. The
// returned close function is safe to call more than once.
func openRepositories(ctx context.Context, cfg config.DatabaseConfig) (repository.ExerciseRepository, repository.WorkoutRepository, func(), error) {
	if cfg.Driver == config.DriverMemory {
		logger.Log.Warn("Using in-memory repositories; data is lost on exit")
		return memory.NewExerciseRepository(), memory.NewWorkoutRepository(), func() {}, nil
	}

	client, err := mongo.ConnectDB(ctx, cfg.URI)
	if err != nil {
		return nil, nil, nil, err
	}
	db := client.Database(cfg.Name)
	logger.Log.WithField("database", cfg.Name).Info("Database connection established")

	go func() {
		idxCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(idxCtx, db); err != nil {
			logger.Log.WithError(err).Error("Index creation failed")
			return
		}
		logger.Log.Info("Database indexes ensured")
	}()

	closed := false
	closeFn := func() {
		if closed {
			return
		}
		closed = true
		logger.Log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(client); err != nil {
			logger.Log.WithError(err).Error("Failed to disconnect MongoDB")
		}
	}
	return mongo.NewMongoExerciseRepository(db), mongo.NewMongoWorkoutRepository(db), closeFn, nil
}
