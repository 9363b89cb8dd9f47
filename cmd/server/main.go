package main

import (
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"coursedesk/internal/backend/memory"
	"coursedesk/internal/backend/rest"
	"coursedesk/internal/config"
	"coursedesk/internal/domain/backend"
	"coursedesk/internal/handler"
	"coursedesk/internal/middleware"
	"coursedesk/internal/notify"
	"coursedesk/internal/policy"
	servicecurriculum "coursedesk/internal/service/curriculum"
	"coursedesk/internal/service/upload"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// maxLogFiles bounds the per-run log files kept in LOG_DIR.
const maxLogFiles = 10

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, maxLogFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"memory_backend", cfg.MemoryBackend,
	)

	// Pick the backend collaborators: the REST system of record, or the
	// in-memory fake for UI development without one.
	var (
		curriculumBackend backend.Curriculum
		transferBackend   backend.Transfer
		conferencing      backend.Conferencing
	)
	if cfg.MemoryBackend {
		store := memory.New()
		curriculumBackend = store
		transferBackend = store
		conferencing = store
		logger.Warn("using in-memory backend, nothing will be persisted")
	} else {
		client := rest.NewClient(cfg.BackendURL, cfg.BackendToken, logger)
		curriculumBackend = client
		transferBackend = client
		conferencing = client
		logger.Info("backend configured", "url", cfg.BackendURL)
	}

	// Load tier policy from the embedded registry
	policyRegistry, err := policy.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize policy registry: %v", err)
	}

	// Create services
	feed := notify.NewFeed(logger)
	treeStore := servicecurriculum.NewStore(curriculumBackend, feed, logger)
	uploadManager := upload.NewManager(transferBackend, logger)
	lifecycle := servicecurriculum.NewController(
		treeStore,
		curriculumBackend,
		uploadManager,
		conferencing,
		policyRegistry,
		feed,
		logger,
	)

	// Create handlers
	curriculumHandler := handler.NewCurriculumHandler(treeStore, feed, logger)
	lessonHandler := handler.NewLessonHandler(lifecycle, treeStore, logger)
	uploadHandler := handler.NewUploadHandler(uploadManager, treeStore, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", curriculumHandler.HealthCheck)

	// Curriculum tree routes
	mux.HandleFunc("GET /api/curriculum", curriculumHandler.GetTree)
	mux.HandleFunc("POST /api/curriculum/load", curriculumHandler.LoadCourse)
	mux.HandleFunc("POST /api/curriculum/reload", curriculumHandler.ReloadCourse)

	// Section routes
	mux.HandleFunc("POST /api/sections", curriculumHandler.CreateSection)
	mux.HandleFunc("POST /api/sections/reorder", curriculumHandler.ReorderSections)
	mux.HandleFunc("PATCH /api/sections/{id}", curriculumHandler.UpdateSection)
	mux.HandleFunc("DELETE /api/sections/{id}", curriculumHandler.DeleteSection)
	mux.HandleFunc("POST /api/sections/{id}/lessons/reorder", curriculumHandler.ReorderLessons)

	// Lesson routes
	mux.HandleFunc("POST /api/lessons", lessonHandler.CreateLesson)
	mux.HandleFunc("PATCH /api/lessons/{id}", lessonHandler.UpdateLesson)
	mux.HandleFunc("DELETE /api/lessons/{id}", curriculumHandler.DeleteLesson)
	mux.HandleFunc("GET /api/lessons/{id}/content", lessonHandler.GetLessonContent)

	// Upload routes
	mux.HandleFunc("GET /api/uploads", uploadHandler.ListProgress)
	mux.HandleFunc("GET /api/lessons/{id}/upload", uploadHandler.GetProgress)
	mux.HandleFunc("POST /api/lessons/{id}/upload/cancel", uploadHandler.CancelUpload)
	mux.HandleFunc("POST /api/lessons/{id}/video/replace", uploadHandler.BeginReplace)
	mux.HandleFunc("POST /api/lessons/{id}/video/replace/resolve", uploadHandler.ResolveReplace)

	// Notice routes
	mux.HandleFunc("GET /api/notices", curriculumHandler.DrainNotices)

	// Build middleware chain
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 15 * time.Second,
		// Read/write timeouts stay disabled so large multipart uploads are
		// not cut off mid-transfer.
		ReadTimeout:  0,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
