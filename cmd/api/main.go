package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/evalio-go-api/internal/config"
	"github.com/noah-isme/evalio-go-api/internal/database"
	"github.com/noah-isme/evalio-go-api/internal/handler"
	"github.com/noah-isme/evalio-go-api/internal/middleware"
	"github.com/noah-isme/evalio-go-api/internal/models"
	"github.com/noah-isme/evalio-go-api/internal/pacing"
	"github.com/noah-isme/evalio-go-api/internal/repository"
	"github.com/noah-isme/evalio-go-api/internal/router"
	"github.com/noah-isme/evalio-go-api/internal/service"
	"github.com/noah-isme/evalio-go-api/pkg/ai"
	"github.com/noah-isme/evalio-go-api/pkg/detector"
	"github.com/noah-isme/evalio-go-api/pkg/grammar"
	"github.com/noah-isme/evalio-go-api/pkg/retrieval"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Assignment{}, &models.Submission{}, &models.SubmissionGrade{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	aiClient, err := ai.NewOpenAIClient(ai.OpenAIConfig{
		APIKey:         cfg.OpenAIAPIKey,
		Model:          cfg.OpenAIModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Pacer:          pacing.NewInterval(cfg.LLMInterval),
		Logger:         logger,
	})
	if err != nil {
		log.Fatalf("failed to create ai client: %v", err)
	}

	detectorClient, err := detector.New(detector.Config{
		BaseURL: cfg.DetectorURL,
		Timeout: cfg.ExternalTimeout,
		Pacer:   pacing.NewInterval(cfg.DetectorInterval),
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("failed to create detector client: %v", err)
	}

	grammarClient, err := grammar.New(grammar.Config{
		BaseURL:       cfg.GrammarURL,
		Timeout:       cfg.ExternalTimeout,
		MaxChunkWords: cfg.GrammarChunkSize,
		Pacer:         pacing.NewInterval(cfg.GrammarInterval),
		Logger:        logger,
	})
	if err != nil {
		log.Fatalf("failed to create grammar client: %v", err)
	}

	searchers := retrieval.NewRegistry(retrieval.Config{
		BaseURL: cfg.RetrievalURL,
		Timeout: cfg.ExternalTimeout,
		TopK:    cfg.RetrievalTopK,
		Logger:  logger,
	})

	validate := validator.New(validator.WithRequiredStructEnabled())

	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	extractionRepo := repository.NewExtractionRepository(redisClient)
	evaluationRepo := repository.NewEvaluationRepository(redisClient)

	feedbackService := service.NewFeedbackService(aiClient, cfg.FeedbackRetries, logger)
	events := service.NewRunEventPublisher(natsConn, cfg.EventsSubject, logger)

	evaluationService := service.NewEvaluationService(
		assignmentRepo,
		submissionRepo,
		extractionRepo,
		evaluationRepo,
		gradeRepo,
		searchers,
		aiClient,
		aiClient,
		detectorClient,
		grammarClient,
		feedbackService,
		events,
		validate,
		logger,
		service.EvaluationConfig{
			DefaultTotalGrade: cfg.DefaultTotalGrade,
			EnablePlagiarism:  cfg.EnablePlagiarism,
			EnableAIDetection: cfg.EnableAIDetection,
			EnableGrammar:     cfg.EnableGrammar,
			RunLockTTL:        cfg.RunLockTTL,
		},
	)

	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		EvaluationHandler: evaluationHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
