package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/vidhi-labs/vidhiai/internal/api/handlers"
	"github.com/vidhi-labs/vidhiai/internal/config"
	"github.com/vidhi-labs/vidhiai/internal/domain"
	"github.com/vidhi-labs/vidhiai/internal/embedding"
	"github.com/vidhi-labs/vidhiai/internal/extract"
	"github.com/vidhi-labs/vidhiai/internal/gemini"
	"github.com/vidhi-labs/vidhiai/internal/jobs"
	"github.com/vidhi-labs/vidhiai/internal/repository"
	"github.com/vidhi-labs/vidhiai/internal/server"
	"github.com/vidhi-labs/vidhiai/internal/service"
	"github.com/vidhi-labs/vidhiai/internal/storage"
	"github.com/vidhi-labs/vidhiai/internal/telemetry"
	"github.com/vidhi-labs/vidhiai/internal/websearch"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the Vidhi API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	docRepo := repository.NewDocumentRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)

	var blobStore service.BlobStore
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		blobStore = s3Client
	}

	embedder, err := buildEmbeddingProvider(cfg)
	if err != nil {
		return err
	}

	var ocr extract.ImageTextReader
	var generator service.Generator = &NoOpGenerator{}
	if cfg.HasGemini() {
		geminiClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create gemini client: %w", err)
		}
		ocr = geminiClient
		generator = geminiClient
		log.Println("gemini client ready")
	} else {
		log.Println("GEMINI_API_KEY not set; answer generation disabled")
	}

	extractSvc := extract.NewService(ocr)

	ingestSvc := service.NewIngestService(docRepo, chunkRepo, embedder, extractSvc, service.IngestConfig{
		Chunking: service.ChunkConfig{
			Size:    cfg.ChunkSize,
			Overlap: cfg.ChunkOverlap,
		},
		Concurrency: cfg.EmbedConcurrency,
	})

	var searcher service.WebSearcher
	if cfg.HasWebSearch() {
		searchClient, err := websearch.NewClient(ctx, websearch.Config{
			APIKey:   cfg.SearchAPIKey,
			EngineID: cfg.SearchEngineID,
		})
		if err != nil {
			return fmt.Errorf("failed to create search client: %w", err)
		}
		searcher = searchClient
		log.Println("web search fallback enabled")
	}

	assembler := service.NewContextAssembler(searcher)
	answerSvc := service.NewAnswerService(embedder, chunkRepo, assembler, generator, service.AnswerConfig{
		SearchThreshold: cfg.SearchThreshold,
		SearchLimit:     cfg.SearchLimit,
	})
	docSvc := service.NewDocumentService(docRepo, chunkRepo, blobStore, extractSvc, ingestSvc)

	ingestProcessor := jobs.NewIngestWorker(docRepo, blobStore, ingestSvc)
	ingestWorker := jobs.NewWorker(ingestProcessor, 10*time.Second)
	go ingestWorker.Start(ctx)
	log.Println("ingest worker started")

	routerCfg := server.RouterConfig{
		DocumentHandler: handlers.NewDocumentHandler(docSvc),
		ChatHandler:     handlers.NewChatHandler(answerSvc),
		EmbedHandler:    handlers.NewEmbedHandler(embedder),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	ingestWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// buildEmbeddingProvider assembles the fallback chain: OpenAI primary,
// the HTTP endpoint secondary. Either may be absent.
func buildEmbeddingProvider(cfg *config.Config) (embedding.Provider, error) {
	var primary, secondary embedding.Provider

	if cfg.HasOpenAI() {
		client, err := embedding.NewOpenAIClientWithConfig(embedding.OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			Dimensions: cfg.EmbeddingDimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		primary = client
	}

	if cfg.EmbeddingFallbackURL != "" {
		client, err := embedding.NewHTTPClient(embedding.HTTPConfig{
			BaseURL:    cfg.EmbeddingFallbackURL,
			Dimensions: cfg.EmbeddingDimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create fallback embedding client: %w", err)
		}
		secondary = client
	}

	switch {
	case primary != nil:
		return embedding.NewFallbackProvider(primary, secondary), nil
	case secondary != nil:
		log.Println("OPENAI_API_KEY not set; using fallback embedding endpoint only")
		return secondary, nil
	default:
		log.Println("no embedding provider configured; ingestion and retrieval disabled")
		return &NoOpEmbeddingProvider{}, nil
	}
}

type NoOpEmbeddingProvider struct{}

func (p *NoOpEmbeddingProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, domain.ErrEmbeddingNotConfigured
}

type NoOpGenerator struct{}

func (g *NoOpGenerator) GenerateAnswer(ctx context.Context, prompt string) (string, error) {
	return "", domain.ErrGenerationNotConfigured
}

func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
