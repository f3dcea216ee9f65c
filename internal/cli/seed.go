package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/vidhi-labs/vidhiai/internal/config"
	"github.com/vidhi-labs/vidhiai/internal/domain"
	"github.com/vidhi-labs/vidhiai/internal/repository"
	"github.com/vidhi-labs/vidhiai/internal/service"
)

// SeedCmd returns the seed command. It loads a shared corpus file, such
// as the Constitution of India, into the vector store. Corpus chunks
// carry no document reference and are retrievable by every user.
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Load a shared text corpus into the vector store",
		Long:  "Chunk, embed and store a plain-text corpus file so it is retrievable in every chat query",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeed,
	}

	cmd.Flags().String("source-name", "Constitution of India", "Source name recorded on each chunk")

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read corpus file: %w", err)
	}

	embedder, err := buildEmbeddingProvider(cfg)
	if err != nil {
		return err
	}
	if _, ok := embedder.(*NoOpEmbeddingProvider); ok {
		return fmt.Errorf("seeding requires an embedding provider")
	}

	texts, err := service.ChunkText(string(data), service.ChunkConfig{
		Size:    cfg.ChunkSize,
		Overlap: cfg.ChunkOverlap,
	})
	if err != nil {
		return fmt.Errorf("failed to chunk corpus: %w", err)
	}
	if len(texts) == 0 {
		return fmt.Errorf("corpus file produced no usable chunks")
	}
	log.Printf("corpus split into %d chunks", len(texts))

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := runMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	uuidGen := &service.DefaultUUIDGenerator{}
	sourceName, _ := cmd.Flags().GetString("source-name")

	now := time.Now().UTC()
	chunks := make([]domain.Chunk, 0, len(texts))
	var failed int
	for i, text := range texts {
		vector, err := embedder.GenerateEmbedding(ctx, text)
		if err != nil {
			log.Printf("chunk %d failed to embed: %v", i, err)
			failed++
			continue
		}

		chunks = append(chunks, domain.Chunk{
			ID:         uuidGen.NewString(),
			ChunkIndex: i,
			Content:    text,
			Embedding:  vector,
			SourceName: sourceName,
			CreatedAt:  now,
		})

		if (i+1)%50 == 0 {
			log.Printf("embedded %d/%d chunks", i+1, len(texts))
		}
	}

	if len(chunks) == 0 {
		return fmt.Errorf("all %d chunks failed to embed", failed)
	}

	// The corpus is stored whole or not at all; a half-seeded corpus
	// would silently skew retrieval.
	runner := repository.NewTxRunner(pool)
	err = runner.WithTx(ctx, func(repos service.TxRepositories) error {
		return repos.Chunks().InsertChunks(ctx, chunks)
	})
	if err != nil {
		return fmt.Errorf("failed to store corpus chunks: %w", err)
	}

	if failed > 0 {
		log.Printf("seed finished with %d of %d chunks failed to embed", failed, len(texts))
	} else {
		log.Printf("seed finished: %d chunks stored", len(chunks))
	}

	return nil
}
