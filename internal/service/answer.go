package service

import (
	"context"
	"errors"
	"log"

	"github.com/vidhi-labs/vidhiai/internal/domain"
	"github.com/vidhi-labs/vidhiai/internal/telemetry"
)

// Generator produces the final answer text from an assembled prompt
type Generator interface {
	GenerateAnswer(ctx context.Context, prompt string) (string, error)
}

// Fixed user-facing fallback texts. Query-time failures are never shown
// to the caller as errors; one of these is returned instead.
const (
	SafetyRefusalText = "I'm sorry, but I can't help with that request. " +
		"I can only assist with questions about legal documents and Indian law. " +
		"Please rephrase your question or ask about a legal matter."

	GenerationApologyText = "I'm sorry, I ran into a problem while preparing your answer. " +
		"Please try asking again in a moment. Remember that I am not a lawyer; " +
		"for urgent matters, please consult a qualified legal professional."
)

// DefaultSearchThreshold is the minimum cosine similarity for retrieval
const DefaultSearchThreshold = 0.7

// DefaultSearchLimit caps how many chunks one query retrieves
const DefaultSearchLimit = 5

// AnswerService runs the query pipeline: embed the question, retrieve
// similar chunks, assemble context, synthesize the answer.
type AnswerService struct {
	embedder  EmbeddingProvider
	chunkRepo ChunkRepositoryInterface
	assembler *ContextAssembler
	generator Generator
	threshold float64
	limit     int
}

// AnswerConfig tunes retrieval.
type AnswerConfig struct {
	SearchThreshold float64
	SearchLimit     int
}

// NewAnswerService creates a new AnswerService instance
func NewAnswerService(
	embedder EmbeddingProvider,
	chunkRepo ChunkRepositoryInterface,
	assembler *ContextAssembler,
	generator Generator,
	cfg AnswerConfig,
) *AnswerService {
	if cfg.SearchThreshold <= 0 {
		cfg.SearchThreshold = DefaultSearchThreshold
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = DefaultSearchLimit
	}
	return &AnswerService{
		embedder:  embedder,
		chunkRepo: chunkRepo,
		assembler: assembler,
		generator: generator,
		threshold: cfg.SearchThreshold,
		limit:     cfg.SearchLimit,
	}
}

// AnswerInput is one chat query.
type AnswerInput struct {
	Question string
	// OwnerID scopes retrieval to one user's documents when set.
	OwnerID string
	// DocumentID scopes retrieval to a single document when set.
	DocumentID string
	History    []domain.ConversationTurn
}

// AnswerResult is the displayable outcome of a query.
type AnswerResult struct {
	Answer string
	// Source says where the supporting context came from.
	Source ContextSource
	// ChunksUsed is how many local chunks backed the answer.
	ChunksUsed int
}

// AnswerQuery always returns displayable text. Every failure inside the
// pipeline degrades to a fixed fallback message instead of an error;
// the only hard error is an empty question.
func (s *AnswerService) AnswerQuery(ctx context.Context, input AnswerInput) (*AnswerResult, error) {
	if input.Question == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "question cannot be empty")
	}

	ctx, span := telemetry.StartSpan(ctx, "AnswerService.AnswerQuery", telemetry.SpanAttributes{
		OwnerID:    input.OwnerID,
		DocumentID: input.DocumentID,
		Operation:  "answer_query",
	})
	defer span.End()

	results := s.retrieve(ctx, input)
	assembled := s.assembler.Assemble(ctx, input.Question, results)

	prompt := BuildPrompt(input.Question, assembled, input.History)

	answer, err := s.generator.GenerateAnswer(ctx, prompt)
	if err != nil {
		telemetry.CaptureError(ctx, err)
		if errors.Is(err, domain.ErrSafetyBlocked) {
			log.Printf("Generation blocked by safety filter")
			return &AnswerResult{Answer: SafetyRefusalText, Source: assembled.Source}, nil
		}
		log.Printf("Generation failed: %v", err)
		return &AnswerResult{Answer: GenerationApologyText, Source: assembled.Source}, nil
	}

	return &AnswerResult{
		Answer:     answer,
		Source:     assembled.Source,
		ChunksUsed: len(results),
	}, nil
}

// retrieve embeds the question and searches the vector store. Failures
// degrade to an empty result set, which triggers the web fallback.
func (s *AnswerService) retrieve(ctx context.Context, input AnswerInput) []domain.RetrievalResult {
	embedding, err := s.embedder.GenerateEmbedding(ctx, input.Question)
	if err != nil {
		log.Printf("Query embedding failed, falling back to web search: %v", err)
		return nil
	}

	filter := SearchFilter{DocumentID: input.DocumentID, OwnerID: input.OwnerID}
	results, err := s.chunkRepo.Search(ctx, embedding, s.threshold, s.limit, filter)
	if err != nil {
		log.Printf("Vector search failed, falling back to web search: %v", err)
		return nil
	}
	return results
}
