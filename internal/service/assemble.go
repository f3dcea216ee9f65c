package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/vidhi-labs/vidhiai/internal/domain"
	"github.com/vidhi-labs/vidhiai/internal/websearch"
)

// WebSearcher runs a web search, used as the retrieval fallback
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]websearch.Result, error)
}

// ContextSource says where the assembled context came from
type ContextSource string

const (
	ContextSourceLocal ContextSource = "local"
	ContextSourceWeb   ContextSource = "web"
	ContextSourceNone  ContextSource = "none"
)

// NoContextText is the context block used when neither retrieval nor
// web search produced anything usable.
const NoContextText = "No relevant information was found for this question in the available documents or online sources."

// ConstitutionSourceLabel marks chunks from the shared constitution corpus
const ConstitutionSourceLabel = "[Indian Constitution]"

// ContextAssembler turns retrieval results into a single labeled context
// block, falling back to web search when retrieval comes back empty.
type ContextAssembler struct {
	searcher WebSearcher
}

// NewContextAssembler creates a ContextAssembler. searcher may be nil
// when web search is not configured.
func NewContextAssembler(searcher WebSearcher) *ContextAssembler {
	return &ContextAssembler{searcher: searcher}
}

// AssembledContext is the block handed to the response synthesizer.
type AssembledContext struct {
	Text   string
	Source ContextSource
}

// Assemble formats retrieval results into a context string. Empty results
// trigger the web-search fallback; a failed or unconfigured fallback
// yields the no-context text rather than an error.
func (a *ContextAssembler) Assemble(ctx context.Context, query string, results []domain.RetrievalResult) AssembledContext {
	if len(results) > 0 {
		return AssembledContext{
			Text:   formatRetrievalResults(results),
			Source: ContextSourceLocal,
		}
	}

	if a.searcher == nil {
		return AssembledContext{Text: NoContextText, Source: ContextSourceNone}
	}

	hits, err := a.searcher.Search(ctx, query)
	if err != nil {
		log.Printf("Web search fallback failed: %v", err)
		return AssembledContext{Text: NoContextText, Source: ContextSourceNone}
	}
	if len(hits) == 0 {
		return AssembledContext{Text: NoContextText, Source: ContextSourceNone}
	}

	return AssembledContext{
		Text:   formatWebResults(query, hits),
		Source: ContextSourceWeb,
	}
}

func formatRetrievalResults(results []domain.RetrievalResult) string {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(sourceLabel(r.Chunk))
		sb.WriteString("\n")
		sb.WriteString(r.Chunk.Content)
	}
	return sb.String()
}

// sourceLabel attributes a chunk to its origin. Chunks without a parent
// document belong to the shared constitution corpus.
func sourceLabel(c domain.Chunk) string {
	if c.DocumentID == "" {
		return ConstitutionSourceLabel
	}
	label := fmt.Sprintf("[Document: %s]", c.DocumentID)
	if c.SourceName != "" {
		label += " " + c.SourceName
	}
	return label
}

func formatWebResults(query string, hits []websearch.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Web search results for %q:", query)
	for _, h := range hits {
		sb.WriteString("\n\n")
		fmt.Fprintf(&sb, "[Web: %s] (%s)\n%s", h.Title, h.Link, h.Snippet)
	}
	return sb.String()
}
