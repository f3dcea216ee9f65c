package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vidhi-labs/vidhiai/internal/domain"
)

func TestBuildPrompt_LocalContext(t *testing.T) {
	assembled := AssembledContext{Text: "[Document: doc-1] notice.pdf\nVacate within 30 days.", Source: ContextSourceLocal}

	prompt := BuildPrompt("What are my rights?", assembled, nil)

	assert.Contains(t, prompt, "You are Vidhi")
	assert.Contains(t, prompt, "1. Answer only from the provided context.")
	assert.Contains(t, prompt, "not a lawyer")
	assert.Contains(t, prompt, "retrieved from the user's own documents")
	assert.NotContains(t, prompt, "web search")
	assert.Contains(t, prompt, "Vacate within 30 days.")
	assert.Contains(t, prompt, "Question: What are my rights?")
}

func TestBuildPrompt_WebContext(t *testing.T) {
	assembled := AssembledContext{Text: `Web search results for "tenant rights"`, Source: ContextSourceWeb}

	prompt := BuildPrompt("What are my rights?", assembled, nil)

	assert.Contains(t, prompt, "comes from a web search")
	assert.NotContains(t, prompt, "authoritative source")
}

func TestBuildPrompt_NoContext(t *testing.T) {
	assembled := AssembledContext{Text: NoContextText, Source: ContextSourceNone}

	prompt := BuildPrompt("What are my rights?", assembled, nil)

	assert.Contains(t, prompt, "No relevant context was found")
}

func TestBuildPrompt_AllGuardrailsNumbered(t *testing.T) {
	prompt := BuildPrompt("q", AssembledContext{Text: "ctx", Source: ContextSourceLocal}, nil)

	for i, rule := range promptGuardrails {
		assert.Contains(t, prompt, fmt.Sprintf("%d. %s", i+1, rule))
	}
}

func TestBuildPrompt_History(t *testing.T) {
	history := []domain.ConversationTurn{
		{Role: domain.RoleUser, Content: "I received an eviction notice."},
		{Role: domain.RoleAssistant, Content: "Could you share when it was issued?"},
	}

	prompt := BuildPrompt("It was issued last week.", AssembledContext{Text: "ctx", Source: ContextSourceLocal}, history)

	assert.Contains(t, prompt, "Conversation so far:")
	assert.Contains(t, prompt, "User: I received an eviction notice.")
	assert.Contains(t, prompt, "Assistant: Could you share when it was issued?")

	// History precedes the question.
	assert.Less(t, strings.Index(prompt, "Conversation so far:"), strings.Index(prompt, "Question: It was issued last week."))
}

func TestBuildPrompt_NoHistorySection(t *testing.T) {
	prompt := BuildPrompt("q", AssembledContext{Text: "ctx", Source: ContextSourceLocal}, nil)

	assert.NotContains(t, prompt, "Conversation so far:")
}
