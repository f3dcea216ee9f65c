package service

import (
	"fmt"
	"strings"

	"github.com/vidhi-labs/vidhiai/internal/domain"
)

const systemPersona = `You are Vidhi, a legal information assistant for India. ` +
	`You help people understand legal documents, notices, and their rights ` +
	`under Indian law in clear, simple language.`

// promptGuardrails are the hard constraints embedded in every prompt.
// Numbered so the model treats them as an ordered checklist.
var promptGuardrails = []string{
	"Answer only from the provided context. Never fabricate facts, case law, section numbers, or citations.",
	"Answer only questions within the legal domain. Politely decline anything else.",
	"Never produce explicit, harmful, or abusive content.",
	"Always disclose that you are not a lawyer and that your answers are general information, not legal advice.",
	"Cite the sources from the context that support your answer.",
	"If the question is ambiguous or the context is insufficient, ask a clarifying question instead of guessing.",
}

const localContextNote = "The context below was retrieved from the user's own documents " +
	"and the reference corpus. Treat it as the authoritative source for this answer."

const webContextNote = "No matching local documents were found, so the context below comes " +
	"from a web search. Present it as general information from the web, mention that it was " +
	"found online, and be explicit about its limitations."

const noContextNote = "No relevant context was found at all. Say so plainly, and suggest " +
	"what the user could provide or clarify to get a useful answer."

// BuildPrompt assembles the full generation prompt: persona, guardrails,
// a note on where the context came from, the context block, prior turns,
// and the user's question.
func BuildPrompt(question string, assembled AssembledContext, history []domain.ConversationTurn) string {
	var sb strings.Builder

	sb.WriteString(systemPersona)
	sb.WriteString("\n\nFollow these rules without exception:\n")
	for i, rule := range promptGuardrails {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, rule)
	}

	sb.WriteString("\n")
	switch assembled.Source {
	case ContextSourceWeb:
		sb.WriteString(webContextNote)
	case ContextSourceNone:
		sb.WriteString(noContextNote)
	default:
		sb.WriteString(localContextNote)
	}

	sb.WriteString("\n\nContext:\n")
	sb.WriteString(assembled.Text)

	if len(history) > 0 {
		sb.WriteString("\n\nConversation so far:\n")
		sb.WriteString(formatHistory(history))
	}

	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer in markdown.")

	return sb.String()
}

func formatHistory(history []domain.ConversationTurn) string {
	var sb strings.Builder
	for i, turn := range history {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch turn.Role {
		case domain.RoleAssistant:
			sb.WriteString("Assistant: ")
		default:
			sb.WriteString("User: ")
		}
		sb.WriteString(turn.Content)
	}
	return sb.String()
}
