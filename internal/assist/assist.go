// Package assist builds the prompts for the AI-backed menu actions:
// answering questions about the journal (retrieval-augmented when the
// vector index is up, whole-journal otherwise), summarizing it, and
// free-form chat.
package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mveldt/companion/internal/notes"
	"github.com/mveldt/companion/internal/vecindex"
)

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Querier interface {
	Query(ctx context.Context, text string, k int) ([]vecindex.Result, error)
}

type NoteLister interface {
	List() ([]notes.Note, error)
}

// Assistant wires the three collaborators together. Index may be nil when
// semantic search is not configured.
type Assistant struct {
	gw    Generator
	index Querier
	store NoteLister
	topK  int
	log   zerolog.Logger
}

func New(gw Generator, index Querier, store NoteLister, topK int, log zerolog.Logger) *Assistant {
	return &Assistant{gw: gw, index: index, store: store, topK: topK, log: log}
}

// Ask answers a question about the journal. It prefers semantically
// retrieved notes; when the index or embedder is down it degrades to the
// original whole-journal prompt so the feature keeps working.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	var retrieved []string

	if a.index != nil {
		results, err := a.index.Query(ctx, question, a.topK)
		if err != nil {
			a.log.Warn().Err(err).Msg("semantic retrieval unavailable, using all notes")
		}
		for _, r := range results {
			retrieved = append(retrieved, r.Document)
		}
	}

	if len(retrieved) == 0 {
		all, err := a.store.List()
		if err != nil {
			return "", err
		}
		if len(all) == 0 {
			return "", fmt.Errorf("no notes to search")
		}
		for _, n := range all {
			retrieved = append(retrieved, n.Content)
		}
	}

	return a.gw.Generate(ctx, askPrompt(retrieved, question))
}

// SemanticSearch exposes raw retrieval results for the search view.
func (a *Assistant) SemanticSearch(ctx context.Context, query string) ([]vecindex.Result, error) {
	if a.index == nil {
		return nil, fmt.Errorf("semantic search is not configured")
	}
	return a.index.Query(ctx, query, a.topK)
}

// Summarize asks the model for a grouped summary of everything learned.
func (a *Assistant) Summarize(ctx context.Context) (string, error) {
	all, err := a.store.List()
	if err != nil {
		return "", err
	}
	if len(all) == 0 {
		return "", fmt.Errorf("no notes to summarize")
	}
	var lines []string
	for _, n := range all {
		lines = append(lines, n.Content)
	}
	return a.gw.Generate(ctx, summaryPrompt(lines))
}

// Chat passes a message straight through to the model.
func (a *Assistant) Chat(ctx context.Context, message string) (string, error) {
	return a.gw.Generate(ctx, message)
}

func askPrompt(noteLines []string, question string) string {
	var b strings.Builder
	b.WriteString("Here are my learning notes:\n")
	for _, line := range noteLines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nPlease answer based ONLY on the notes above. If the answer isn't in the notes, say so.")
	return b.String()
}

func summaryPrompt(noteLines []string) string {
	var b strings.Builder
	b.WriteString("Here are my learning notes:\n")
	for _, line := range noteLines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\nPlease give me a brief summary of what I've been learning. Group by topics if possible.")
	return b.String()
}
