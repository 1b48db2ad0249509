// Package llm defines the contract with the external tutor model. The real
// invocation service is owned elsewhere; this package only shapes requests
// and provides a scripted stand-in for offline runs and tests.
package llm

import (
	"context"
	"fmt"
)

// Turn is one prior exchange in a practice conversation.
type Turn struct {
	Role string // "user" or "assistant"
	Body string
}

// ScenarioRequest asks the tutor for a fresh practice case.
type ScenarioRequest struct {
	Category   string
	Difficulty string
	WeakArea   string
}

// Client is the conversational tutor collaborator.
type Client interface {
	GenerateScenario(ctx context.Context, req ScenarioRequest) (string, error)
	Reply(ctx context.Context, scenario string, history []Turn, message string) (string, error)
}

// Scripted is a deterministic Client used when no tutor backend is configured.
type Scripted struct{}

func NewScripted() *Scripted { return &Scripted{} }

func (s *Scripted) GenerateScenario(_ context.Context, req ScenarioRequest) (string, error) {
	category := req.Category
	if category == "" {
		category = "general knowledge"
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	text := fmt.Sprintf("Practice case (%s, %s): walk through the situation step by step and explain your reasoning.", category, difficulty)
	if req.WeakArea != "" {
		text += fmt.Sprintf(" This case targets your weak area: %s.", req.WeakArea)
	}
	return text, nil
}

func (s *Scripted) Reply(_ context.Context, _ string, history []Turn, message string) (string, error) {
	return fmt.Sprintf("Noted (turn %d). Consider what you answered: %q. What would you check next?", len(history)+1, message), nil
}
