package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"learnquest-service/internal/domain"
	"learnquest-service/internal/llm"
)

// scenarioBonus is the flat credit award for completing a practice scenario.
const scenarioBonus = 10

// PracticeService drives the LLM tutor flow: scenario generation biased by
// weak areas, conversation turns and completion bonuses.
type PracticeService struct {
	store   PracticeStore
	tutor   llm.Client
	credits CreditLedger
	now     func() time.Time
	log     *slog.Logger
}

func NewPracticeService(store PracticeStore, tutor llm.Client, credits CreditLedger, log *slog.Logger) *PracticeService {
	if log == nil {
		log = slog.Default()
	}
	return &PracticeService{store: store, tutor: tutor, credits: credits, now: time.Now, log: log}
}

// Start generates and persists a new scenario. When no category is given the
// user's worst weak area (highest incorrect ratio) biases the generation.
func (s *PracticeService) Start(ctx context.Context, userID int64, category string, difficulty domain.Difficulty) (domain.Scenario, error) {
	if difficulty == "" {
		difficulty = domain.DifficultyMedium
	}
	targetWeakArea := ""
	if category == "" {
		areas, err := s.store.WeakAreas(ctx, userID)
		if err != nil {
			return domain.Scenario{}, err
		}
		if len(areas) > 0 && areas[0].Ratio() > 0 {
			category = areas[0].Category
			targetWeakArea = areas[0].Category
		}
	}

	text, err := s.tutor.GenerateScenario(ctx, llm.ScenarioRequest{
		Category:   category,
		Difficulty: string(difficulty),
		WeakArea:   targetWeakArea,
	})
	if err != nil {
		return domain.Scenario{}, err
	}

	scenario, err := s.store.CreateScenario(ctx, domain.Scenario{
		UserID:         userID,
		Text:           strings.TrimSpace(text),
		Category:       category,
		Difficulty:     difficulty,
		TargetWeakArea: targetWeakArea,
		CreatedAt:      s.now(),
	})
	if err != nil {
		return domain.Scenario{}, err
	}
	s.log.InfoContext(ctx, "practice scenario created",
		"user_id", userID, "scenario_id", scenario.ID, "category", category)
	return scenario, nil
}

// Scenarios returns the user's scenarios, newest first.
func (s *PracticeService) Scenarios(ctx context.Context, userID int64) ([]domain.Scenario, error) {
	return s.store.Scenarios(ctx, userID)
}

// Messages returns the conversation for one of the user's scenarios.
func (s *PracticeService) Messages(ctx context.Context, userID, scenarioID int64) ([]domain.ScenarioMessage, error) {
	if _, err := s.store.Scenario(ctx, userID, scenarioID); err != nil {
		return nil, err
	}
	return s.store.Messages(ctx, scenarioID)
}

// Send appends the user's message, obtains the tutor's reply and appends that
// too. Returns the full conversation including the new turns.
func (s *PracticeService) Send(ctx context.Context, userID, scenarioID int64, body string) ([]domain.ScenarioMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.ErrInvalidAnswers
	}
	scenario, err := s.store.Scenario(ctx, userID, scenarioID)
	if err != nil {
		return nil, err
	}

	history, err := s.store.Messages(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	turns := make([]llm.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, llm.Turn{Role: string(m.Role), Body: m.Body})
	}

	if _, err := s.store.AppendMessage(ctx, domain.ScenarioMessage{
		ScenarioID: scenarioID,
		Role:       domain.ScenarioRoleUser,
		Body:       body,
		CreatedAt:  s.now(),
	}); err != nil {
		return nil, err
	}

	reply, err := s.tutor.Reply(ctx, scenario.Text, turns, body)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.AppendMessage(ctx, domain.ScenarioMessage{
		ScenarioID: scenarioID,
		Role:       domain.ScenarioRoleAssistant,
		Body:       reply,
		CreatedAt:  s.now(),
	}); err != nil {
		return nil, err
	}
	return s.store.Messages(ctx, scenarioID)
}

// Complete marks a scenario finished, records the score and awards the flat
// bonus once. Completing an already-completed scenario is a no-op.
func (s *PracticeService) Complete(ctx context.Context, userID, scenarioID int64, score int) (int, error) {
	scenario, err := s.store.Scenario(ctx, userID, scenarioID)
	if err != nil {
		return 0, err
	}
	completedNow, err := s.store.CompleteScenario(ctx, scenarioID, score)
	if err != nil {
		return 0, err
	}
	if !completedNow {
		return 0, nil
	}
	if scenario.Category != "" {
		if err := s.store.TouchWeakArea(ctx, userID, scenario.Category); err != nil {
			return 0, err
		}
	}
	if _, err := s.credits.Adjust(ctx, userID, scenarioBonus, domain.TransactionBonus, "Completed practice scenario", scenarioID); err != nil {
		return 0, err
	}
	return scenarioBonus, nil
}

// WeakAreas returns the user's weak areas, worst ratio first.
func (s *PracticeService) WeakAreas(ctx context.Context, userID int64) ([]domain.WeakArea, error) {
	return s.store.WeakAreas(ctx, userID)
}
