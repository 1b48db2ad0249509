package app

import (
	"context"
	"fmt"
	"log/slog"

	"learnquest-service/internal/domain"
)

// QuizService contains the quiz-taking use cases: browsing quizzes, scoring
// submissions and settling the credit award.
type QuizService struct {
	quizzes  QuestionStore
	keys     AnswerKeyRepository
	attempts AttemptLedger
	board    *LeaderboardService
	log      *slog.Logger
}

func NewQuizService(quizzes QuestionStore, keys AnswerKeyRepository, attempts AttemptLedger, board *LeaderboardService, log *slog.Logger) *QuizService {
	if log == nil {
		log = slog.Default()
	}
	return &QuizService{quizzes: quizzes, keys: keys, attempts: attempts, board: board, log: log}
}

// List returns all quiz summaries.
func (s *QuizService) List(ctx context.Context) ([]domain.Quiz, error) {
	return s.quizzes.ListQuizzes(ctx)
}

// Questions returns the question set for a quiz with the answer key stripped.
// Correct answers are never serialized to in-progress clients.
func (s *QuizService) Questions(ctx context.Context, quizID int64) ([]domain.Question, error) {
	if _, err := s.quizzes.GetQuiz(ctx, quizID); err != nil {
		return nil, err
	}
	questions, err := s.quizzes.Questions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	public := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		public = append(public, q.Public())
	}
	return public, nil
}

// Practice returns a random question sample, answer key stripped.
func (s *QuizService) Practice(ctx context.Context, filter domain.QuestionFilter) ([]domain.Question, error) {
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	questions, err := s.quizzes.Sample(ctx, filter)
	if err != nil {
		return nil, err
	}
	public := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		public = append(public, q.Public())
	}
	return public, nil
}

// Submit scores an answer set against the quiz's answer key and settles the
// attempt: one attempt row, one answer row per scored pair, the proportional
// credit award and its ledger entry, all in a single transaction.
//
// Credit policy is PROPORTIONAL: floor(correct/total * quiz.creditsReward).
// Submitted question ids that do not belong to the quiz are skipped; duplicate
// ids are scored once (first occurrence wins).
func (s *QuizService) Submit(ctx context.Context, userID, quizID int64, submissions []domain.AnswerSubmission) (domain.SubmitResult, error) {
	if len(submissions) == 0 {
		return domain.SubmitResult{}, fmt.Errorf("%w: empty submission", domain.ErrInvalidAnswers)
	}
	for _, sub := range submissions {
		if !sub.Selected.Valid() {
			return domain.SubmitResult{}, fmt.Errorf("%w: option %q", domain.ErrInvalidAnswers, sub.Selected)
		}
	}

	// Fast fail; the attempt ledger enforces the same invariant atomically.
	completed, err := s.attempts.HasCompleted(ctx, userID, quizID)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	if completed {
		return domain.SubmitResult{}, domain.ErrAlreadyCompleted
	}

	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	key, err := s.keys.AnswerKey(ctx, quizID)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	total := key.Total()
	if total == 0 {
		return domain.SubmitResult{}, domain.ErrNoQuestions
	}

	var (
		score     int
		answers   []domain.Answer
		results   []domain.QuestionResult
		weakAreas = make(map[string]domain.WeakAreaDelta)
		seen      = make(map[int64]bool, len(submissions))
	)
	for _, sub := range submissions {
		correctOption, ok := key.Correct[sub.QuestionID]
		if !ok || seen[sub.QuestionID] {
			continue
		}
		seen[sub.QuestionID] = true

		correct := sub.Selected == correctOption
		if correct {
			score++
		}
		answers = append(answers, domain.Answer{
			QuestionID: sub.QuestionID,
			Selected:   sub.Selected,
			Correct:    correct,
		})
		results = append(results, domain.QuestionResult{
			QuestionID:    sub.QuestionID,
			Correct:       correct,
			CorrectAnswer: correctOption,
		})
		if category := key.Categories[sub.QuestionID]; category != "" {
			delta := weakAreas[category]
			delta.Total++
			if !correct {
				delta.Incorrect++
			}
			weakAreas[category] = delta
		}
	}

	creditsEarned := proportionalCredits(score, total, quiz.CreditsReward)
	attempt, err := s.attempts.RecordSettlement(ctx, domain.Settlement{
		UserID:         userID,
		QuizID:         quizID,
		Score:          score,
		TotalQuestions: total,
		CreditsEarned:  creditsEarned,
		Description:    "Completed quiz: " + quiz.Title,
		Answers:        answers,
		WeakAreas:      weakAreas,
	})
	if err != nil {
		return domain.SubmitResult{}, err
	}

	s.log.InfoContext(ctx, "quiz attempt settled",
		"user_id", userID, "quiz_id", quizID,
		"score", score, "total", total, "credits", creditsEarned)

	if s.board != nil {
		s.board.Refresh(ctx)
	}
	return domain.SubmitResult{
		AttemptID:      attempt.ID,
		Score:          score,
		TotalQuestions: total,
		CreditsEarned:  creditsEarned,
		Results:        results,
	}, nil
}

// History returns the calling user's attempts, most recent first.
func (s *QuizService) History(ctx context.Context, userID int64) ([]domain.Attempt, error) {
	return s.attempts.History(ctx, userID)
}

// Reset deletes a user's completed attempt so the quiz can be retaken.
// Admin only; earned credits are not clawed back.
func (s *QuizService) Reset(ctx context.Context, userID int64, role domain.Role, quizID int64) error {
	if role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := s.attempts.DeleteCompleted(ctx, userID, quizID); err != nil {
		return err
	}
	if s.board != nil {
		s.board.Refresh(ctx)
	}
	return nil
}

// proportionalCredits derives the credit award from the raw score. Integer
// arithmetic keeps the floor exact for any reward size.
func proportionalCredits(correct, total, reward int) int {
	if total <= 0 || correct <= 0 || reward <= 0 {
		return 0
	}
	return correct * reward / total
}
