// Package memory holds in-process implementations of every repository the
// app layer consumes. They back the zero-config dev server and the unit
// tests; Postgres/Redis replace them piecewise when configured.
package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"learnquest-service/internal/domain"
)

// Store is a mutex-guarded in-memory database. A single lock keeps every
// settlement (attempt + answers + credits + ledger row) atomic, mirroring the
// single-transaction guarantee of the Postgres implementation. Per-aggregate
// views (Users, Rewards, Videos) adapt it to the repository interfaces whose
// method names overlap.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time
	rnd *rand.Rand

	nextID map[string]int64

	users        map[int64]domain.User
	usersByName  map[string]int64
	quizzes      map[int64]domain.Quiz
	questions    map[int64]domain.Question
	attempts     map[int64]domain.Attempt
	answers      map[int64]domain.Answer
	transactions []domain.CreditTransaction
	rewards      map[int64]domain.Reward
	redemptions  []domain.Redemption
	videos       map[int64]domain.Video
	checkpoints  map[int64]domain.Checkpoint
	progress     map[[2]int64]domain.VideoProgress    // (userID, videoID)
	cpAnswers    map[[2]int64]domain.CheckpointAnswer // (userID, checkpointID)
	scenarios    map[int64]domain.Scenario
	messages     map[int64][]domain.ScenarioMessage
	weakAreas    map[int64]map[string]*domain.WeakArea // userID -> category
}

func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock allows deterministic timestamps in tests.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		now:         now,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID:      make(map[string]int64),
		users:       make(map[int64]domain.User),
		usersByName: make(map[string]int64),
		quizzes:     make(map[int64]domain.Quiz),
		questions:   make(map[int64]domain.Question),
		attempts:    make(map[int64]domain.Attempt),
		answers:     make(map[int64]domain.Answer),
		rewards:     make(map[int64]domain.Reward),
		videos:      make(map[int64]domain.Video),
		checkpoints: make(map[int64]domain.Checkpoint),
		progress:    make(map[[2]int64]domain.VideoProgress),
		cpAnswers:   make(map[[2]int64]domain.CheckpointAnswer),
		scenarios:   make(map[int64]domain.Scenario),
		messages:    make(map[int64][]domain.ScenarioMessage),
		weakAreas:   make(map[int64]map[string]*domain.WeakArea),
	}
}

// Users returns the account view of the store.
func (s *Store) Users() *Users { return &Users{s: s} }

// Rewards returns the reward catalog view of the store.
func (s *Store) Rewards() *Rewards { return &Rewards{s: s} }

// Videos returns the video library view of the store.
func (s *Store) Videos() *Videos { return &Videos{s: s} }

func (s *Store) nextIDFor(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

// --- seeding helpers -------------------------------------------------------

// AddQuiz inserts a quiz and its questions, assigning ids.
func (s *Store) AddQuiz(quiz domain.Quiz, questions []domain.Question) domain.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quiz.ID == 0 {
		quiz.ID = s.nextIDFor("quizzes")
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = s.now()
	}
	quiz.QuestionCount = len(questions)
	s.quizzes[quiz.ID] = quiz
	for _, q := range questions {
		if q.ID == 0 {
			q.ID = s.nextIDFor("questions")
		}
		q.QuizID = quiz.ID
		if q.CreatedAt.IsZero() {
			q.CreatedAt = s.now()
		}
		s.questions[q.ID] = q
	}
	return quiz
}

// AddReward inserts a catalog entry, assigning an id.
func (s *Store) AddReward(r domain.Reward) domain.Reward {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		r.ID = s.nextIDFor("rewards")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	s.rewards[r.ID] = r
	return r
}

// AddVideo inserts a video module and its checkpoints, assigning ids.
func (s *Store) AddVideo(v domain.Video, checkpoints []domain.Checkpoint) domain.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == 0 {
		v.ID = s.nextIDFor("videos")
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.now()
	}
	s.videos[v.ID] = v
	for _, cp := range checkpoints {
		if cp.ID == 0 {
			cp.ID = s.nextIDFor("checkpoints")
		}
		cp.VideoID = v.ID
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = s.now()
		}
		s.checkpoints[cp.ID] = cp
	}
	return v
}

// SetRole promotes or demotes a user. Used by seeding and tests.
func (s *Store) SetRole(id int64, role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		user.Role = role
		s.users[id] = user
	}
}

// --- Users (app.UserStore) -------------------------------------------------

type Users struct{ s *Store }

func (u *Users) UpsertByName(_ context.Context, name string) (domain.User, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.usersByName[name]; ok {
		user := s.users[id]
		user.LastSignedIn = s.now()
		s.users[id] = user
		return user, nil
	}
	user := domain.User{
		ID:           s.nextIDFor("users"),
		Name:         name,
		Role:         domain.RoleUser,
		CreatedAt:    s.now(),
		LastSignedIn: s.now(),
	}
	s.users[user.ID] = user
	s.usersByName[name] = user.ID
	return user, nil
}

func (u *Users) Get(_ context.Context, id int64) (domain.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	user, ok := u.s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

// --- QuestionStore ---------------------------------------------------------

func (s *Store) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quiz, 0, len(s.quizzes))
	for _, q := range s.quizzes {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetQuiz(_ context.Context, quizID int64) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *Store) Questions(_ context.Context, quizID int64) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return nil, domain.ErrQuizNotFound
	}
	return s.questionsLocked(quizID), nil
}

func (s *Store) questionsLocked(quizID int64) []domain.Question {
	var out []domain.Question
	for _, q := range s.questions {
		if q.QuizID == quizID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Sample(_ context.Context, filter domain.QuestionFilter) ([]domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pool []domain.Question
	for _, q := range s.questions {
		if filter.Category != "" && q.Category != filter.Category {
			continue
		}
		if filter.Difficulty != "" && q.Difficulty != filter.Difficulty {
			continue
		}
		pool = append(pool, q)
	}
	s.rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if filter.Limit > 0 && len(pool) > filter.Limit {
		pool = pool[:filter.Limit]
	}
	return pool, nil
}

// --- AnswerKeyRepository ---------------------------------------------------

func (s *Store) AnswerKey(_ context.Context, quizID int64) (domain.AnswerKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return domain.AnswerKey{}, domain.ErrQuizNotFound
	}
	key := domain.AnswerKey{
		QuizID:     quizID,
		Correct:    make(map[int64]domain.OptionLetter),
		Categories: make(map[int64]string),
	}
	for _, q := range s.questionsLocked(quizID) {
		key.Correct[q.ID] = q.CorrectOption
		key.Categories[q.ID] = q.Category
	}
	return key, nil
}

// --- AttemptLedger ---------------------------------------------------------

func (s *Store) HasCompleted(_ context.Context, userID, quizID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasCompletedLocked(userID, quizID), nil
}

func (s *Store) hasCompletedLocked(userID, quizID int64) bool {
	for _, a := range s.attempts {
		if a.UserID == userID && a.QuizID == quizID && a.Completed {
			return true
		}
	}
	return false
}

func (s *Store) RecordSettlement(_ context.Context, settlement domain.Settlement) (domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasCompletedLocked(settlement.UserID, settlement.QuizID) {
		return domain.Attempt{}, domain.ErrAlreadyCompleted
	}
	user, ok := s.users[settlement.UserID]
	if !ok {
		return domain.Attempt{}, domain.ErrUserNotFound
	}

	attempt := domain.Attempt{
		ID:             s.nextIDFor("attempts"),
		UserID:         settlement.UserID,
		QuizID:         settlement.QuizID,
		Score:          settlement.Score,
		TotalQuestions: settlement.TotalQuestions,
		Completed:      true,
		CreditsEarned:  settlement.CreditsEarned,
		CompletedAt:    s.now(),
	}
	s.attempts[attempt.ID] = attempt

	for _, answer := range settlement.Answers {
		answer.ID = s.nextIDFor("answers")
		answer.AttemptID = attempt.ID
		answer.AnsweredAt = attempt.CompletedAt
		s.answers[answer.ID] = answer
	}

	if settlement.CreditsEarned > 0 {
		user.Credits += settlement.CreditsEarned
		s.users[user.ID] = user
		s.appendTransactionLocked(user.ID, settlement.CreditsEarned, domain.TransactionEarned, settlement.Description, attempt.ID)
	}
	for category, delta := range settlement.WeakAreas {
		s.bumpWeakAreaLocked(settlement.UserID, category, delta)
	}
	return attempt, nil
}

func (s *Store) History(_ context.Context, userID int64) ([]domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Attempt
	for _, a := range s.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].CompletedAt.After(out[j].CompletedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) DeleteCompleted(_ context.Context, userID, quizID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := false
	for id, a := range s.attempts {
		if a.UserID == userID && a.QuizID == quizID && a.Completed {
			for answerID, answer := range s.answers {
				if answer.AttemptID == id {
					delete(s.answers, answerID)
				}
			}
			delete(s.attempts, id)
			deleted = true
		}
	}
	if !deleted {
		return domain.ErrAttemptNotFound
	}
	return nil
}

// --- CreditLedger ----------------------------------------------------------

func (s *Store) Adjust(_ context.Context, userID int64, delta int, typ domain.TransactionType, description string, relatedID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	if user.Credits+delta < 0 {
		return 0, domain.ErrInsufficientCredits
	}
	user.Credits += delta
	s.users[userID] = user
	s.appendTransactionLocked(userID, delta, typ, description, relatedID)
	return user.Credits, nil
}

func (s *Store) appendTransactionLocked(userID int64, amount int, typ domain.TransactionType, description string, relatedID int64) {
	s.transactions = append(s.transactions, domain.CreditTransaction{
		ID:          s.nextIDFor("credit_transactions"),
		UserID:      userID,
		Amount:      amount,
		Type:        typ,
		Description: description,
		RelatedID:   relatedID,
		CreatedAt:   s.now(),
	})
}

func (s *Store) Transactions(_ context.Context, userID int64) ([]domain.CreditTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.CreditTransaction
	for _, tx := range s.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// --- Rewards (app.RewardStore) ---------------------------------------------

type Rewards struct{ s *Store }

func (r *Rewards) ListActive(_ context.Context) ([]domain.Reward, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Reward
	for _, rw := range s.rewards {
		if rw.Active {
			out = append(out, rw)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].CreditCost < out[j].CreditCost
	})
	return out, nil
}

func (r *Rewards) Get(_ context.Context, rewardID int64) (domain.Reward, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	reward, ok := r.s.rewards[rewardID]
	if !ok {
		return domain.Reward{}, domain.ErrRewardNotFound
	}
	return reward, nil
}

func (r *Rewards) Redeem(_ context.Context, userID int64, reward domain.Reward, expiresAt time.Time) (domain.Redemption, int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return domain.Redemption{}, 0, domain.ErrUserNotFound
	}
	if user.Credits < reward.CreditCost {
		return domain.Redemption{}, 0, domain.ErrInsufficientCredits
	}
	user.Credits -= reward.CreditCost
	s.users[userID] = user

	redemption := domain.Redemption{
		ID:           s.nextIDFor("redemptions"),
		UserID:       userID,
		RewardID:     reward.ID,
		RewardName:   reward.Name,
		Category:     reward.Category,
		CreditsSpent: reward.CreditCost,
		Status:       domain.RedemptionPending,
		RedeemedAt:   s.now(),
		ExpiresAt:    expiresAt,
	}
	s.redemptions = append(s.redemptions, redemption)
	s.appendTransactionLocked(userID, -reward.CreditCost, domain.TransactionSpent, "Redeemed: "+reward.Name, redemption.ID)
	return redemption, user.Credits, nil
}

func (r *Rewards) Redemptions(_ context.Context, userID int64) ([]domain.Redemption, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Redemption
	for _, rd := range r.s.redemptions {
		if rd.UserID == userID {
			out = append(out, rd)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// --- LeaderboardSource -----------------------------------------------------

func (s *Store) TopN(_ context.Context, limit int) ([]domain.LeaderboardRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]domain.LeaderboardRow, 0, len(s.users))
	for _, user := range s.users {
		row := domain.LeaderboardRow{UserID: user.ID, Name: user.Name, Credits: user.Credits}
		for _, a := range s.attempts {
			if a.UserID == user.ID && a.Completed {
				row.TotalScore += a.Score
				row.TotalAttempts++
			}
		}
		if row.TotalAttempts > 0 {
			row.AverageScore = float64(row.TotalScore) / float64(row.TotalAttempts)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalScore != rows[j].TotalScore {
			return rows[i].TotalScore > rows[j].TotalScore
		}
		return rows[i].UserID < rows[j].UserID
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// --- Videos (app.VideoStore) -----------------------------------------------

type Videos struct{ s *Store }

func (v *Videos) ListActive(_ context.Context) ([]domain.Video, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []domain.Video
	for _, video := range v.s.videos {
		if video.Active {
			out = append(out, video)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *Videos) Get(_ context.Context, videoID int64) (domain.Video, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	video, ok := v.s.videos[videoID]
	if !ok {
		return domain.Video{}, domain.ErrVideoNotFound
	}
	return video, nil
}

func (v *Videos) Checkpoints(_ context.Context, videoID int64) ([]domain.Checkpoint, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []domain.Checkpoint
	for _, cp := range v.s.checkpoints {
		if cp.VideoID == videoID {
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PauseAt < out[j].PauseAt })
	return out, nil
}

func (v *Videos) GetCheckpoint(_ context.Context, checkpointID int64) (domain.Checkpoint, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	cp, ok := v.s.checkpoints[checkpointID]
	if !ok {
		return domain.Checkpoint{}, domain.ErrCheckpointNotFound
	}
	return cp, nil
}

func (v *Videos) Progress(_ context.Context, userID, videoID int64) (domain.VideoProgress, bool, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	p, ok := v.s.progress[[2]int64{userID, videoID}]
	return p, ok, nil
}

func (v *Videos) SaveProgress(_ context.Context, p domain.VideoProgress) (domain.VideoProgress, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int64{p.UserID, p.VideoID}
	if existing, ok := s.progress[key]; ok {
		p.ID = existing.ID
	} else {
		p.ID = s.nextIDFor("video_progress")
	}
	s.progress[key] = p
	return p, nil
}

func (v *Videos) SaveCheckpointProgress(_ context.Context, userID, videoID int64, score, total int) (bool, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int64{userID, videoID}
	p, ok := s.progress[key]
	if ok && p.CheckpointTotal > 0 && p.CheckpointScore >= p.CheckpointTotal {
		// A completed checkpoint set is frozen.
		return false, nil
	}
	if !ok {
		p = domain.VideoProgress{ID: s.nextIDFor("video_progress"), UserID: userID, VideoID: videoID}
	}
	p.CheckpointScore = score
	p.CheckpointTotal = total
	p.LastWatchedAt = s.now()
	s.progress[key] = p
	return total > 0 && score >= total, nil
}

func (v *Videos) SaveCheckpointAnswer(_ context.Context, a domain.CheckpointAnswer) (domain.CheckpointAnswer, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int64{a.UserID, a.CheckpointID}
	if existing, ok := s.cpAnswers[key]; ok {
		a.ID = existing.ID
		a.Tries = existing.Tries + 1
		// A passed checkpoint never reverts to incorrect.
		a.Correct = a.Correct || existing.Correct
	} else {
		a.ID = s.nextIDFor("checkpoint_answers")
		a.Tries = 1
	}
	s.cpAnswers[key] = a
	return a, nil
}

func (v *Videos) CheckpointAnswers(_ context.Context, userID, videoID int64) ([]domain.CheckpointAnswer, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []domain.CheckpointAnswer
	for _, a := range v.s.cpAnswers {
		if a.UserID == userID && a.VideoID == videoID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckpointID < out[j].CheckpointID })
	return out, nil
}

// --- PracticeStore ---------------------------------------------------------

func (s *Store) CreateScenario(_ context.Context, sc domain.Scenario) (domain.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc.ID = s.nextIDFor("scenarios")
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = s.now()
	}
	s.scenarios[sc.ID] = sc
	return sc, nil
}

func (s *Store) Scenario(_ context.Context, userID, scenarioID int64) (domain.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.scenarios[scenarioID]
	if !ok || sc.UserID != userID {
		return domain.Scenario{}, domain.ErrScenarioNotFound
	}
	return sc, nil
}

func (s *Store) Scenarios(_ context.Context, userID int64) ([]domain.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Scenario
	for _, sc := range s.scenarios {
		if sc.UserID == userID {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) CompleteScenario(_ context.Context, scenarioID int64, score int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.scenarios[scenarioID]
	if !ok {
		return false, domain.ErrScenarioNotFound
	}
	if sc.Completed {
		return false, nil
	}
	sc.Completed = true
	sc.Score = score
	s.scenarios[scenarioID] = sc
	return true, nil
}

func (s *Store) AppendMessage(_ context.Context, m domain.ScenarioMessage) (domain.ScenarioMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scenarios[m.ScenarioID]; !ok {
		return domain.ScenarioMessage{}, domain.ErrScenarioNotFound
	}
	m.ID = s.nextIDFor("scenario_messages")
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now()
	}
	s.messages[m.ScenarioID] = append(s.messages[m.ScenarioID], m)
	return m, nil
}

func (s *Store) Messages(_ context.Context, scenarioID int64) ([]domain.ScenarioMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[scenarioID]
	out := make([]domain.ScenarioMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *Store) WeakAreas(_ context.Context, userID int64) ([]domain.WeakArea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.WeakArea
	for _, wa := range s.weakAreas[userID] {
		out = append(out, *wa)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ratio() != out[j].Ratio() {
			return out[i].Ratio() > out[j].Ratio()
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (s *Store) TouchWeakArea(_ context.Context, userID int64, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wa, ok := s.weakAreas[userID][category]; ok {
		wa.LastPracticedAt = s.now()
	}
	return nil
}

func (s *Store) bumpWeakAreaLocked(userID int64, category string, delta domain.WeakAreaDelta) {
	byCategory := s.weakAreas[userID]
	if byCategory == nil {
		byCategory = make(map[string]*domain.WeakArea)
		s.weakAreas[userID] = byCategory
	}
	wa, ok := byCategory[category]
	if !ok {
		wa = &domain.WeakArea{
			ID:       s.nextIDFor("weak_areas"),
			UserID:   userID,
			Category: category,
		}
		byCategory[category] = wa
	}
	wa.IncorrectCount += delta.Incorrect
	wa.TotalAttempts += delta.Total
	wa.LastPracticedAt = s.now()
}
