package service

import (
	"context"
	"testing"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockQuizRepository is a manual mock of repository.QuizRepository.
type mockQuizRepository struct {
	GetQuizByIDFunc             func(ctx context.Context, quizID string) (*domain.Quiz, error)
	ListQuizzesFunc             func(ctx context.Context, search, category string) ([]domain.Quiz, error)
	ListCategoriesFunc          func(ctx context.Context) ([]string, error)
	GetQuestionsWithAnswersFunc func(ctx context.Context, quizID string) ([]domain.Question, error)
	CreateQuizFunc              func(ctx context.Context, quiz *domain.Quiz, questions []domain.Question) error
	UpdateQuizFunc              func(ctx context.Context, quiz *domain.Quiz) error
	DeleteQuizFunc              func(ctx context.Context, quizID string) error
}

func (m *mockQuizRepository) GetQuizByID(ctx context.Context, quizID string) (*domain.Quiz, error) {
	if m.GetQuizByIDFunc != nil {
		return m.GetQuizByIDFunc(ctx, quizID)
	}
	return nil, nil
}

func (m *mockQuizRepository) ListQuizzes(ctx context.Context, search, category string) ([]domain.Quiz, error) {
	if m.ListQuizzesFunc != nil {
		return m.ListQuizzesFunc(ctx, search, category)
	}
	return nil, nil
}

func (m *mockQuizRepository) ListCategories(ctx context.Context) ([]string, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	return nil, nil
}

func (m *mockQuizRepository) GetQuestionsWithAnswers(ctx context.Context, quizID string) ([]domain.Question, error) {
	if m.GetQuestionsWithAnswersFunc != nil {
		return m.GetQuestionsWithAnswersFunc(ctx, quizID)
	}
	return nil, nil
}

func (m *mockQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz, questions []domain.Question) error {
	if m.CreateQuizFunc != nil {
		return m.CreateQuizFunc(ctx, quiz, questions)
	}
	return nil
}

func (m *mockQuizRepository) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if m.UpdateQuizFunc != nil {
		return m.UpdateQuizFunc(ctx, quiz)
	}
	return nil
}

func (m *mockQuizRepository) DeleteQuiz(ctx context.Context, quizID string) error {
	if m.DeleteQuizFunc != nil {
		return m.DeleteQuizFunc(ctx, quizID)
	}
	return nil
}

// mockAttemptRepository is a manual mock of repository.AttemptRepository.
type mockAttemptRepository struct {
	CreatedAttempt  *domain.Attempt
	CreatedAnswers  []domain.UserAnswer
	UpsertedPerf    *domain.UserPerformance
	UpsertedEntry   *domain.LeaderboardEntry
	AttemptsHistory []domain.Attempt
	QuizTitles      map[string]string
}

func (m *mockAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.Attempt) error {
	m.CreatedAttempt = attempt
	return nil
}

func (m *mockAttemptRepository) CreateUserAnswers(ctx context.Context, answers []domain.UserAnswer) error {
	m.CreatedAnswers = answers
	return nil
}

func (m *mockAttemptRepository) UpsertPerformance(ctx context.Context, perf *domain.UserPerformance) error {
	m.UpsertedPerf = perf
	return nil
}

func (m *mockAttemptRepository) UpsertLeaderboardEntry(ctx context.Context, entry *domain.LeaderboardEntry) error {
	m.UpsertedEntry = entry
	return nil
}

func (m *mockAttemptRepository) GetAttemptsByUserID(ctx context.Context, userID string) ([]domain.Attempt, map[string]string, error) {
	return m.AttemptsHistory, m.QuizTitles, nil
}

// mockCache is an in-memory domain.Cache.
type mockCache struct {
	store   map[string]string
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{store: map[string]string{}}
}

func (m *mockCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.store[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	m.store[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	delete(m.store, key)
	return nil
}

func (m *mockCache) Ping(ctx context.Context) error { return nil }

// passthroughTxManager runs the function without a real transaction.
type passthroughTxManager struct{}

func (passthroughTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func sampleQuizQuestions() []domain.Question {
	return []domain.Question{
		{
			ID: "q1",
			Answers: []domain.Answer{
				{ID: "a1", IsCorrect: true},
				{ID: "a2", IsCorrect: false},
			},
		},
		{
			ID: "q2",
			Answers: []domain.Answer{
				{ID: "a3", IsCorrect: true},
				{ID: "a4", IsCorrect: true},
				{ID: "a5", IsCorrect: false},
			},
		},
	}
}

func newAttemptServiceFixture() (*mockQuizRepository, *mockAttemptRepository, *mockCache, AttemptService) {
	quizRepo := &mockQuizRepository{
		GetQuizByIDFunc: func(ctx context.Context, quizID string) (*domain.Quiz, error) {
			return &domain.Quiz{ID: quizID, Title: "Sample"}, nil
		},
		GetQuestionsWithAnswersFunc: func(ctx context.Context, quizID string) ([]domain.Question, error) {
			return sampleQuizQuestions(), nil
		},
	}
	attemptRepo := &mockAttemptRepository{}
	cache := newMockCache()
	svc := NewAttemptService(quizRepo, attemptRepo, cache, passthroughTxManager{})
	return quizRepo, attemptRepo, cache, svc
}

func TestSubmitAttempt_GradesAndPersists(t *testing.T) {
	_, attemptRepo, cache, svc := newAttemptServiceFixture()

	result, err := svc.SubmitAttempt(context.Background(), "user1", "quiz1", dto.SubmitAttemptRequest{
		Answers: map[string]dto.AnswerSelection{
			"q1": {"a1"},
			"q2": {"a4", "a5"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 2, result.TotalQuestions)
	require.NotNil(t, attemptRepo.CreatedAttempt)
	assert.Equal(t, 2, attemptRepo.CreatedAttempt.Score)
	assert.Equal(t, "user1", attemptRepo.CreatedAttempt.UserID)

	// One user_answers row per selection, three selections in total.
	require.Len(t, attemptRepo.CreatedAnswers, 3)
	byAnswer := map[string]bool{}
	for _, ua := range attemptRepo.CreatedAnswers {
		byAnswer[ua.SelectedAnswerID] = ua.IsCorrect
	}
	assert.True(t, byAnswer["a1"])
	assert.True(t, byAnswer["a4"])
	assert.False(t, byAnswer["a5"])

	require.NotNil(t, attemptRepo.UpsertedPerf)
	assert.Equal(t, 2, attemptRepo.UpsertedPerf.CorrectAnswers)
	assert.Equal(t, 0, attemptRepo.UpsertedPerf.WrongAnswers)

	require.NotNil(t, attemptRepo.UpsertedEntry)
	assert.Equal(t, 2, attemptRepo.UpsertedEntry.HighScore)

	assert.Contains(t, cache.deleted, "quizhub:stats:leaderboard:global")
}

func TestSubmitAttempt_WrongAnswersCounted(t *testing.T) {
	_, attemptRepo, _, svc := newAttemptServiceFixture()

	result, err := svc.SubmitAttempt(context.Background(), "user1", "quiz1", dto.SubmitAttemptRequest{
		Answers: map[string]dto.AnswerSelection{
			"q1": {"a2"},
			"q2": {"a3"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 1, attemptRepo.UpsertedPerf.CorrectAnswers)
	assert.Equal(t, 1, attemptRepo.UpsertedPerf.WrongAnswers)
}

func TestSubmitAttempt_EmptySubmissionRejected(t *testing.T) {
	_, _, _, svc := newAttemptServiceFixture()

	_, err := svc.SubmitAttempt(context.Background(), "user1", "quiz1", dto.SubmitAttemptRequest{})
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidSubmission, domainErr.Code)
}

func TestSubmitAttempt_QuizNotFound(t *testing.T) {
	quizRepo, _, _, svc := newAttemptServiceFixture()
	quizRepo.GetQuizByIDFunc = func(ctx context.Context, quizID string) (*domain.Quiz, error) {
		return nil, nil
	}

	_, err := svc.SubmitAttempt(context.Background(), "user1", "missing", dto.SubmitAttemptRequest{
		Answers: map[string]dto.AnswerSelection{"q1": {"a1"}},
	})
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeQuizNotFound, domainErr.Code)
}

func TestGetAttemptHistory_ResolvesTitles(t *testing.T) {
	_, attemptRepo, _, svc := newAttemptServiceFixture()
	now := time.Now()
	attemptRepo.AttemptsHistory = []domain.Attempt{
		{ID: "at2", QuizID: "quiz1", Score: 3, TotalQuestions: 4, AttemptedAt: now},
		{ID: "at1", QuizID: "quiz2", Score: 1, TotalQuestions: 2, AttemptedAt: now.Add(-time.Hour)},
	}
	attemptRepo.QuizTitles = map[string]string{"quiz1": "First", "quiz2": "Second"}

	history, err := svc.GetAttemptHistory(context.Background(), "user1")
	require.NoError(t, err)

	assert.Equal(t, 2, history.Total)
	assert.Equal(t, "First", history.Attempts[0].QuizTitle)
	assert.Equal(t, "Second", history.Attempts[1].QuizTitle)
}
