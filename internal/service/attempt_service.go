package service

import (
	"context"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/dto"
	"quizhub/internal/logger"
	"quizhub/internal/repository"
	"quizhub/internal/util"

	"go.uber.org/zap"
)

// AttemptService grades submissions and records them together with the
// performance and leaderboard rollups.
type AttemptService interface {
	SubmitAttempt(ctx context.Context, userID, quizID string, req dto.SubmitAttemptRequest) (*dto.AttemptResultResponse, error)
	GetAttemptHistory(ctx context.Context, userID string) (*dto.AttemptListResponse, error)
}

type attemptServiceImpl struct {
	quizRepo    repository.QuizRepository
	attemptRepo repository.AttemptRepository
	cache       domain.Cache
	txMgr       domain.TransactionManager
}

// NewAttemptService creates a new instance of AttemptService.
func NewAttemptService(
	quizRepo repository.QuizRepository,
	attemptRepo repository.AttemptRepository,
	cache domain.Cache,
	txMgr domain.TransactionManager,
) AttemptService {
	return &attemptServiceImpl{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		cache:       cache,
		txMgr:       txMgr,
	}
}

// SubmitAttempt grades the submission against the quiz's correct answer sets
// and persists the attempt, its per-selection answers, the performance
// replace and the leaderboard high score in one transaction. A question is
// correct when any selected answer belongs to its correct set.
func (s *attemptServiceImpl) SubmitAttempt(ctx context.Context, userID, quizID string, req dto.SubmitAttemptRequest) (*dto.AttemptResultResponse, error) {
	if quizID == "" {
		return nil, domain.NewInvalidSubmissionError("quiz id is required")
	}
	if len(req.Answers) == 0 {
		return nil, domain.NewInvalidSubmissionError("submission contains no answers")
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewStorageError("failed to fetch quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	questions, err := s.quizRepo.GetQuestionsWithAnswers(ctx, quizID)
	if err != nil {
		return nil, domain.NewStorageError("failed to fetch questions", err)
	}

	correctSets := make(map[string][]string, len(questions))
	for i := range questions {
		correctSets[questions[i].ID] = questions[i].CorrectAnswerIDs()
	}

	submission := make(domain.Submission, len(req.Answers))
	for questionID, selection := range req.Answers {
		submission[questionID] = []string(selection)
	}

	score, results := domain.GradeSubmission(correctSets, submission)
	totalQuestions := len(submission)
	now := time.Now()

	attempt := &domain.Attempt{
		ID:             util.NewULID(),
		UserID:         userID,
		QuizID:         quizID,
		Score:          score,
		TotalQuestions: totalQuestions,
		AttemptedAt:    now,
	}

	var userAnswers []domain.UserAnswer
	for _, result := range results {
		for _, selection := range result.Selections {
			userAnswers = append(userAnswers, domain.UserAnswer{
				ID:               util.NewULID(),
				UserID:           userID,
				QuizID:           quizID,
				AttemptID:        attempt.ID,
				QuestionID:       result.QuestionID,
				SelectedAnswerID: selection.AnswerID,
				IsCorrect:        selection.IsCorrect,
				CreatedAt:        now,
			})
		}
	}

	perf := &domain.UserPerformance{
		UserID:         userID,
		QuizID:         quizID,
		TotalQuestions: totalQuestions,
		CorrectAnswers: score,
		WrongAnswers:   totalQuestions - score,
		UpdatedAt:      now,
	}
	entry := &domain.LeaderboardEntry{
		UserID:     userID,
		QuizID:     quizID,
		HighScore:  score,
		RecordedAt: now,
	}

	err = s.txMgr.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.attemptRepo.CreateAttempt(txCtx, attempt); err != nil {
			return err
		}
		if err := s.attemptRepo.CreateUserAnswers(txCtx, userAnswers); err != nil {
			return err
		}
		if err := s.attemptRepo.UpsertPerformance(txCtx, perf); err != nil {
			return err
		}
		return s.attemptRepo.UpsertLeaderboardEntry(txCtx, entry)
	})
	if err != nil {
		return nil, domain.NewStorageError("failed to record attempt", err)
	}

	s.invalidateLeaderboard(ctx)
	logger.Get().Info("Attempt recorded",
		zap.String("userID", userID),
		zap.String("quizID", quizID),
		zap.String("attemptID", attempt.ID),
		zap.Int("score", score),
		zap.Int("totalQuestions", totalQuestions))

	response := &dto.AttemptResultResponse{
		AttemptID:      attempt.ID,
		QuizID:         quizID,
		Score:          score,
		TotalQuestions: totalQuestions,
		AttemptedAt:    now,
		Questions:      make([]dto.QuestionResultResponse, 0, len(results)),
	}
	for _, result := range results {
		qr := dto.QuestionResultResponse{
			QuestionID: result.QuestionID,
			IsCorrect:  result.IsCorrect,
		}
		for _, selection := range result.Selections {
			qr.Selections = append(qr.Selections, dto.SelectionResultResponse{
				AnswerID:  selection.AnswerID,
				IsCorrect: selection.IsCorrect,
			})
		}
		response.Questions = append(response.Questions, qr)
	}
	return response, nil
}

// GetAttemptHistory returns the user's attempts newest first, with quiz
// titles resolved.
func (s *attemptServiceImpl) GetAttemptHistory(ctx context.Context, userID string) (*dto.AttemptListResponse, error) {
	attempts, titles, err := s.attemptRepo.GetAttemptsByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NewStorageError("failed to fetch attempts", err)
	}

	response := &dto.AttemptListResponse{
		Attempts: make([]dto.AttemptResponse, 0, len(attempts)),
		Total:    len(attempts),
	}
	for _, attempt := range attempts {
		response.Attempts = append(response.Attempts, dto.AttemptResponse{
			ID:             attempt.ID,
			QuizID:         attempt.QuizID,
			QuizTitle:      titles[attempt.QuizID],
			Score:          attempt.Score,
			TotalQuestions: attempt.TotalQuestions,
			AttemptedAt:    attempt.AttemptedAt,
		})
	}
	return response, nil
}

func (s *attemptServiceImpl) invalidateLeaderboard(ctx context.Context) {
	if err := s.cache.Delete(ctx, leaderboardCacheKey); err != nil && err != domain.ErrCacheMiss {
		logger.Get().Warn("Failed to invalidate leaderboard cache", zap.Error(err))
	}
}
