package service

import (
	"context"
	"encoding/json"
	"time"

	"quizhub/internal/cache"
	"quizhub/internal/domain"
	"quizhub/internal/dto"
	"quizhub/internal/logger"
	"quizhub/internal/repository"
	"quizhub/internal/util"

	"go.uber.org/zap"
)

const categoriesCacheTTL = 10 * time.Minute

var categoriesCacheKey = cache.GenerateCacheKey("quiz", "categories", "all")

// QuizService exposes quiz catalog reads for players and quiz CRUD for
// admins. Answer correctness never leaves this layer on the read paths.
type QuizService interface {
	ListQuizzes(ctx context.Context, filters dto.QuizListFilters) ([]dto.QuizResponse, error)
	GetQuizDetail(ctx context.Context, quizID string) (*dto.QuizDetailResponse, error)
	ListCategories(ctx context.Context) ([]string, error)
	CreateQuiz(ctx context.Context, req dto.CreateQuizRequest) (*dto.QuizDetailResponse, error)
	UpdateQuiz(ctx context.Context, quizID string, req dto.UpdateQuizRequest) error
	DeleteQuiz(ctx context.Context, quizID string) error
}

type quizServiceImpl struct {
	quizRepo repository.QuizRepository
	cache    domain.Cache
	txMgr    domain.TransactionManager
}

// NewQuizService creates a new instance of QuizService.
func NewQuizService(quizRepo repository.QuizRepository, cache domain.Cache, txMgr domain.TransactionManager) QuizService {
	return &quizServiceImpl{quizRepo: quizRepo, cache: cache, txMgr: txMgr}
}

// ListQuizzes returns quiz summaries matching the filters. An empty or "all"
// category means no category restriction; search matches title or
// description case-insensitively.
func (s *quizServiceImpl) ListQuizzes(ctx context.Context, filters dto.QuizListFilters) ([]dto.QuizResponse, error) {
	quizzes, err := s.quizRepo.ListQuizzes(ctx, filters.Search, filters.Category)
	if err != nil {
		return nil, domain.NewStorageError("failed to list quizzes", err)
	}

	responses := make([]dto.QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		responses = append(responses, toQuizResponse(&quizzes[i]))
	}
	return responses, nil
}

// GetQuizDetail returns one quiz with its questions and answer options,
// stripped of correctness flags.
func (s *quizServiceImpl) GetQuizDetail(ctx context.Context, quizID string) (*dto.QuizDetailResponse, error) {
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

	detail := &dto.QuizDetailResponse{
		QuizResponse: toQuizResponse(quiz),
		Questions:    make([]dto.QuestionResponse, 0, len(questions)),
	}
	for _, q := range questions {
		qr := dto.QuestionResponse{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Answers:      make([]dto.AnswerOption, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			qr.Answers = append(qr.Answers, dto.AnswerOption{ID: a.ID, AnswerText: a.AnswerText})
		}
		detail.Questions = append(detail.Questions, qr)
	}
	return detail, nil
}

// ListCategories returns the distinct quiz categories, cached briefly since
// the set changes only on admin writes.
func (s *quizServiceImpl) ListCategories(ctx context.Context) ([]string, error) {
	appLogger := logger.Get()

	if cached, err := s.cache.Get(ctx, categoriesCacheKey); err == nil {
		var categories []string
		unmarshalErr := json.Unmarshal([]byte(cached), &categories)
		if unmarshalErr == nil {
			return categories, nil
		}
		appLogger.Warn("Failed to unmarshal cached categories, falling back to DB", zap.Error(unmarshalErr))
	} else if err != domain.ErrCacheMiss {
		appLogger.Warn("Category cache read failed", zap.Error(err))
	}

	categories, err := s.quizRepo.ListCategories(ctx)
	if err != nil {
		return nil, domain.NewStorageError("failed to list categories", err)
	}

	if payload, err := json.Marshal(categories); err == nil {
		if err := s.cache.Set(ctx, categoriesCacheKey, string(payload), categoriesCacheTTL); err != nil {
			appLogger.Warn("Failed to cache categories", zap.Error(err))
		}
	}
	return categories, nil
}

// CreateQuiz inserts a quiz with its questions and answers in one
// transaction and invalidates the category cache.
func (s *quizServiceImpl) CreateQuiz(ctx context.Context, req dto.CreateQuizRequest) (*dto.QuizDetailResponse, error) {
	quiz := &domain.Quiz{
		ID:          util.NewULID(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}

	questions := make([]domain.Question, 0, len(req.Questions))
	for i, qReq := range req.Questions {
		question := domain.Question{
			ID:           util.NewULID(),
			QuizID:       quiz.ID,
			QuestionText: qReq.QuestionText,
			Position:     i + 1,
		}
		for _, aReq := range qReq.Answers {
			question.Answers = append(question.Answers, domain.Answer{
				ID:         util.NewULID(),
				QuestionID: question.ID,
				AnswerText: aReq.AnswerText,
				IsCorrect:  aReq.IsCorrect,
			})
		}
		questions = append(questions, question)
	}

	err := s.txMgr.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.quizRepo.CreateQuiz(txCtx, quiz, questions)
	})
	if err != nil {
		return nil, domain.NewStorageError("failed to create quiz", err)
	}

	s.invalidateCategories(ctx)
	logger.Get().Info("Quiz created",
		zap.String("quizID", quiz.ID),
		zap.String("title", quiz.Title),
		zap.Int("questionCount", len(questions)))

	return s.GetQuizDetail(ctx, quiz.ID)
}

// UpdateQuiz updates the quiz metadata. Question edits go through delete and
// recreate; partial question updates are not supported.
func (s *quizServiceImpl) UpdateQuiz(ctx context.Context, quizID string, req dto.UpdateQuizRequest) error {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return domain.NewStorageError("failed to fetch quiz", err)
	}
	if quiz == nil {
		return domain.NewQuizNotFoundError(quizID)
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.Category != nil {
		quiz.Category = *req.Category
	}

	if err := s.quizRepo.UpdateQuiz(ctx, quiz); err != nil {
		return domain.NewStorageError("failed to update quiz", err)
	}
	s.invalidateCategories(ctx)
	return nil
}

// DeleteQuiz soft deletes a quiz so historical attempts keep resolving.
func (s *quizServiceImpl) DeleteQuiz(ctx context.Context, quizID string) error {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return domain.NewStorageError("failed to fetch quiz", err)
	}
	if quiz == nil {
		return domain.NewQuizNotFoundError(quizID)
	}
	if err := s.quizRepo.DeleteQuiz(ctx, quizID); err != nil {
		return domain.NewStorageError("failed to delete quiz", err)
	}
	s.invalidateCategories(ctx)
	logger.Get().Info("Quiz deleted", zap.String("quizID", quizID))
	return nil
}

func (s *quizServiceImpl) invalidateCategories(ctx context.Context) {
	if err := s.cache.Delete(ctx, categoriesCacheKey); err != nil && err != domain.ErrCacheMiss {
		logger.Get().Warn("Failed to invalidate category cache", zap.Error(err))
	}
}

func toQuizResponse(q *domain.Quiz) dto.QuizResponse {
	return dto.QuizResponse{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Category:    q.Category,
		CreatedAt:   q.CreatedAt,
	}
}
