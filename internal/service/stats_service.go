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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	leaderboardCacheTTL = time.Minute
	leaderboardSize     = 10
)

var leaderboardCacheKey = cache.GenerateCacheKey("stats", "leaderboard", "global")

// StatsService serves the leaderboard and per-user reporting.
type StatsService interface {
	GetLeaderboard(ctx context.Context) (*dto.LeaderboardResponse, error)
	GetPerformance(ctx context.Context, userID string) (*dto.PerformanceResponse, error)
	GetUserStats(ctx context.Context, userID string) (*dto.StatsResponse, error)
}

type statsServiceImpl struct {
	leaderboardRepo repository.LeaderboardRepository
	cache           domain.Cache
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(leaderboardRepo repository.LeaderboardRepository, cache domain.Cache) StatsService {
	return &statsServiceImpl{leaderboardRepo: leaderboardRepo, cache: cache}
}

// GetLeaderboard returns the top users ranked by correct percentage,
// tie-broken by most recent attempt. The result is cached for a minute and
// invalidated on every recorded attempt, so the cache only covers read
// bursts between submissions.
func (s *statsServiceImpl) GetLeaderboard(ctx context.Context) (*dto.LeaderboardResponse, error) {
	appLogger := logger.Get()

	if cached, err := s.cache.Get(ctx, leaderboardCacheKey); err == nil {
		var response dto.LeaderboardResponse
		if err := json.Unmarshal([]byte(cached), &response); err == nil {
			return &response, nil
		}
		appLogger.Warn("Failed to unmarshal cached leaderboard, falling back to DB")
	} else if err != domain.ErrCacheMiss {
		appLogger.Warn("Leaderboard cache read failed", zap.Error(err))
	}

	rows, err := s.leaderboardRepo.GetTopUsers(ctx, leaderboardSize)
	if err != nil {
		return nil, domain.NewStorageError("failed to fetch leaderboard", err)
	}

	response := &dto.LeaderboardResponse{
		Entries: make([]dto.LeaderboardEntryResponse, 0, len(rows)),
	}
	for i, row := range rows {
		response.Entries = append(response.Entries, dto.LeaderboardEntryResponse{
			Rank:           i + 1,
			UserID:         row.UserID,
			Username:       row.Username,
			CorrectPercent: row.CorrectPercent,
			LastAttemptAt:  row.LastAttemptAt,
		})
	}

	if payload, err := json.Marshal(response); err == nil {
		if err := s.cache.Set(ctx, leaderboardCacheKey, string(payload), leaderboardCacheTTL); err != nil {
			appLogger.Warn("Failed to cache leaderboard", zap.Error(err))
		}
	}
	return response, nil
}

// GetPerformance returns the caller's latest-attempt numbers per quiz.
func (s *statsServiceImpl) GetPerformance(ctx context.Context, userID string) (*dto.PerformanceResponse, error) {
	rows, err := s.leaderboardRepo.GetPerformanceByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NewStorageError("failed to fetch performance", err)
	}

	response := &dto.PerformanceResponse{
		Rows: make([]dto.PerformanceRowResponse, 0, len(rows)),
	}
	for _, row := range rows {
		response.Rows = append(response.Rows, dto.PerformanceRowResponse{
			QuizID:         row.QuizID,
			QuizTitle:      row.QuizTitle,
			TotalQuestions: row.TotalQuestions,
			CorrectAnswers: row.CorrectAnswers,
			WrongAnswers:   row.WrongAnswers,
			HighScore:      row.HighScore,
			UpdatedAt:      row.UpdatedAt,
		})
	}
	return response, nil
}

// GetUserStats combines attempt-table aggregates with the performance totals
// for one user. The two queries are independent and run concurrently.
func (s *statsServiceImpl) GetUserStats(ctx context.Context, userID string) (*dto.StatsResponse, error) {
	var (
		aggregates  *domain.AttemptAggregates
		performance []domain.PerformanceRow
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		aggregates, err = s.leaderboardRepo.GetAttemptAggregates(gCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		performance, err = s.leaderboardRepo.GetPerformanceByUserID(gCtx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewStorageError("failed to fetch user stats", err)
	}

	response := &dto.StatsResponse{
		AttemptCount:     aggregates.AttemptCount,
		QuizzesAttempted: aggregates.QuizzesAttempted,
		BestScore:        aggregates.BestScore,
		LastAttemptAt:    aggregates.LastAttemptAt,
	}
	for _, row := range performance {
		response.TotalQuestions += row.TotalQuestions
		response.CorrectAnswers += row.CorrectAnswers
		response.WrongAnswers += row.WrongAnswers
	}
	if response.TotalQuestions > 0 {
		response.CorrectPercent = float64(response.CorrectAnswers) * 100 / float64(response.TotalQuestions)
	}
	return response, nil
}
