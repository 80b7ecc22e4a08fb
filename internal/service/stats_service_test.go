package service

import (
	"context"
	"testing"
	"time"

	"quizhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLeaderboardRepository is a manual mock of repository.LeaderboardRepository.
type mockLeaderboardRepository struct {
	TopUsersCalls int
	TopUsers      []domain.LeaderboardRow
	Performance   []domain.PerformanceRow
	Aggregates    *domain.AttemptAggregates
}

func (m *mockLeaderboardRepository) GetTopUsers(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	m.TopUsersCalls++
	if limit < len(m.TopUsers) {
		return m.TopUsers[:limit], nil
	}
	return m.TopUsers, nil
}

func (m *mockLeaderboardRepository) GetPerformanceByUserID(ctx context.Context, userID string) ([]domain.PerformanceRow, error) {
	return m.Performance, nil
}

func (m *mockLeaderboardRepository) GetAttemptAggregates(ctx context.Context, userID string) (*domain.AttemptAggregates, error) {
	if m.Aggregates != nil {
		return m.Aggregates, nil
	}
	return &domain.AttemptAggregates{}, nil
}

func TestGetLeaderboard_RanksAndCaches(t *testing.T) {
	now := time.Now()
	repo := &mockLeaderboardRepository{
		TopUsers: []domain.LeaderboardRow{
			{UserID: "user1", Username: "alice", CorrectPercent: 90, LastAttemptAt: now},
			{UserID: "user2", Username: "bob", CorrectPercent: 70, LastAttemptAt: now},
		},
	}
	cache := newMockCache()
	svc := NewStatsService(repo, cache)

	first, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Entries, 2)
	assert.Equal(t, 1, first.Entries[0].Rank)
	assert.Equal(t, "alice", first.Entries[0].Username)
	assert.Equal(t, 2, first.Entries[1].Rank)

	// Second call is served from the cache, keyed through the shared builder.
	assert.Contains(t, cache.store, "quizhub:stats:leaderboard:global")
	second, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Entries, second.Entries)
	assert.Equal(t, 1, repo.TopUsersCalls)
}

func TestGetUserStats_AggregatesPerformance(t *testing.T) {
	now := time.Now()
	repo := &mockLeaderboardRepository{
		Aggregates: &domain.AttemptAggregates{
			AttemptCount:     5,
			QuizzesAttempted: 2,
			BestScore:        4,
			LastAttemptAt:    &now,
		},
		Performance: []domain.PerformanceRow{
			{UserPerformance: domain.UserPerformance{QuizID: "quiz1", TotalQuestions: 5, CorrectAnswers: 4, WrongAnswers: 1}},
			{UserPerformance: domain.UserPerformance{QuizID: "quiz2", TotalQuestions: 5, CorrectAnswers: 2, WrongAnswers: 3}},
		},
	}
	svc := NewStatsService(repo, newMockCache())

	stats, err := svc.GetUserStats(context.Background(), "user1")
	require.NoError(t, err)

	assert.Equal(t, 5, stats.AttemptCount)
	assert.Equal(t, 2, stats.QuizzesAttempted)
	assert.Equal(t, 10, stats.TotalQuestions)
	assert.Equal(t, 6, stats.CorrectAnswers)
	assert.Equal(t, 4, stats.WrongAnswers)
	assert.Equal(t, 60.0, stats.CorrectPercent)
	assert.Equal(t, 4, stats.BestScore)
}

func TestGetUserStats_NoHistory(t *testing.T) {
	svc := NewStatsService(&mockLeaderboardRepository{}, newMockCache())

	stats, err := svc.GetUserStats(context.Background(), "user1")
	require.NoError(t, err)
	assert.Zero(t, stats.AttemptCount)
	assert.Zero(t, stats.CorrectPercent)
	assert.Nil(t, stats.LastAttemptAt)
}
