package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizhub/internal/domain"
)

func TestListCategories_CachesUnderSharedKey(t *testing.T) {
	calls := 0
	repo := &mockQuizRepository{
		ListCategoriesFunc: func(ctx context.Context) ([]string, error) {
			calls++
			return []string{"go", "history"}, nil
		},
	}
	cache := newMockCache()
	svc := NewQuizService(repo, cache, passthroughTxManager{})

	first, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "history"}, first)
	assert.Contains(t, cache.store, "quizhub:quiz:categories:all")

	second, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestDeleteQuiz_InvalidatesCategoryCache(t *testing.T) {
	now := time.Now()
	repo := &mockQuizRepository{
		GetQuizByIDFunc: func(ctx context.Context, quizID string) (*domain.Quiz, error) {
			return &domain.Quiz{ID: quizID, Title: "Go Basics", Category: "go", CreatedAt: now}, nil
		},
		DeleteQuizFunc: func(ctx context.Context, quizID string) error {
			return nil
		},
	}
	cache := newMockCache()
	cache.store["quizhub:quiz:categories:all"] = `["go"]`
	svc := NewQuizService(repo, cache, passthroughTxManager{})

	require.NoError(t, svc.DeleteQuiz(context.Background(), "q1"))
	assert.Contains(t, cache.deleted, "quizhub:quiz:categories:all")
}
