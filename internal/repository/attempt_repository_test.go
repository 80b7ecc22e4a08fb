package repository

import (
	"context"
	"testing"
	"time"

	"quizhub/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAttemptTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestCreateAttempt(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	defer db.Close()
	repo := NewSQLXAttemptRepository(db)

	mock.ExpectExec(`INSERT INTO quiz_attempts`).
		WithArgs("at1", "user1", "quiz1", 3, 5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateAttempt(context.Background(), &domain.Attempt{
		ID:             "at1",
		UserID:         "user1",
		QuizID:         "quiz1",
		Score:          3,
		TotalQuestions: 5,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserAnswers_OneRowPerSelection(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	defer db.Close()
	repo := NewSQLXAttemptRepository(db)

	mock.ExpectExec(`INSERT INTO user_answers`).
		WithArgs("ua1", "user1", "quiz1", "at1", "q1", "a1", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO user_answers`).
		WithArgs("ua2", "user1", "quiz1", "at1", "q1", "a3", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateUserAnswers(context.Background(), []domain.UserAnswer{
		{ID: "ua1", UserID: "user1", QuizID: "quiz1", AttemptID: "at1", QuestionID: "q1", SelectedAnswerID: "a1", IsCorrect: true},
		{ID: "ua2", UserID: "user1", QuizID: "quiz1", AttemptID: "at1", QuestionID: "q1", SelectedAnswerID: "a3", IsCorrect: false},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPerformance_UsesMerge(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	defer db.Close()
	repo := NewSQLXAttemptRepository(db)

	mock.ExpectExec(`MERGE INTO user_performance`).
		WithArgs("user1", "quiz1", 5, 4, 1, sqlmock.AnyArg(),
			"user1", "quiz1", 5, 4, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpsertPerformance(context.Background(), &domain.UserPerformance{
		UserID:         "user1",
		QuizID:         "quiz1",
		TotalQuestions: 5,
		CorrectAnswers: 4,
		WrongAnswers:   1,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertLeaderboardEntry_GuardsOnHigherScore(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	defer db.Close()
	repo := NewSQLXAttemptRepository(db)

	// The strictly-greater comparison must be part of the statement itself.
	mock.ExpectExec(`MERGE INTO leaderboard_entries(.|\n)*WHERE le\.high_score < :5`).
		WithArgs("user1", "quiz1", 4, sqlmock.AnyArg(), 4,
			"user1", "quiz1", 4, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpsertLeaderboardEntry(context.Background(), &domain.LeaderboardEntry{
		UserID:    "user1",
		QuizID:    "quiz1",
		HighScore: 4,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAttemptsByUserID(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	defer db.Close()
	repo := NewSQLXAttemptRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT qa\.\*, q\.title AS quiz_title`).
		WithArgs("user1").
		WillReturnRows(sqlmock.NewRows([]string{"ID", "USER_ID", "QUIZ_ID", "SCORE", "TOTAL_QUESTIONS", "ATTEMPTED_AT", "QUIZ_TITLE"}).
			AddRow("at2", "user1", "quiz1", 4, 5, now, "Go Basics").
			AddRow("at1", "user1", "quiz2", 2, 3, now.Add(-time.Hour), "Capitals"))

	attempts, titles, err := repo.GetAttemptsByUserID(context.Background(), "user1")
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, "at2", attempts[0].ID)
	assert.Equal(t, "Go Basics", titles["quiz1"])
	assert.Equal(t, "Capitals", titles["quiz2"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
