package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizhub/internal/domain"

	"github.com/jmoiron/sqlx"
)

// LeaderboardRepository serves the reporting queries: the global ranking and
// per-user aggregates. Read-only.
type LeaderboardRepository interface {
	GetTopUsers(ctx context.Context, limit int) ([]domain.LeaderboardRow, error)
	GetPerformanceByUserID(ctx context.Context, userID string) ([]domain.PerformanceRow, error)
	GetAttemptAggregates(ctx context.Context, userID string) (*domain.AttemptAggregates, error)
}

type sqlxLeaderboardRepository struct {
	db *sqlx.DB
}

// NewSQLXLeaderboardRepository creates a new instance of sqlxLeaderboardRepository.
func NewSQLXLeaderboardRepository(db *sqlx.DB) LeaderboardRepository {
	return &sqlxLeaderboardRepository{db: db}
}

type leaderboardRow struct {
	UserID         string    `db:"USER_ID"`
	Username       string    `db:"USERNAME"`
	TotalQuestions int       `db:"TOTAL_QUESTIONS"`
	CorrectAnswers int       `db:"CORRECT_ANSWERS"`
	CorrectPercent float64   `db:"CORRECT_PERCENT"`
	LastAttemptAt  time.Time `db:"LAST_ATTEMPT_AT"`
}

// GetTopUsers ranks users by correct percentage over their latest attempt
// per quiz (as materialized in user_performance), tie-broken by most recent
// attempt, limited to the given count.
func (r *sqlxLeaderboardRepository) GetTopUsers(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	var rows []leaderboardRow
	query := `SELECT u.id AS user_id,
	                 u.username,
	                 SUM(up.total_questions) AS total_questions,
	                 SUM(up.correct_answers) AS correct_answers,
	                 ROUND(SUM(up.correct_answers) * 100 / NULLIF(SUM(up.total_questions), 0), 2) AS correct_percent,
	                 MAX(up.updated_at) AS last_attempt_at
	          FROM user_performance up
	          JOIN users u ON up.user_id = u.id
	          WHERE u.deleted_at IS NULL AND u.is_active = 1
	          GROUP BY u.id, u.username
	          ORDER BY correct_percent DESC, last_attempt_at DESC
	          FETCH FIRST :1 ROWS ONLY`

	executor := GetExecutor(ctx, r.db)
	if err := executor.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	result := make([]domain.LeaderboardRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.LeaderboardRow{
			UserID:         row.UserID,
			Username:       row.Username,
			TotalQuestions: row.TotalQuestions,
			CorrectAnswers: row.CorrectAnswers,
			CorrectPercent: row.CorrectPercent,
			LastAttemptAt:  row.LastAttemptAt,
		})
	}
	return result, nil
}

type performanceRow struct {
	UserID         string         `db:"USER_ID"`
	QuizID         string         `db:"QUIZ_ID"`
	TotalQuestions int            `db:"TOTAL_QUESTIONS"`
	CorrectAnswers int            `db:"CORRECT_ANSWERS"`
	WrongAnswers   int            `db:"WRONG_ANSWERS"`
	UpdatedAt      time.Time      `db:"UPDATED_AT"`
	QuizTitle      sql.NullString `db:"QUIZ_TITLE"`
	HighScore      int            `db:"HIGH_SCORE"`
}

// GetPerformanceByUserID returns the caller's latest-attempt performance per
// quiz, joined with the quiz title and leaderboard high score.
func (r *sqlxLeaderboardRepository) GetPerformanceByUserID(ctx context.Context, userID string) ([]domain.PerformanceRow, error) {
	var rows []performanceRow
	query := `SELECT up.user_id, up.quiz_id, up.total_questions, up.correct_answers, up.wrong_answers, up.updated_at,
	                 q.title AS quiz_title,
	                 NVL(le.high_score, 0) AS high_score
	          FROM user_performance up
	          JOIN quizzes q ON up.quiz_id = q.id
	          LEFT JOIN leaderboard_entries le ON le.user_id = up.user_id AND le.quiz_id = up.quiz_id
	          WHERE up.user_id = :1
	          ORDER BY up.updated_at DESC`

	executor := GetExecutor(ctx, r.db)
	if err := executor.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get performance rows: %w", err)
	}

	result := make([]domain.PerformanceRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.PerformanceRow{
			UserPerformance: domain.UserPerformance{
				UserID:         row.UserID,
				QuizID:         row.QuizID,
				TotalQuestions: row.TotalQuestions,
				CorrectAnswers: row.CorrectAnswers,
				WrongAnswers:   row.WrongAnswers,
				UpdatedAt:      row.UpdatedAt,
			},
			QuizTitle: row.QuizTitle.String,
			HighScore: row.HighScore,
		})
	}
	return result, nil
}

type attemptAggregates struct {
	AttemptCount     int          `db:"ATTEMPT_COUNT"`
	QuizzesAttempted int          `db:"QUIZZES_ATTEMPTED"`
	BestScore        sql.NullInt64 `db:"BEST_SCORE"`
	LastAttemptAt    sql.NullTime `db:"LAST_ATTEMPT_AT"`
}

// GetAttemptAggregates returns attempt-table aggregates for one user. A user
// with no attempts gets zero values, not an error.
func (r *sqlxLeaderboardRepository) GetAttemptAggregates(ctx context.Context, userID string) (*domain.AttemptAggregates, error) {
	var row attemptAggregates
	query := `SELECT COUNT(*) AS attempt_count,
	                 COUNT(DISTINCT quiz_id) AS quizzes_attempted,
	                 MAX(score) AS best_score,
	                 MAX(attempted_at) AS last_attempt_at
	          FROM quiz_attempts
	          WHERE user_id = :1`

	executor := GetExecutor(ctx, r.db)
	if err := executor.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.AttemptAggregates{}, nil
		}
		return nil, fmt.Errorf("failed to get attempt aggregates: %w", err)
	}

	agg := &domain.AttemptAggregates{
		AttemptCount:     row.AttemptCount,
		QuizzesAttempted: row.QuizzesAttempted,
		BestScore:        int(row.BestScore.Int64),
	}
	if row.LastAttemptAt.Valid {
		agg.LastAttemptAt = &row.LastAttemptAt.Time
	}
	return agg, nil
}
