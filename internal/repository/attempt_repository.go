package repository

import (
	"context"
	"fmt"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// AttemptRepository persists attempts, per-selection answers, performance
// totals and leaderboard high scores. The write methods are designed to run
// together inside one transaction per submission.
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt *domain.Attempt) error
	CreateUserAnswers(ctx context.Context, answers []domain.UserAnswer) error
	UpsertPerformance(ctx context.Context, perf *domain.UserPerformance) error
	UpsertLeaderboardEntry(ctx context.Context, entry *domain.LeaderboardEntry) error
	GetAttemptsByUserID(ctx context.Context, userID string) ([]domain.Attempt, map[string]string, error)
}

type sqlxAttemptRepository struct {
	db *sqlx.DB
}

// NewSQLXAttemptRepository creates a new instance of sqlxAttemptRepository.
func NewSQLXAttemptRepository(db *sqlx.DB) AttemptRepository {
	return &sqlxAttemptRepository{db: db}
}

// CreateAttempt inserts one attempt row. Attempts are immutable after this.
func (r *sqlxAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.Attempt) error {
	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = time.Now()
	}

	query := `INSERT INTO quiz_attempts (id, user_id, quiz_id, score, total_questions, attempted_at)
	          VALUES (:1, :2, :3, :4, :5, :6)`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.QuizID,
		attempt.Score,
		attempt.TotalQuestions,
		attempt.AttemptedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz attempt: %w", err)
	}
	return nil
}

// CreateUserAnswers inserts one row per selected answer.
func (r *sqlxAttemptRepository) CreateUserAnswers(ctx context.Context, answers []domain.UserAnswer) error {
	query := `INSERT INTO user_answers (id, user_id, quiz_id, attempt_id, question_id, selected_answer_id, is_correct, created_at)
	          VALUES (:1, :2, :3, :4, :5, :6, :7, :8)`

	executor := GetExecutor(ctx, r.db)
	now := time.Now()
	for _, a := range answers {
		_, err := executor.ExecContext(ctx, query,
			a.ID,
			a.UserID,
			a.QuizID,
			a.AttemptID,
			a.QuestionID,
			a.SelectedAnswerID,
			a.IsCorrect,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to create user answer: %w", err)
		}
	}
	return nil
}

// UpsertPerformance replaces the stored totals for (user, quiz) with the
// latest attempt's numbers. A single MERGE keeps the read-then-write atomic
// under concurrent submissions.
func (r *sqlxAttemptRepository) UpsertPerformance(ctx context.Context, perf *domain.UserPerformance) error {
	perf.UpdatedAt = time.Now()

	query := `MERGE INTO user_performance up
	          USING (SELECT :1 AS user_id, :2 AS quiz_id FROM dual) src
	          ON (up.user_id = src.user_id AND up.quiz_id = src.quiz_id)
	          WHEN MATCHED THEN UPDATE SET
	            up.total_questions = :3,
	            up.correct_answers = :4,
	            up.wrong_answers = :5,
	            up.updated_at = :6
	          WHEN NOT MATCHED THEN INSERT (user_id, quiz_id, total_questions, correct_answers, wrong_answers, updated_at)
	            VALUES (:7, :8, :9, :10, :11, :12)`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		perf.UserID, perf.QuizID,
		perf.TotalQuestions, perf.CorrectAnswers, perf.WrongAnswers, perf.UpdatedAt,
		perf.UserID, perf.QuizID, perf.TotalQuestions, perf.CorrectAnswers, perf.WrongAnswers, perf.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user performance: %w", err)
	}
	return nil
}

// UpsertLeaderboardEntry inserts when absent, and updates only when the new
// score strictly exceeds the stored high score. The comparison lives in the
// MERGE so no check-then-act race exists.
func (r *sqlxAttemptRepository) UpsertLeaderboardEntry(ctx context.Context, entry *domain.LeaderboardEntry) error {
	entry.RecordedAt = time.Now()

	query := `MERGE INTO leaderboard_entries le
	          USING (SELECT :1 AS user_id, :2 AS quiz_id FROM dual) src
	          ON (le.user_id = src.user_id AND le.quiz_id = src.quiz_id)
	          WHEN MATCHED THEN UPDATE SET
	            le.high_score = :3,
	            le.recorded_at = :4
	            WHERE le.high_score < :5
	          WHEN NOT MATCHED THEN INSERT (user_id, quiz_id, high_score, recorded_at)
	            VALUES (:6, :7, :8, :9)`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		entry.UserID, entry.QuizID,
		entry.HighScore, entry.RecordedAt, entry.HighScore,
		entry.UserID, entry.QuizID, entry.HighScore, entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert leaderboard entry: %w", err)
	}
	return nil
}

// attemptWithQuiz joins an attempt to its quiz title for history listings.
type attemptWithQuiz struct {
	models.QuizAttempt
	QuizTitle string `db:"QUIZ_TITLE"`
}

// GetAttemptsByUserID returns a user's attempts newest first, plus a map of
// quiz id to quiz title for display.
func (r *sqlxAttemptRepository) GetAttemptsByUserID(ctx context.Context, userID string) ([]domain.Attempt, map[string]string, error) {
	var rows []attemptWithQuiz
	query := `SELECT qa.*, q.title AS quiz_title
	          FROM quiz_attempts qa
	          JOIN quizzes q ON qa.quiz_id = q.id
	          WHERE qa.user_id = :1
	          ORDER BY qa.attempted_at DESC`

	executor := GetExecutor(ctx, r.db)
	if err := executor.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, nil, fmt.Errorf("failed to get attempts for user: %w", err)
	}

	attempts := make([]domain.Attempt, 0, len(rows))
	titles := make(map[string]string, len(rows))
	for _, row := range rows {
		attempts = append(attempts, domain.Attempt{
			ID:             row.ID,
			UserID:         row.UserID,
			QuizID:         row.QuizID,
			Score:          row.Score,
			TotalQuestions: row.TotalQuestions,
			AttemptedAt:    row.AttemptedAt,
		})
		titles[row.QuizID] = row.QuizTitle
	}
	return attempts, titles, nil
}
