package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/repository/models"
	"quizhub/internal/util"

	"github.com/jmoiron/sqlx"
)

// The category sentinel meaning "no category filter".
const CategoryAll = "all"

// QuizRepository defines the interface for quiz, question and answer data
// operations.
type QuizRepository interface {
	GetQuizByID(ctx context.Context, quizID string) (*domain.Quiz, error)
	ListQuizzes(ctx context.Context, search, category string) ([]domain.Quiz, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetQuestionsWithAnswers(ctx context.Context, quizID string) ([]domain.Question, error)
	CreateQuiz(ctx context.Context, quiz *domain.Quiz, questions []domain.Question) error
	UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error
	DeleteQuiz(ctx context.Context, quizID string) error
}

type sqlxQuizRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizRepository creates a new instance of sqlxQuizRepository.
func NewSQLXQuizRepository(db *sqlx.DB) QuizRepository {
	return &sqlxQuizRepository{db: db}
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}
	return &domain.Quiz{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description.String,
		Category:    m.Category,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   deletedAt,
	}
}

// GetQuizByID retrieves a quiz by id, or (nil, nil) when absent.
func (r *sqlxQuizRepository) GetQuizByID(ctx context.Context, quizID string) (*domain.Quiz, error) {
	var m models.Quiz
	query := `SELECT * FROM quizzes WHERE id = :1 AND deleted_at IS NULL`

	executor := GetExecutor(ctx, r.db)
	err := executor.GetContext(ctx, &m, query, quizID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by id: %w", err)
	}
	return toDomainQuiz(&m), nil
}

// ListQuizzes returns quizzes matching an optional case-insensitive
// substring search over title and description and an optional exact
// category. An empty category or the sentinel "all" disables the category
// filter.
func (r *sqlxQuizRepository) ListQuizzes(ctx context.Context, search, category string) ([]domain.Quiz, error) {
	var args []interface{}
	whereClauses := []string{"deleted_at IS NULL"}
	argIndex := 1

	if search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(LOWER(title) LIKE :%d OR LOWER(description) LIKE :%d)", argIndex, argIndex+1))
		pattern := "%" + strings.ToLower(search) + "%"
		args = append(args, pattern, pattern)
		argIndex += 2
	}
	if category != "" && category != CategoryAll {
		whereClauses = append(whereClauses, fmt.Sprintf("category = :%d", argIndex))
		args = append(args, category)
		argIndex++
	}

	query := fmt.Sprintf(`SELECT * FROM quizzes WHERE %s ORDER BY created_at DESC`, strings.Join(whereClauses, " AND "))

	var rows []models.Quiz
	executor := GetExecutor(ctx, r.db)
	if err := executor.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	quizzes := make([]domain.Quiz, 0, len(rows))
	for i := range rows {
		quizzes = append(quizzes, *toDomainQuiz(&rows[i]))
	}
	return quizzes, nil
}

// ListCategories returns the distinct categories of non-deleted quizzes.
func (r *sqlxQuizRepository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	query := `SELECT DISTINCT category FROM quizzes WHERE deleted_at IS NULL ORDER BY category`

	executor := GetExecutor(ctx, r.db)
	if err := executor.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetQuestionsWithAnswers returns a quiz's questions, each with its nested
// answers including the is_correct flag, both ordered by ascending id. The
// caller can grade from this result without a second query.
func (r *sqlxQuizRepository) GetQuestionsWithAnswers(ctx context.Context, quizID string) ([]domain.Question, error) {
	executor := GetExecutor(ctx, r.db)

	var questionRows []models.Question
	questionQuery := `SELECT * FROM questions WHERE quiz_id = :1 ORDER BY id ASC`
	if err := executor.SelectContext(ctx, &questionRows, questionQuery, quizID); err != nil {
		return nil, fmt.Errorf("failed to get questions for quiz: %w", err)
	}

	var answerRows []models.Answer
	answerQuery := `SELECT a.* FROM answers a
	                JOIN questions q ON a.question_id = q.id
	                WHERE q.quiz_id = :1
	                ORDER BY a.question_id ASC, a.id ASC`
	if err := executor.SelectContext(ctx, &answerRows, answerQuery, quizID); err != nil {
		return nil, fmt.Errorf("failed to get answers for quiz: %w", err)
	}

	answersByQuestion := make(map[string][]domain.Answer, len(questionRows))
	for _, a := range answerRows {
		answersByQuestion[a.QuestionID] = append(answersByQuestion[a.QuestionID], domain.Answer{
			ID:         a.ID,
			QuestionID: a.QuestionID,
			AnswerText: a.AnswerText,
			IsCorrect:  a.IsCorrect,
			CreatedAt:  a.CreatedAt,
		})
	}

	questions := make([]domain.Question, 0, len(questionRows))
	for _, q := range questionRows {
		questions = append(questions, domain.Question{
			ID:           q.ID,
			QuizID:       q.QuizID,
			QuestionText: q.QuestionText,
			Position:     q.Position,
			Answers:      answersByQuestion[q.ID],
			CreatedAt:    q.CreatedAt,
		})
	}
	return questions, nil
}

// CreateQuiz inserts a quiz with its questions and answers. Run it inside a
// transaction so a failing answer insert does not leave a partial quiz.
func (r *sqlxQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz, questions []domain.Question) error {
	executor := GetExecutor(ctx, r.db)
	now := time.Now()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now

	quizQuery := `INSERT INTO quizzes (id, title, description, category, created_at, updated_at)
	              VALUES (:id, :title, :description, :category, :created_at, :updated_at)`
	quizModel := &models.Quiz{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: util.StringToNullString(quiz.Description),
		Category:    quiz.Category,
		CreatedAt:   quiz.CreatedAt,
		UpdatedAt:   quiz.UpdatedAt,
	}
	if _, err := executor.NamedExecContext(ctx, quizQuery, quizModel); err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	questionQuery := `INSERT INTO questions (id, quiz_id, question_text, position, created_at)
	                  VALUES (:1, :2, :3, :4, :5)`
	answerQuery := `INSERT INTO answers (id, question_id, answer_text, is_correct, created_at)
	                VALUES (:1, :2, :3, :4, :5)`
	for _, q := range questions {
		if _, err := executor.ExecContext(ctx, questionQuery, q.ID, quiz.ID, q.QuestionText, q.Position, now); err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
		for _, a := range q.Answers {
			if _, err := executor.ExecContext(ctx, answerQuery, a.ID, q.ID, a.AnswerText, a.IsCorrect, now); err != nil {
				return fmt.Errorf("failed to create answer: %w", err)
			}
		}
	}
	return nil
}

// UpdateQuiz updates a quiz's title, description and category.
func (r *sqlxQuizRepository) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	quiz.UpdatedAt = time.Now()
	query := `UPDATE quizzes SET title = :1, description = :2, category = :3, updated_at = :4
	          WHERE id = :5 AND deleted_at IS NULL`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, quiz.Title, quiz.Description, quiz.Category, quiz.UpdatedAt, quiz.ID)
	if err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteQuiz soft-deletes a quiz. Attempts and answers remain for history.
func (r *sqlxQuizRepository) DeleteQuiz(ctx context.Context, quizID string) error {
	query := `UPDATE quizzes SET deleted_at = :1 WHERE id = :2 AND deleted_at IS NULL`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, time.Now(), quizID)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
