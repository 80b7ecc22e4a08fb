package models

import (
	"database/sql"
	"time"
)

// User is a row of the users table.
type User struct {
	ID           string         `db:"ID"` // ULID
	Username     string         `db:"USERNAME"`
	Email        string         `db:"EMAIL"`
	PasswordHash sql.NullString `db:"PASSWORD_HASH"` // NULL for Google-only accounts
	Role         string         `db:"ROLE"`
	IsActive     bool           `db:"IS_ACTIVE"`
	GoogleID     sql.NullString `db:"GOOGLE_ID"`
	CreatedAt    time.Time      `db:"CREATED_AT"`
	UpdatedAt    time.Time      `db:"UPDATED_AT"`
	DeletedAt    sql.NullTime   `db:"DELETED_AT"`
}

// Quiz is a row of the quizzes table.
type Quiz struct {
	ID          string         `db:"ID"`
	Title       string         `db:"TITLE"`
	Description sql.NullString `db:"DESCRIPTION"`
	Category    string         `db:"CATEGORY"`
	CreatedAt   time.Time      `db:"CREATED_AT"`
	UpdatedAt   time.Time      `db:"UPDATED_AT"`
	DeletedAt   sql.NullTime   `db:"DELETED_AT"`
}

// Question is a row of the questions table.
type Question struct {
	ID           string    `db:"ID"`
	QuizID       string    `db:"QUIZ_ID"`
	QuestionText string    `db:"QUESTION_TEXT"`
	Position     int       `db:"POSITION"`
	CreatedAt    time.Time `db:"CREATED_AT"`
}

// Answer is a row of the answers table.
type Answer struct {
	ID         string    `db:"ID"`
	QuestionID string    `db:"QUESTION_ID"`
	AnswerText string    `db:"ANSWER_TEXT"`
	IsCorrect  bool      `db:"IS_CORRECT"`
	CreatedAt  time.Time `db:"CREATED_AT"`
}

// QuizAttempt is a row of the quiz_attempts table. Rows are never updated
// after insert.
type QuizAttempt struct {
	ID             string    `db:"ID"`
	UserID         string    `db:"USER_ID"`
	QuizID         string    `db:"QUIZ_ID"`
	Score          int       `db:"SCORE"`
	TotalQuestions int       `db:"TOTAL_QUESTIONS"`
	AttemptedAt    time.Time `db:"ATTEMPTED_AT"`
}

// UserAnswer is a row of the user_answers table, one per selected answer.
type UserAnswer struct {
	ID               string    `db:"ID"`
	UserID           string    `db:"USER_ID"`
	QuizID           string    `db:"QUIZ_ID"`
	AttemptID        string    `db:"ATTEMPT_ID"`
	QuestionID       string    `db:"QUESTION_ID"`
	SelectedAnswerID string    `db:"SELECTED_ANSWER_ID"`
	IsCorrect        bool      `db:"IS_CORRECT"`
	CreatedAt        time.Time `db:"CREATED_AT"`
}

// UserPerformance is a row of the user_performance table, keyed by
// (user_id, quiz_id) and overwritten on every attempt.
type UserPerformance struct {
	UserID         string    `db:"USER_ID"`
	QuizID         string    `db:"QUIZ_ID"`
	TotalQuestions int       `db:"TOTAL_QUESTIONS"`
	CorrectAnswers int       `db:"CORRECT_ANSWERS"`
	WrongAnswers   int       `db:"WRONG_ANSWERS"`
	UpdatedAt      time.Time `db:"UPDATED_AT"`
}

// LeaderboardEntry is a row of the leaderboard_entries table, keyed by
// (user_id, quiz_id) and only updated on a strictly higher score.
type LeaderboardEntry struct {
	UserID     string    `db:"USER_ID"`
	QuizID     string    `db:"QUIZ_ID"`
	HighScore  int       `db:"HIGH_SCORE"`
	RecordedAt time.Time `db:"RECORDED_AT"`
}
