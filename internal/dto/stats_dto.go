package dto

import "time"

// LeaderboardEntryResponse is one ranked row on the leaderboard.
type LeaderboardEntryResponse struct {
	Rank           int       `json:"rank"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	CorrectPercent float64   `json:"correct_percent"`
	LastAttemptAt  time.Time `json:"last_attempt_at"`
}

// LeaderboardResponse is the top-10 ranking.
type LeaderboardResponse struct {
	Entries []LeaderboardEntryResponse `json:"entries"`
}

// PerformanceRowResponse is the latest-attempt performance of the user on
// one quiz.
type PerformanceRowResponse struct {
	QuizID         string    `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title,omitempty"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	WrongAnswers   int       `json:"wrong_answers"`
	HighScore      int       `json:"high_score"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PerformanceResponse lists per-quiz performance rows for the caller.
type PerformanceResponse struct {
	Rows []PerformanceRowResponse `json:"rows"`
}

// StatsResponse aggregates the caller's history across quizzes.
type StatsResponse struct {
	AttemptCount     int        `json:"attempt_count"`
	QuizzesAttempted int        `json:"quizzes_attempted"`
	TotalQuestions   int        `json:"total_questions"`
	CorrectAnswers   int        `json:"correct_answers"`
	WrongAnswers     int        `json:"wrong_answers"`
	CorrectPercent   float64    `json:"correct_percent"`
	BestScore        int        `json:"best_score"`
	LastAttemptAt    *time.Time `json:"last_attempt_at,omitempty"`
}
