package domain

import "time"

// LeaderboardRow is one ranked user on the leaderboard: their latest-attempt
// correct percentage aggregated across quizzes, tie-broken by most recent
// attempt.
type LeaderboardRow struct {
	UserID         string
	Username       string
	TotalQuestions int
	CorrectAnswers int
	CorrectPercent float64
	LastAttemptAt  time.Time
}

// PerformanceRow is a user's latest-attempt performance on one quiz joined
// with the quiz title and the leaderboard high score.
type PerformanceRow struct {
	UserPerformance
	QuizTitle string
	HighScore int
}

// AttemptAggregates are the attempt-table aggregates for one user.
type AttemptAggregates struct {
	AttemptCount     int
	QuizzesAttempted int
	BestScore        int
	LastAttemptAt    *time.Time
}
