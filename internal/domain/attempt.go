package domain

import (
	"sort"
	"time"
)

// Attempt is one scored submission of a quiz by a user. Immutable after
// creation.
type Attempt struct {
	ID             string
	UserID         string
	QuizID         string
	Score          int
	TotalQuestions int
	AttemptedAt    time.Time
}

// UserAnswer records one selected answer within an attempt. A question with
// multiple selections produces multiple rows. IsCorrect reflects whether
// this specific selection was in the correct set, which can diverge from the
// per-question correctness used for scoring.
type UserAnswer struct {
	ID               string
	UserID           string
	QuizID           string
	AttemptID        string
	QuestionID       string
	SelectedAnswerID string
	IsCorrect        bool
	CreatedAt        time.Time
}

// UserPerformance holds the numbers of the most recent attempt for a
// (user, quiz) pair. Each new attempt overwrites the stored totals; this is
// a running replace, not an accumulation.
type UserPerformance struct {
	UserID         string
	QuizID         string
	TotalQuestions int
	CorrectAnswers int
	WrongAnswers   int
	UpdatedAt      time.Time
}

// LeaderboardEntry holds the best score a user has reached on a quiz. It is
// only updated when a new score strictly exceeds the stored one.
type LeaderboardEntry struct {
	UserID     string
	QuizID     string
	HighScore  int
	RecordedAt time.Time
}

// Submission maps a question ID to the answer IDs the user selected.
type Submission map[string][]string

// SelectionResult is the recorded correctness of one selected answer.
type SelectionResult struct {
	AnswerID  string
	IsCorrect bool
}

// QuestionResult is the graded outcome for one submitted question.
type QuestionResult struct {
	QuestionID string
	IsCorrect  bool
	Selections []SelectionResult
}

// GradeSubmission grades a submission against the correct-answer sets of a
// quiz. A question counts as correct when the user's selection intersects
// its correct set at all; it does not require exact set equality, so a
// partial selection of a multi-correct question still scores the question.
// Per-selection correctness is recorded independently of the per-question
// outcome. Questions submitted for IDs the quiz does not have are graded as
// incorrect. Results are ordered by question ID.
func GradeSubmission(correctSets map[string][]string, submission Submission) (int, []QuestionResult) {
	questionIDs := make([]string, 0, len(submission))
	for questionID := range submission {
		questionIDs = append(questionIDs, questionID)
	}
	sort.Strings(questionIDs)

	score := 0
	results := make([]QuestionResult, 0, len(questionIDs))
	for _, questionID := range questionIDs {
		correct := make(map[string]bool, len(correctSets[questionID]))
		for _, answerID := range correctSets[questionID] {
			correct[answerID] = true
		}

		result := QuestionResult{QuestionID: questionID}
		for _, selected := range submission[questionID] {
			hit := correct[selected]
			result.Selections = append(result.Selections, SelectionResult{
				AnswerID:  selected,
				IsCorrect: hit,
			})
			if hit {
				result.IsCorrect = true
			}
		}
		if result.IsCorrect {
			score++
		}
		results = append(results, result)
	}
	return score, results
}
