package dto

import (
	"encoding/json"
	"time"
)

// AnswerSelection accepts either a single answer ID or a list of answer IDs
// in JSON, normalizing both to a list. Single-select clients send
// {"q1": "a3"}, multi-select clients send {"q1": ["a3", "a4"]}.
type AnswerSelection []string

func (s *AnswerSelection) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = AnswerSelection{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = AnswerSelection(many)
	return nil
}

// SubmitAttemptRequest is the body for POST /quizzes/:quizID/attempts,
// mapping question IDs to the selected answer ID(s).
type SubmitAttemptRequest struct {
	Answers map[string]AnswerSelection `json:"answers"`
}

// SelectionResultResponse is the recorded correctness of one selection.
type SelectionResultResponse struct {
	AnswerID  string `json:"answer_id"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionResultResponse is the graded outcome of one question.
type QuestionResultResponse struct {
	QuestionID string                    `json:"question_id"`
	IsCorrect  bool                      `json:"is_correct"`
	Selections []SelectionResultResponse `json:"selections"`
}

// AttemptResultResponse is returned after a submission is graded and
// recorded.
type AttemptResultResponse struct {
	AttemptID      string                   `json:"attempt_id"`
	QuizID         string                   `json:"quiz_id"`
	Score          int                      `json:"score"`
	TotalQuestions int                      `json:"total_questions"`
	AttemptedAt    time.Time                `json:"attempted_at"`
	Questions      []QuestionResultResponse `json:"questions"`
}

// AttemptResponse is one historical attempt row.
type AttemptResponse struct {
	ID             string    `json:"id"`
	QuizID         string    `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title,omitempty"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	AttemptedAt    time.Time `json:"attempted_at"`
}

// AttemptListResponse wraps a user's attempt history.
type AttemptListResponse struct {
	Attempts []AttemptResponse `json:"attempts"`
	Total    int               `json:"total"`
}
