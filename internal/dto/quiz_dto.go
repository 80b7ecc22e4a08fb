package dto

import "time"

// QuizListFilters are the query parameters accepted by GET /quizzes.
// Category "all" or "" means no category filter.
type QuizListFilters struct {
	Search   string `query:"search"`
	Category string `query:"category"`
}

// QuizResponse is a quiz summary row.
type QuizResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// AnswerOption is an answer presented to a quiz taker. The is_correct flag
// is deliberately absent.
type AnswerOption struct {
	ID         string `json:"id"`
	AnswerText string `json:"answer_text"`
}

// QuestionResponse is a question with its selectable answers.
type QuestionResponse struct {
	ID           string         `json:"id"`
	QuestionText string         `json:"question_text"`
	Answers      []AnswerOption `json:"answers"`
}

// QuizDetailResponse is a quiz with its full question list.
type QuizDetailResponse struct {
	QuizResponse
	Questions []QuestionResponse `json:"questions"`
}

// QuizListResponse wraps the filtered quiz list.
type QuizListResponse struct {
	Quizzes []QuizResponse `json:"quizzes"`
	Total   int            `json:"total"`
}

// CategoryListResponse lists the distinct quiz categories.
type CategoryListResponse struct {
	Categories []string `json:"categories"`
}

// CreateAnswerRequest is one answer inside a quiz creation payload.
type CreateAnswerRequest struct {
	AnswerText string `json:"answer_text"`
	IsCorrect  bool   `json:"is_correct"`
}

// CreateQuestionRequest is one question inside a quiz creation payload.
type CreateQuestionRequest struct {
	QuestionText string                `json:"question_text"`
	Answers      []CreateAnswerRequest `json:"answers"`
}

// CreateQuizRequest is the body for POST /quizzes (admin).
type CreateQuizRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Category    string                  `json:"category"`
	Questions   []CreateQuestionRequest `json:"questions"`
}

// UpdateQuizRequest is the body for PATCH /quizzes/:quizID (admin). Nil
// fields are left unchanged.
type UpdateQuizRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}
