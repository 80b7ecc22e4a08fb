package domain

import "time"

// Quiz is a titled set of questions in a single category.
type Quiz struct {
	ID          string
	Title       string
	Description string
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Question belongs to exactly one quiz. Answers carry their is_correct flag
// so a caller holding the questions can grade without a second query.
type Question struct {
	ID           string
	QuizID       string
	QuestionText string
	Position     int
	Answers      []Answer
	CreatedAt    time.Time
}

// Answer belongs to exactly one question. A question has at least one
// correct answer; more than one is permitted.
type Answer struct {
	ID         string
	QuestionID string
	AnswerText string
	IsCorrect  bool
	CreatedAt  time.Time
}

func (q *Quiz) Validate() error {
	var errs ValidationErrors
	if q.Title == "" {
		errs = append(errs, NewMissingFieldError("title"))
	}
	if q.Category == "" {
		errs = append(errs, NewMissingFieldError("category"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CorrectAnswerIDs returns the correct set for the question.
func (q *Question) CorrectAnswerIDs() []string {
	var ids []string
	for _, a := range q.Answers {
		if a.IsCorrect {
			ids = append(ids, a.ID)
		}
	}
	return ids
}
