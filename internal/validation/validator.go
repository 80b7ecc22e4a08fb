package validation

import (
	"regexp"
	"strconv"
	"strings"

	"quizhub/internal/domain"
	"quizhub/internal/dto"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRegisterRequest validates a registration payload.
func (v *Validator) ValidateRegisterRequest(req dto.RegisterRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Username) == "" {
		errors = append(errors, domain.NewMissingFieldError("username"))
	} else if !isValidUsername(req.Username) {
		errors = append(errors, domain.NewInvalidFormatError("username", req.Username))
	}

	if strings.TrimSpace(req.Email) == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	} else if !isValidEmail(req.Email) {
		errors = append(errors, domain.NewInvalidFormatError("email", req.Email))
	}

	if req.Password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	} else if len(req.Password) < 8 || len(req.Password) > 72 {
		errors = append(errors, domain.NewOutOfRangeError("password", len(req.Password), 8, 72))
	}

	return errors
}

// ValidateLoginRequest validates a login payload.
func (v *Validator) ValidateLoginRequest(req dto.LoginRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Username) == "" {
		errors = append(errors, domain.NewMissingFieldError("username"))
	}
	if req.Password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	}

	return errors
}

// ValidateSubmission validates an attempt submission: the quiz id must be a
// ULID, at least one question must be answered, and every question must
// carry at least one selected answer id.
func (v *Validator) ValidateSubmission(quizID string, answers map[string]dto.AnswerSelection) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(quizID) == "" {
		errors = append(errors, domain.NewMissingFieldError("quiz_id"))
	} else if !isValidULID(quizID) {
		errors = append(errors, domain.NewInvalidFormatError("quiz_id", quizID))
	}

	if len(answers) == 0 {
		errors = append(errors, domain.NewMissingFieldError("answers"))
		return errors
	}

	for questionID, selection := range answers {
		if !isValidULID(questionID) {
			errors = append(errors, domain.NewInvalidFormatError("answers", questionID))
			continue
		}
		if len(selection) == 0 {
			errors = append(errors, domain.ValidationError{Field: "answers", Message: "question " + questionID + " has no selected answer"})
		}
		for _, answerID := range selection {
			if !isValidULID(answerID) {
				errors = append(errors, domain.NewInvalidFormatError("answers", answerID))
			}
		}
	}

	return errors
}

// ValidateCreateQuizRequest validates a quiz creation payload, including the
// invariant that every question has at least one answer marked correct.
func (v *Validator) ValidateCreateQuizRequest(req dto.CreateQuizRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Title) == "" {
		errors = append(errors, domain.NewMissingFieldError("title"))
	}
	if strings.TrimSpace(req.Category) == "" {
		errors = append(errors, domain.NewMissingFieldError("category"))
	} else if !isValidCategory(req.Category) {
		errors = append(errors, domain.NewInvalidFormatError("category", req.Category))
	}

	for i, q := range req.Questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			errors = append(errors, domain.ValidationError{Field: "questions", Message: "question at index " + strconv.Itoa(i) + " has no text"})
		}
		if len(q.Answers) == 0 {
			errors = append(errors, domain.ValidationError{Field: "questions", Message: "question at index " + strconv.Itoa(i) + " has no answers"})
			continue
		}
		hasCorrect := false
		for _, a := range q.Answers {
			if a.IsCorrect {
				hasCorrect = true
				break
			}
		}
		if !hasCorrect {
			errors = append(errors, domain.ValidationError{Field: "questions", Message: "question at index " + strconv.Itoa(i) + " has no correct answer"})
		}
	}

	return errors
}

// Helper functions for validation

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	// ULID is 26 characters long, base32 encoded
	if len(s) != 26 {
		return false
	}
	// Crockford's Base32 alphabet
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}

func isValidUsername(s string) bool {
	if len(s) < 3 || len(s) > 30 {
		return false
	}
	validUsername := regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	return validUsername.MatchString(s)
}

func isValidEmail(s string) bool {
	if len(s) > 254 {
		return false
	}
	validEmail := regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	return validEmail.MatchString(s)
}

func isValidCategory(s string) bool {
	if len(s) == 0 || len(s) > 50 {
		return false
	}
	validCategory := regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)
	return validCategory.MatchString(s)
}
