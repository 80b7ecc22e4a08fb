package handler

import (
	"quizhub/internal/domain"
	"quizhub/internal/dto"
	"quizhub/internal/middleware"
	"quizhub/internal/service"
	"quizhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AttemptHandler serves submission grading and attempt history.
type AttemptHandler struct {
	attemptService service.AttemptService
	validator      *validation.Validator
}

// NewAttemptHandler creates a new instance of AttemptHandler.
func NewAttemptHandler(attemptService service.AttemptService, validator *validation.Validator) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService, validator: validator}
}

// SubmitAttempt godoc
// @Summary Submit answers for a quiz and get the graded result
// @Tags attempts
// @Accept json
// @Produce json
// @Param quizID path string true "Quiz ID"
// @Param request body dto.SubmitAttemptRequest true "Question ID to selected answer ID(s)"
// @Success 201 {object} dto.Envelope{data=dto.AttemptResultResponse}
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /quizzes/{quizID}/attempts [post]
func (h *AttemptHandler) SubmitAttempt(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return domain.NewUnauthenticatedError("Authentication required")
	}

	quizID := c.Params("quizID")
	var req dto.SubmitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidSubmissionError("invalid request body")
	}
	if errs := h.validator.ValidateSubmission(quizID, req.Answers); len(errs) > 0 {
		return errs
	}

	result, err := h.attemptService.SubmitAttempt(c.UserContext(), userID, quizID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success(result))
}

// GetAttemptHistory godoc
// @Summary List the caller's attempts, newest first
// @Tags attempts
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.AttemptListResponse}
// @Security BearerAuth
// @Router /users/me/attempts [get]
func (h *AttemptHandler) GetAttemptHistory(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return domain.NewUnauthenticatedError("Authentication required")
	}

	history, err := h.attemptService.GetAttemptHistory(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(history))
}
