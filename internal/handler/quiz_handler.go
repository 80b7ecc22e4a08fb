package handler

import (
	"quizhub/internal/domain"
	"quizhub/internal/dto"
	"quizhub/internal/service"
	"quizhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler serves the quiz catalog and the admin quiz CRUD.
type QuizHandler struct {
	quizService service.QuizService
	validator   *validation.Validator
}

// NewQuizHandler creates a new instance of QuizHandler.
func NewQuizHandler(quizService service.QuizService, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{quizService: quizService, validator: validator}
}

// ListQuizzes godoc
// @Summary List quizzes, optionally filtered by search text and category
// @Tags quizzes
// @Produce json
// @Param search query string false "Case-insensitive match on title or description"
// @Param category query string false "Category filter; 'all' or empty means no filter"
// @Success 200 {object} dto.Envelope{data=dto.QuizListResponse}
// @Security BearerAuth
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	var filters dto.QuizListFilters
	if err := c.QueryParser(&filters); err != nil {
		return domain.NewInvalidSubmissionError("invalid query parameters")
	}

	quizzes, err := h.quizService.ListQuizzes(c.UserContext(), filters)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(dto.QuizListResponse{
		Quizzes: quizzes,
		Total:   len(quizzes),
	}))
}

// GetQuizDetail godoc
// @Summary Get one quiz with its questions and answer options
// @Tags quizzes
// @Produce json
// @Param quizID path string true "Quiz ID"
// @Success 200 {object} dto.Envelope{data=dto.QuizDetailResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /quizzes/{quizID} [get]
func (h *QuizHandler) GetQuizDetail(c *fiber.Ctx) error {
	quizID := c.Params("quizID")
	detail, err := h.quizService.GetQuizDetail(c.UserContext(), quizID)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(detail))
}

// ListCategories godoc
// @Summary List the distinct quiz categories
// @Tags quizzes
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.CategoryListResponse}
// @Security BearerAuth
// @Router /categories [get]
func (h *QuizHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.quizService.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(dto.CategoryListResponse{Categories: categories}))
}

// CreateQuiz godoc
// @Summary Create a quiz with questions and answers
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateQuizRequest true "Quiz payload"
// @Success 201 {object} dto.Envelope{data=dto.QuizDetailResponse}
// @Failure 400 {object} dto.Envelope
// @Failure 403 {object} dto.Envelope
// @Security BearerAuth
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidSubmissionError("invalid request body")
	}
	if errs := h.validator.ValidateCreateQuizRequest(req); len(errs) > 0 {
		return errs
	}

	detail, err := h.quizService.CreateQuiz(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success(detail))
}

// UpdateQuiz godoc
// @Summary Update quiz metadata
// @Tags admin
// @Accept json
// @Produce json
// @Param quizID path string true "Quiz ID"
// @Param request body dto.UpdateQuizRequest true "Fields to change"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /quizzes/{quizID} [patch]
func (h *QuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quizID")
	var req dto.UpdateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidSubmissionError("invalid request body")
	}

	if err := h.quizService.UpdateQuiz(c.UserContext(), quizID, req); err != nil {
		return err
	}
	return c.JSON(dto.Success(fiber.Map{"id": quizID}))
}

// DeleteQuiz godoc
// @Summary Soft delete a quiz
// @Tags admin
// @Produce json
// @Param quizID path string true "Quiz ID"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /quizzes/{quizID} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quizID")
	if err := h.quizService.DeleteQuiz(c.UserContext(), quizID); err != nil {
		return err
	}
	return c.JSON(dto.Success(fiber.Map{"id": quizID}))
}
