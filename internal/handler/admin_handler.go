package handler

import (
	"quizhub/internal/domain"
	"quizhub/internal/dto"
	"quizhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the admin user-management surface. Quiz CRUD lives on
// QuizHandler; the route table mounts both under the admin role check.
type AdminHandler struct {
	userService service.UserService
}

// NewAdminHandler creates a new instance of AdminHandler.
func NewAdminHandler(userService service.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

// ListUsers godoc
// @Summary List all accounts
// @Tags admin
// @Produce json
// @Success 200 {object} dto.Envelope{data=[]dto.UserProfileResponse}
// @Failure 403 {object} dto.Envelope
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(users))
}

// UpdateUserStatus godoc
// @Summary Activate or deactivate an account
// @Tags admin
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body dto.UpdateUserStatusRequest true "New status"
// @Success 200 {object} dto.Envelope{data=dto.UserProfileResponse}
// @Failure 404 {object} dto.Envelope
// @Security BearerAuth
// @Router /admin/users/{userID}/status [patch]
func (h *AdminHandler) UpdateUserStatus(c *fiber.Ctx) error {
	userID := c.Params("userID")
	var req dto.UpdateUserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidSubmissionError("invalid request body")
	}
	if req.IsActive == nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("is_active")}
	}

	profile, err := h.userService.SetUserActive(c.UserContext(), userID, *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(profile))
}
