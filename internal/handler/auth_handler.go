package handler

import (
	"errors"
	"time"

	"quizhub/internal/config"
	"quizhub/internal/domain"
	"quizhub/internal/dto"
	"quizhub/internal/middleware"
	"quizhub/internal/service"
	"quizhub/internal/util"
	"quizhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const oauthStateCookieName = "oauth_state"

// AuthHandler serves registration, login and the token endpoints.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	validator   *validation.Validator
	appConfig   *config.Config
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(authService service.AuthService, userService service.UserService, validator *validation.Validator, appConfig *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		validator:   validator,
		appConfig:   appConfig,
	}
}

// Register godoc
// @Summary Register a local account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration payload"
// @Success 201 {object} dto.Envelope{data=dto.UserProfileResponse}
// @Failure 400 {object} dto.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidSubmissionError("invalid request body")
	}
	if errs := h.validator.ValidateRegisterRequest(req); len(errs) > 0 {
		return errs
	}

	user, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) || errors.Is(err, service.ErrEmailTaken) {
			return domain.NewError(domain.CodeDuplicate, err.Error(), nil)
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.Success(dto.UserProfileResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		IsActive: user.IsActive,
	}))
}

// Login godoc
// @Summary Log in with username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.Envelope{data=dto.TokenResponse}
// @Failure 401 {object} dto.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidSubmissionError("invalid request body")
	}
	if errs := h.validator.ValidateLoginRequest(req); len(errs) > 0 {
		return errs
	}

	accessToken, refreshToken, _, err := h.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserInactive) {
			return domain.NewUnauthenticatedError("Invalid username or password")
		}
		return err
	}

	h.setSessionCookie(c, accessToken)
	return c.JSON(dto.Success(dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}))
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(dto.Success(fiber.Map{"message": "logged out"}))
}

// Refresh godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.Envelope{data=dto.TokenResponse}
// @Failure 401 {object} dto.Envelope
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return domain.NewInvalidSubmissionError("refresh_token is required")
	}

	accessToken, refreshToken, err := h.authService.RefreshToken(c.UserContext(), req.RefreshToken)
	if err != nil {
		return domain.NewUnauthenticatedError("Invalid refresh token")
	}

	h.setSessionCookie(c, accessToken)
	return c.JSON(dto.Success(dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}))
}

// Validate godoc
// @Summary Echo the identity of the presented token
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.ValidateTokenResponse}
// @Failure 401 {object} dto.Envelope
// @Security BearerAuth
// @Router /auth/validate [get]
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	// The route is on the public allow-list so a missing or bad token must be
	// answered here rather than by the auth middleware.
	tokenString := middleware.TokenFromRequest(c)
	if tokenString == "" {
		return domain.NewUnauthenticatedError("Authentication required")
	}
	claims, err := h.authService.ValidateJWT(c.Context(), tokenString)
	if err != nil {
		return domain.NewUnauthenticatedError("Authentication required")
	}
	return c.JSON(dto.Success(dto.ValidateTokenResponse{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}))
}

// Config godoc
// @Summary Public client configuration
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.AuthConfigResponse}
// @Router /config [get]
func (h *AuthHandler) Config(c *fiber.Ctx) error {
	return c.JSON(dto.Success(dto.AuthConfigResponse{
		SessionCookieName:     middleware.SessionCookieName,
		AccessTokenTTLSeconds: int64(h.appConfig.JWT.AccessTokenTTL.Seconds()),
		GoogleLoginEnabled:    h.appConfig.GoogleOAuth.ClientID != "",
	}))
}

// GoogleLogin godoc
// @Summary Redirect to the Google consent screen
// @Tags auth
// @Router /auth/google/login [get]
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	state := util.NewULID()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.Redirect(h.authService.GetGoogleLoginURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback godoc
// @Summary Complete the Google OAuth flow
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.TokenResponse}
// @Failure 401 {object} dto.Envelope
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	receivedState := c.Query("state")
	expectedState := c.Cookies(oauthStateCookieName)
	if code == "" || expectedState == "" {
		return domain.NewUnauthenticatedError("OAuth callback is incomplete")
	}

	accessToken, refreshToken, _, err := h.authService.HandleGoogleCallback(c.UserContext(), code, receivedState, expectedState)
	if err != nil {
		return domain.NewUnauthenticatedError("Google sign-in failed")
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Path:     "/",
	})
	h.setSessionCookie(c, accessToken)
	return c.JSON(dto.Success(dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}))
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.appConfig.JWT.AccessTokenTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}
