package dto

import (
	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse represents the response containing access and refresh tokens.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenRequest represents the request body for refreshing a token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ValidateTokenResponse echoes the identity decoded from a valid token.
type ValidateTokenResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

// AuthConfigResponse is the public configuration surface: everything a
// client needs to authenticate, nothing secret.
type AuthConfigResponse struct {
	SessionCookieName     string `json:"session_cookie_name"`
	AccessTokenTTLSeconds int64  `json:"access_token_ttl_seconds"`
	GoogleLoginEnabled    bool   `json:"google_login_enabled"`
}

// GoogleUserInfo holds user information obtained from Google.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// UserProfileResponse defines the structure for a user's profile information.
type UserProfileResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// UpdateUserStatusRequest toggles a user's active flag (admin only).
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active"`
}
