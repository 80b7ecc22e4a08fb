package service

import (
	"context"

	"quizhub/internal/domain"
	"quizhub/internal/dto"
	"quizhub/internal/logger"
	"quizhub/internal/repository"

	"go.uber.org/zap"
)

// UserService serves profile reads and the admin user management surface.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserProfileResponse, error)
	SetUserActive(ctx context.Context, userID string, active bool) (*dto.UserProfileResponse, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewStorageError("failed to fetch user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user not found")
	}
	profile := toUserProfile(user)
	return &profile, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]dto.UserProfileResponse, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, domain.NewStorageError("failed to list users", err)
	}
	profiles := make([]dto.UserProfileResponse, 0, len(users))
	for i := range users {
		profiles = append(profiles, toUserProfile(&users[i]))
	}
	return profiles, nil
}

// SetUserActive toggles an account. Deactivated users fail login and token
// refresh until reactivated.
func (s *userServiceImpl) SetUserActive(ctx context.Context, userID string, active bool) (*dto.UserProfileResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewStorageError("failed to fetch user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user not found")
	}

	if user.IsActive != active {
		if err := s.userRepo.SetUserActive(ctx, userID, active); err != nil {
			return nil, domain.NewStorageError("failed to update user status", err)
		}
		user.IsActive = active
		logger.Get().Info("User status changed",
			zap.String("userID", userID),
			zap.Bool("isActive", active))
	}

	profile := toUserProfile(user)
	return &profile, nil
}

func toUserProfile(u *domain.User) dto.UserProfileResponse {
	return dto.UserProfileResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}
