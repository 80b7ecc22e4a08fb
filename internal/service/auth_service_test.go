package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizhub/internal/config"
	"quizhub/internal/domain"
	"quizhub/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockUserRepository is a manual mock of repository.UserRepository.
type mockUserRepository struct {
	GetUserByIDFunc       func(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmailFunc    func(ctx context.Context, email string) (*domain.User, error)
	GetUserByGoogleIDFunc func(ctx context.Context, googleID string) (*domain.User, error)
	CreateUserFunc        func(ctx context.Context, user *domain.User) error
	UpdateUserFunc        func(ctx context.Context, user *domain.User) error
	SetUserActiveFunc     func(ctx context.Context, userID string, active bool) error
	ListUsersFunc         func(ctx context.Context) ([]domain.User, error)
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetUserByUsernameFunc != nil {
		return m.GetUserByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	if m.GetUserByGoogleIDFunc != nil {
		return m.GetUserByGoogleIDFunc(ctx, googleID)
	}
	return nil, nil
}

func (m *mockUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) SetUserActive(ctx context.Context, userID string, active bool) error {
	if m.SetUserActiveFunc != nil {
		return m.SetUserActiveFunc(ctx, userID, active)
	}
	return nil
}

func (m *mockUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return nil, nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "0123456789abcdef0123456789abcdef",
			Algorithm:       "HS256",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
		},
	}
}

func newTestAuthService(t *testing.T, repo *mockUserRepository) AuthService {
	t.Helper()
	svc, err := NewAuthService(repo, testAuthConfig())
	require.NoError(t, err)
	return svc
}

func TestNewAuthService_RejectsShortSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWT.SecretKey = "too-short"
	_, err := NewAuthService(&mockUserRepository{}, cfg)
	assert.Error(t, err)
}

func TestCreateAndValidateJWT(t *testing.T) {
	svc := newTestAuthService(t, &mockUserRepository{})
	user := &domain.User{ID: "user1", Email: "u@example.com", Role: domain.RoleUser}

	token, err := svc.CreateJWT(context.Background(), user, time.Hour, TokenTypeAccess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateJWT(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user1", claims.UserID)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestValidateJWT_ExpiredToken(t *testing.T) {
	svc := newTestAuthService(t, &mockUserRepository{})
	user := &domain.User{ID: "user1", Email: "u@example.com", Role: domain.RoleUser}

	token, err := svc.CreateJWT(context.Background(), user, -time.Minute, TokenTypeAccess)
	require.NoError(t, err)

	_, err = svc.ValidateJWT(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateJWT_TamperedToken(t *testing.T) {
	svc := newTestAuthService(t, &mockUserRepository{})
	user := &domain.User{ID: "user1", Email: "u@example.com", Role: domain.RoleUser}

	token, err := svc.CreateJWT(context.Background(), user, time.Hour, TokenTypeAccess)
	require.NoError(t, err)

	_, err = svc.ValidateJWT(context.Background(), token+"x")
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	svc := newTestAuthService(t, &mockUserRepository{})

	otherCfg := testAuthConfig()
	otherCfg.JWT.SecretKey = "ffffffffffffffffffffffffffffffff"
	otherSvc, err := NewAuthService(&mockUserRepository{}, otherCfg)
	require.NoError(t, err)

	user := &domain.User{ID: "user1", Email: "u@example.com", Role: domain.RoleUser}
	token, err := otherSvc.CreateJWT(context.Background(), user, time.Hour, TokenTypeAccess)
	require.NoError(t, err)

	_, err = svc.ValidateJWT(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	var created *domain.User
	repo := &mockUserRepository{
		CreateUserFunc: func(ctx context.Context, user *domain.User) error {
			created = user
			return nil
		},
	}
	svc := newTestAuthService(t, repo)

	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret-pass", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret-pass")))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := &mockUserRepository{
		GetUserByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: "existing", Username: username}, nil
		},
	}
	svc := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := &mockUserRepository{
		GetUserByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{
				ID:           "user1",
				Username:     username,
				Email:        "alice@example.com",
				PasswordHash: string(hash),
				Role:         domain.RoleUser,
				IsActive:     true,
			}, nil
		},
	}
	svc := newTestAuthService(t, repo)

	access, refresh, user, err := svc.Login(context.Background(), "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, "user1", user.ID)

	claims, err := svc.ValidateJWT(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestLogin_UnknownUserAndWrongPasswordLookTheSame(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	knownRepo := &mockUserRepository{
		GetUserByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: "user1", PasswordHash: string(hash), IsActive: true, Role: domain.RoleUser}, nil
		},
	}
	unknownRepo := &mockUserRepository{}

	svcKnown := newTestAuthService(t, knownRepo)
	svcUnknown := newTestAuthService(t, unknownRepo)

	_, _, _, errWrongPass := svcKnown.Login(context.Background(), "alice", "wrong-pass")
	_, _, _, errUnknown := svcUnknown.Login(context.Background(), "nobody", "whatever")

	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := &mockUserRepository{
		GetUserByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: "user1", PasswordHash: string(hash), IsActive: false, Role: domain.RoleUser}, nil
		},
	}
	svc := newTestAuthService(t, repo)

	_, _, _, err = svc.Login(context.Background(), "alice", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	user := &domain.User{ID: "user1", Email: "u@example.com", Role: domain.RoleUser, IsActive: true}
	repo := &mockUserRepository{
		GetUserByIDFunc: func(ctx context.Context, userID string) (*domain.User, error) {
			if userID == "user1" {
				return user, nil
			}
			return nil, nil
		},
	}
	svc := newTestAuthService(t, repo)

	refresh, err := svc.CreateJWT(context.Background(), user, time.Hour, TokenTypeRefresh)
	require.NoError(t, err)

	newAccess, newRefresh, err := svc.RefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)

	claims, err := svc.ValidateJWT(context.Background(), newAccess)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	user := &domain.User{ID: "user1", Email: "u@example.com", Role: domain.RoleUser, IsActive: true}
	svc := newTestAuthService(t, &mockUserRepository{
		GetUserByIDFunc: func(ctx context.Context, userID string) (*domain.User, error) {
			return user, nil
		},
	})

	access, err := svc.CreateJWT(context.Background(), user, time.Hour, TokenTypeAccess)
	require.NoError(t, err)

	_, _, err = svc.RefreshToken(context.Background(), access)
	assert.Error(t, err)
}

func TestHandleGoogleCallback_StateMismatch(t *testing.T) {
	svc := newTestAuthService(t, &mockUserRepository{})
	_, _, _, err := svc.HandleGoogleCallback(context.Background(), "code", "state-a", "state-b")
	assert.True(t, errors.Is(err, ErrInvalidAuthState))
}
