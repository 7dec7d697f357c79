package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"mindmaze-api/internal/models"
	"mindmaze-api/internal/repositories"
	apperrors "mindmaze-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository 用户仓库的 mock 实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) TopByScore(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if e := args.Get(0); e != nil {
		return e.([]models.LeaderboardEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func requireAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, status, appErr.StatusCode)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}

func TestUserService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes password", func(t *testing.T) {
		repo := &MockUserRepository{}
		svc := NewUserService(repo, bcrypt.MinCost)

		repo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "alice" &&
				u.Score == 0 &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")) == nil
		})).Return(nil).Once()

		user, err := svc.Signup(ctx, &models.SignupRequest{Username: " alice ", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.NotEqual(t, "secret123", user.PasswordHash)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		repo := &MockUserRepository{}
		svc := NewUserService(repo, bcrypt.MinCost)
		repo.On("Create", ctx, mock.Anything).Return(repositories.ErrDuplicateUsername).Once()

		_, err := svc.Signup(ctx, &models.SignupRequest{Username: "alice", Password: "secret123"})
		requireAppError(t, err, http.StatusBadRequest, "Username already exists")
	})

	t.Run("database failure", func(t *testing.T) {
		repo := &MockUserRepository{}
		svc := NewUserService(repo, bcrypt.MinCost)
		repo.On("Create", ctx, mock.Anything).Return(errors.New("socket closed")).Once()

		_, err := svc.Signup(ctx, &models.SignupRequest{Username: "alice", Password: "secret123"})
		requireAppError(t, err, http.StatusInternalServerError, "")
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{Username: "alice", PasswordHash: string(hash), Score: 30}

	t.Run("valid credentials", func(t *testing.T) {
		repo := &MockUserRepository{}
		svc := NewUserService(repo, bcrypt.MinCost)
		repo.On("GetByUsername", ctx, "alice").Return(stored, nil).Once()

		user, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, 30, user.Score)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := &MockUserRepository{}
		svc := NewUserService(repo, bcrypt.MinCost)
		repo.On("GetByUsername", ctx, "alice").Return(stored, nil).Once()

		_, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "wrong-pass"})
		requireAppError(t, err, http.StatusUnauthorized, "Invalid username or password")
	})

	t.Run("unknown user has same message", func(t *testing.T) {
		repo := &MockUserRepository{}
		svc := NewUserService(repo, bcrypt.MinCost)
		repo.On("GetByUsername", ctx, "ghost").Return(nil, repositories.ErrUserNotFound).Once()

		_, err := svc.Login(ctx, &models.LoginRequest{Username: "ghost", Password: "secret123"})
		requireAppError(t, err, http.StatusUnauthorized, "Invalid username or password")
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := &MockUserRepository{}
		svc := NewUserService(repo, bcrypt.MinCost)
		repo.On("GetByUsername", ctx, "alice").Return(nil, errors.New("timeout")).Once()

		_, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "secret123"})
		requireAppError(t, err, http.StatusInternalServerError, "")
	})
}

func TestNewUserService_ClampsCost(t *testing.T) {
	svc := NewUserService(&MockUserRepository{}, 99).(*userService)
	assert.Equal(t, bcrypt.DefaultCost, svc.bcryptCost)
}
