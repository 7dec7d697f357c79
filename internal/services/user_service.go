package services

import (
	"context"
	"errors"
	"strings"

	"mindmaze-api/internal/models"
	"mindmaze-api/internal/repositories"
	apperrors "mindmaze-api/pkg/errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	msgUsernameTaken      = "Username already exists"
	msgInvalidCredentials = "Invalid username or password"
)

// UserService defines the interface for account business logic
type UserService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
}

type userService struct {
	userRepo   repositories.UserRepository
	bcryptCost int
	dummyHash  []byte // 用户不存在时也执行一次比较
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, bcryptCost int) UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("mindmaze-dummy-password"), bcryptCost)
	return &userService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}
}

// Signup creates a new account with a zero score
func (s *userService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError("", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
	}

	// 唯一索引负责并发注册时的去重
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUsername) {
			return nil, apperrors.NewBadRequestError(msgUsernameTaken)
		}
		return nil, apperrors.NewDatabaseError("failed to create user", err)
	}

	return user, nil
}

// Login verifies credentials and returns the account
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
			return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
		}
		return nil, apperrors.NewDatabaseError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
	}

	return user, nil
}
