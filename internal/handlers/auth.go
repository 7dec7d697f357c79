package handlers

import (
	"mindmaze-api/internal/models"
	"mindmaze-api/internal/services"
	"mindmaze-api/internal/validation"
	"mindmaze-api/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthObserver 认证结果回调，用于指标采集
type AuthObserver interface {
	RecordUserLogin(success bool)
	RecordUserRegistration(success bool)
}

type AuthHandler struct {
	userService services.UserService
	observer    AuthObserver
}

func NewAuthHandler(userService services.UserService, observer AuthObserver) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		observer:    observer,
	}
}

// Signup godoc
// @Summary Register new user
// @Description Create an account with a unique username and a starting score of zero
// @Tags auth
// @Accept json
// @Produce json
// @Param signupRequest body models.SignupRequest true "Account data"
// @Success 201 {object} models.AuthResponse "User created successfully"
// @Failure 400 {object} response.ErrorBody "Username already exists"
// @Failure 422 {object} response.ErrorBody "Validation error"
// @Failure 429 {object} response.ErrorBody "Too many requests"
// @Header 201 {string} X-Correlation-ID "Unique identifier for request tracing"
// @Router /api/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordSignup(false)
		response.ValidationError(c, validation.Message(err))
		return
	}

	user, err := h.userService.Signup(c.Request.Context(), &req)
	if err != nil {
		h.recordSignup(false)
		response.Error(c, err)
		return
	}

	h.recordSignup(true)
	response.Created(c, models.AuthResponse{
		Message: "User created successfully",
		User:    user.ToPublic(),
	})
}

// Login godoc
// @Summary Login user
// @Description Verify a username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.AuthResponse "Login successful"
// @Failure 401 {object} response.ErrorBody "Invalid username or password"
// @Failure 422 {object} response.ErrorBody "Validation error"
// @Failure 429 {object} response.ErrorBody "Too many requests"
// @Header 200 {string} X-Correlation-ID "Unique identifier for request tracing"
// @Router /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordLogin(false)
		response.ValidationError(c, validation.Message(err))
		return
	}

	user, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		h.recordLogin(false)
		response.Error(c, err)
		return
	}

	h.recordLogin(true)
	response.OK(c, models.AuthResponse{
		Message: "Login successful",
		User:    user.ToPublic(),
	})
}

func (h *AuthHandler) recordLogin(success bool) {
	if h.observer != nil {
		h.observer.RecordUserLogin(success)
	}
}

func (h *AuthHandler) recordSignup(success bool) {
	if h.observer != nil {
		h.observer.RecordUserRegistration(success)
	}
}
