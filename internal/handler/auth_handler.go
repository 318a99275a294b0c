package handler

import (
	"errors"
	"net/http"

	"github.com/sirsasha78/AdMarketplace/internal/usecase"
	"github.com/sirsasha78/AdMarketplace/pkg/jwtutil"
	"github.com/sirsasha78/AdMarketplace/pkg/logger"
	"github.com/sirsasha78/AdMarketplace/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	users *usecase.UserUsecase
}

// NewAuthHandler builds the handler around the user service.
func NewAuthHandler(users *usecase.UserUsecase) *AuthHandler {
	return &AuthHandler{users: users}
}

// RegisterRequest defines the structure for account registration requests
type RegisterRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	AccountType string `json:"account_type,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Register handles account creation through the provisioning pipeline
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RegisterCounter.Inc()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.users.CreateUser(c.Request().Context(), req.FirstName, req.LastName, req.Email, req.Password,
		usecase.CreateOptions{
			AccountType: req.AccountType,
			PhoneNumber: req.PhoneNumber,
		})
	if err != nil {
		if ve, ok := usecase.AsValidationError(err); ok {
			log.Warn("Registration rejected by validation",
				zap.String("kind", string(ve.Kind)))
			prometheus.RecordAuthError(string(ve.Kind))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Message})
		}
		if errors.Is(err, usecase.ErrEmailTaken) {
			log.Warn("Registration with taken email", zap.String("email", req.Email))
			prometheus.RecordAuthError("email_already_exists")
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		log.Error("Failed to create user", zap.Error(err))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("account_type", user.AccountType))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login handles credential verification and token issuance
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.users.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			log.Warn("Invalid credentials", zap.String("email", req.Email))
			prometheus.RecordAuthError("invalid_credentials")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		log.Error("Login failed", zap.Error(err))
		prometheus.RecordAuthError("login_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID.String(), user.IsStaff, user.AccountType)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}
