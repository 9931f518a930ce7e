package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"northwind-service/internal/model"
	"northwind-service/internal/store"
	"northwind-service/pkg/jwtutil"
	"northwind-service/pkg/logger"
	"northwind-service/prometheus"
)

// AuthHandler issues bearer tokens against the user store.
type AuthHandler struct {
	store *store.Store
}

// NewAuthHandler wires the auth handler.
func NewAuthHandler(st *store.Store) *AuthHandler {
	return &AuthHandler{store: st}
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest carries a new account's credentials.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login verifies credentials and returns a signed token.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAuthAttempt()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.store.UserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		log.Error("Failed to look up user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if user == nil {
		log.Warn("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	roles := user.Roles()
	token, expiresAt, err := jwtutil.GenerateToken(user.Email, user.ID, roles)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.RecordAuthSuccess()
	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.Strings("roles", roles))

	return c.JSON(http.StatusOK, echo.Map{
		"token":      token,
		"expires_at": expiresAt,
		"roles":      roles,
	})
}

// Register creates a new account with the user role and returns its first
// token.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	existing, err := h.store.UserByEmail(ctx, req.Email)
	if err != nil {
		log.Error("Failed to look up user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}
	if existing != nil {
		log.Warn("User already exists", zap.String("email", req.Email))
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	user := model.User{Email: req.Email, Password: string(hash), Role: model.RoleUser}
	if err := h.store.Create(ctx, &user); err != nil {
		log.Error("Failed to create user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	token, _, err := jwtutil.GenerateToken(user.Email, user.ID, user.Roles())
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User registered", zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"email": user.Email,
		"token": token,
	})
}
