package server

import (
	"errors"
	"net/http"

	"github.com/existflow/lifeos/internal/logger"
	"github.com/existflow/lifeos/internal/model"
	"github.com/existflow/lifeos/internal/store"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

// handleRegister creates an account and issues a token for it.
func (s *Server) handleRegister(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid request")
	}

	if req.Email == "" || req.Password == "" {
		return message(c, http.StatusBadRequest, "email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c, "hash password", err)
	}

	user, err := s.store.CreateUser(c.Request().Context(), req.Email, string(hash))
	if errors.Is(err, store.ErrDuplicateEmail) {
		return message(c, http.StatusConflict, "a user with this email already exists")
	}
	if err != nil {
		return internalError(c, "create user", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return internalError(c, "issue token", err)
	}

	logger.Info("user registered", logger.F("email", user.Email))

	return c.JSON(http.StatusCreated, authResponse{
		Message: "user registered",
		Token:   token,
		User:    user.Public(),
	})
}

// handleLogin verifies credentials and issues a fresh token. Unknown
// email and wrong password produce the same response on purpose.
func (s *Server) handleLogin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid request")
	}

	if req.Email == "" || req.Password == "" {
		return message(c, http.StatusBadRequest, "email and password are required")
	}

	user, err := s.store.UserByEmail(c.Request().Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return message(c, http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return internalError(c, "find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return message(c, http.StatusUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return internalError(c, "issue token", err)
	}

	logger.Info("user logged in", logger.F("email", user.Email))

	return c.JSON(http.StatusOK, authResponse{
		Message: "login successful",
		Token:   token,
		User:    user.Public(),
	})
}
