package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-catalog/internal/api/dto"
	"github.com/spec-kit/library-catalog/internal/auth"
	"github.com/spec-kit/library-catalog/internal/service"
	apperrors "github.com/spec-kit/library-catalog/pkg/util"
)

// AuthHandler exposes signup, session and current-user endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.Signup(c.Context(), service.SignupInput{
		Username:             req.User.Username,
		Email:                req.User.Email,
		Password:             req.User.Password,
		PasswordConfirmation: req.User.PasswordConfirmation,
		Role:                 req.User.Role,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status": dto.Status{Code: http.StatusCreated, Message: "Signed up successfully."},
		"data": fiber.Map{
			"user": dto.NewPublicUser(user),
		},
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.User.Email == "" || req.User.Password == "" {
		return apperrors.NewUnauthorized("invalid email or password")
	}

	user, token, _, err := h.auth.Login(c.Context(), req.User.Email, req.User.Password)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderAuthorization, "Bearer "+token)
	return c.JSON(fiber.Map{
		"status": dto.Status{Code: http.StatusOK, Message: "Logged in successfully."},
		"data": fiber.Map{
			"user": dto.NewPublicUser(user),
			"jwt":  token,
		},
	})
}

// Logout handles DELETE /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return apperrors.NewUnauthorized("authentication failed")
	}

	if err := h.auth.Logout(c.Context(), user.ID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status": dto.Status{Code: http.StatusOK, Message: "Logged out successfully."},
	})
}

// CurrentUser handles GET /current_user.
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return apperrors.NewUnauthorized("authentication failed")
	}
	return c.JSON(dto.NewPublicUser(user))
}

// ChangePassword handles POST /password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return apperrors.NewUnauthorized("authentication failed")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.auth.ChangePassword(c.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status": dto.Status{Code: http.StatusOK, Message: "Password changed successfully."},
	})
}
