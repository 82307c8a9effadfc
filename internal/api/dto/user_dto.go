package dto

import "github.com/spec-kit/library-catalog/internal/domain"

// SignupRequest payload for new accounts, nested under "user".
type SignupRequest struct {
	User SignupUser `json:"user"`
}

// SignupUser carries the signup form fields.
type SignupUser struct {
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role"`
}

// LoginRequest payload for login, nested under "user".
type LoginRequest struct {
	User LoginUser `json:"user"`
}

// LoginUser carries the login form fields.
type LoginUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload for password changes.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// PublicUser is the externally visible slice of an account. The
// password hash and token marker never leave the service.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// NewPublicUser maps a domain user to its public shape.
func NewPublicUser(user *domain.User) PublicUser {
	return PublicUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	}
}

// Status is the code/message envelope used by session responses.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
