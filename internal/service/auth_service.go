package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/library-catalog/internal/auth"
	"github.com/spec-kit/library-catalog/internal/config"
	"github.com/spec-kit/library-catalog/internal/domain"
	"github.com/spec-kit/library-catalog/internal/events"
	"github.com/spec-kit/library-catalog/internal/persistence"
	"github.com/spec-kit/library-catalog/internal/repository"
	apperrors "github.com/spec-kit/library-catalog/pkg/util"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService coordinates signup, login, logout and password flows.
type AuthService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	redis       *persistence.Redis
	dispatcher  events.Dispatcher
	bcryptCost  int
	maxAttempts int
	attemptTTL  time.Duration
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Redis      *persistence.Redis
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:       deps.UserRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		redis:       deps.Redis,
		dispatcher:  deps.Dispatcher,
		bcryptCost:  cfg.Auth.BcryptCost,
		maxAttempts: cfg.Auth.LoginMaxAttempts,
		attemptTTL:  cfg.Auth.LoginAttemptWindow(),
	}
}

// SignupInput carries the raw signup form fields.
type SignupInput struct {
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
	Role                 string
}

// Signup validates the form and creates the account with a fresh token
// marker. Validation failures carry a field-level detail map.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	role := domain.Role(input.Role)
	if input.Role == "" {
		role = domain.RoleMember
	}

	details := map[string]any{}
	if username == "" {
		details["username"] = "can't be blank"
	}
	if email == "" {
		details["email"] = "can't be blank"
	} else if !emailPattern.MatchString(email) {
		details["email"] = "is invalid"
	}
	if len(input.Password) < minPasswordLength {
		details["password"] = fmt.Sprintf("is too short (minimum is %d characters)", minPasswordLength)
	}
	if input.Password != input.PasswordConfirmation {
		details["password_confirmation"] = "doesn't match password"
	}
	if !role.Valid() {
		details["role"] = "is not included in the list"
	}
	if len(details) > 0 {
		return nil, apperrors.NewUnprocessable("signup validation failed", details)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewUnprocessable("signup validation failed", map[string]any{
			"email": "has already been taken",
		})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		TokenMarker:  uuid.NewString(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, user.Email, nil)
	return user, nil
}

// Login authenticates the credentials and issues a token bound to the
// user's current marker. All failure modes collapse into one generic
// error so the response never reveals whether the account exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.checkLoginThrottle(ctx, email); err != nil {
		return nil, "", time.Time{}, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.recordFailedLogin(ctx, email)
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, "", time.Time{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.recordFailedLogin(ctx, email)
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
	}

	token, expiresAt, err := s.tokenMgr.Generate(user.ID, user.TokenMarker)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID, user.Email, nil)
	return user, token, expiresAt, nil
}

// Logout advances the user's token marker, revoking every outstanding
// token at once. Repeating the call is harmless; each invocation just
// installs another fresh marker.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.AdvanceTokenMarker(ctx, userID, uuid.NewString()); err != nil {
		return err
	}
	s.publish(ctx, events.EventUserLoggedOut, userID, "", nil)
	return nil
}

// ChangePassword verifies the current password, stores the new hash and
// advances the marker so old tokens stop working.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid email or password")
	}
	if len(newPassword) < minPasswordLength {
		return apperrors.NewUnprocessable("password validation failed", map[string]any{
			"password": fmt.Sprintf("is too short (minimum is %d characters)", minPasswordLength),
		})
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.TokenMarker = uuid.NewString()
	return s.users.Update(ctx, user)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) checkLoginThrottle(ctx context.Context, email string) error {
	if s.redis == nil || s.redis.Client == nil || s.maxAttempts <= 0 {
		return nil
	}
	count, err := s.redis.Client.Get(ctx, loginAttemptKey(email)).Int()
	if err != nil {
		// Redis being down never blocks logins.
		return nil
	}
	if count >= s.maxAttempts {
		return apperrors.NewUnauthorized("invalid email or password")
	}
	return nil
}

func (s *AuthService) recordFailedLogin(ctx context.Context, email string) {
	if s.redis == nil || s.redis.Client == nil || s.maxAttempts <= 0 {
		return
	}
	key := loginAttemptKey(email)
	if count, err := s.redis.Client.Incr(ctx, key).Result(); err == nil && count == 1 {
		s.redis.Client.Expire(ctx, key, s.attemptTTL)
	}
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, actorID, subject string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func loginAttemptKey(email string) string {
	return "login_attempts:" + email
}
