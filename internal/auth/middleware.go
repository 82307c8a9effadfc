package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/library-catalog/internal/domain"
	"github.com/spec-kit/library-catalog/internal/repository"
	apperrors "github.com/spec-kit/library-catalog/pkg/util"
)

const principalKey = "auth_principal"

// Middleware resolves bearer tokens into the acting user.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	logger *zap.Logger
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, logger: logger}
}

// Resolve loads the current user when an Authorization header is
// present. Absence of the header is not an error; anonymous requests
// continue with no principal. A header that is present but fails any
// validation step is a 401, with one generic message regardless of the
// reason.
func (m *Middleware) Resolve(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return m.reject(c, ErrMalformedToken)
	}

	claims, err := m.tokens.Parse(parts[1])
	if err != nil {
		return m.reject(c, err)
	}

	user, err := m.users.GetByID(c.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return m.reject(c, ErrUnknownSubject)
		}
		return apperrors.MapError(err)
	}

	if user.TokenMarker != claims.ID {
		return m.reject(c, ErrRevokedToken)
	}

	c.Locals(principalKey, user)
	return c.Next()
}

// Require rejects requests that carry no resolved principal.
func Require() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return apperrors.NewUnauthorized("authentication failed")
		}
		return c.Next()
	}
}

// CurrentUser returns the resolved principal, or nil for anonymous.
func CurrentUser(c *fiber.Ctx) *domain.User {
	val := c.Locals(principalKey)
	if val == nil {
		return nil
	}
	user, ok := val.(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func (m *Middleware) reject(c *fiber.Ctx, reason error) error {
	// The reason stays internal; clients only ever see the generic 401.
	if m.logger != nil {
		m.logger.Info("authentication rejected",
			zap.String("path", c.Path()),
			zap.NamedError("reason", reason),
		)
	}
	return apperrors.NewUnauthorized("authentication failed")
}
