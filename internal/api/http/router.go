package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-catalog/internal/api/http/handlers"
	"github.com/spec-kit/library-catalog/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Books          *handlers.BooksHandler
	Reviews        *handlers.ReviewsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Every route passes through the
// resolver so an Authorization header, when present, is always
// validated; Require() additionally rejects anonymous callers.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/signup", cfg.Auth.Signup)
	app.Post("/login", cfg.Auth.Login)
	app.Delete("/logout", cfg.AuthMiddleware.Resolve, auth.Require(), cfg.Auth.Logout)
	app.Get("/current_user", cfg.AuthMiddleware.Resolve, auth.Require(), cfg.Auth.CurrentUser)
	app.Post("/password/change", cfg.AuthMiddleware.Resolve, auth.Require(), cfg.Auth.ChangePassword)

	app.Get("/users/:id", cfg.AuthMiddleware.Resolve, auth.Require(), cfg.Users.Show)

	books := app.Group("/books", cfg.AuthMiddleware.Resolve)
	books.Get("/", cfg.Books.List)
	books.Post("/", cfg.Books.Create)
	books.Get("/:id", cfg.Books.Show)
	books.Patch("/:id", cfg.Books.Update)
	books.Delete("/:id", cfg.Books.Delete)

	books.Get("/:book_id/reviews", cfg.Reviews.ListByBook)
	books.Post("/:book_id/reviews", cfg.Reviews.Create)

	reviews := app.Group("/reviews", cfg.AuthMiddleware.Resolve)
	reviews.Get("/:id", cfg.Reviews.Show)
	reviews.Patch("/:id", cfg.Reviews.Update)
	reviews.Delete("/:id", cfg.Reviews.Delete)
}
