package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/library-catalog/internal/api/http/handlers"
	"github.com/spec-kit/library-catalog/internal/auth"
	"github.com/spec-kit/library-catalog/internal/config"
	"github.com/spec-kit/library-catalog/internal/domain"
	"github.com/spec-kit/library-catalog/internal/events"
	"github.com/spec-kit/library-catalog/internal/observability"
	"github.com/spec-kit/library-catalog/internal/persistence"
	"github.com/spec-kit/library-catalog/internal/service"
)

type memUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.seq++
	user.ID = fmt.Sprintf("user-%d", m.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) AdvanceTokenMarker(_ context.Context, id, marker string) error {
	user, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.TokenMarker = marker
	return nil
}

type memBookRepo struct {
	books map[string]*domain.Book
	seq   int
}

func (m *memBookRepo) Create(_ context.Context, book *domain.Book) error {
	m.seq++
	book.ID = fmt.Sprintf("book-%d", m.seq)
	book.CreatedAt = time.Now()
	book.UpdatedAt = book.CreatedAt
	clone := *book
	m.books[book.ID] = &clone
	return nil
}

func (m *memBookRepo) Update(_ context.Context, book *domain.Book) error {
	if _, ok := m.books[book.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *book
	m.books[book.ID] = &clone
	return nil
}

func (m *memBookRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.books[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.books, id)
	return nil
}

func (m *memBookRepo) GetByID(_ context.Context, id string) (*domain.Book, error) {
	book, ok := m.books[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *book
	return &clone, nil
}

func (m *memBookRepo) List(_ context.Context) ([]*domain.Book, error) {
	out := make([]*domain.Book, 0, len(m.books))
	for _, book := range m.books {
		clone := *book
		out = append(out, &clone)
	}
	return out, nil
}

type memReviewRepo struct {
	reviews map[string]*domain.Review
	seq     int
}

func (m *memReviewRepo) Create(_ context.Context, review *domain.Review) error {
	m.seq++
	review.ID = fmt.Sprintf("review-%d", m.seq)
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	clone := *review
	m.reviews[review.ID] = &clone
	return nil
}

func (m *memReviewRepo) Update(_ context.Context, review *domain.Review) error {
	if _, ok := m.reviews[review.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *review
	m.reviews[review.ID] = &clone
	return nil
}

func (m *memReviewRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.reviews[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.reviews, id)
	return nil
}

func (m *memReviewRepo) GetByID(_ context.Context, id string) (*domain.Review, error) {
	review, ok := m.reviews[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *review
	return &clone, nil
}

func (m *memReviewRepo) ListByBook(_ context.Context, bookID string) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, review := range m.reviews {
		if review.BookID == bookID {
			clone := *review
			out = append(out, &clone)
		}
	}
	return out, nil
}

type memCategoryRepo struct {
	categories map[string]*domain.Category
}

func (m *memCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return category, nil
}

func (m *memCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(m.categories))
	for _, category := range m.categories {
		out = append(out, category)
	}
	return out, nil
}

func newTestServer() *fiber.App {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:           "test-secret",
			AccessTokenTTLHours: 1,
			BcryptCost:          4,
		},
	}

	userRepo := &memUserRepo{users: map[string]*domain.User{}}
	bookRepo := &memBookRepo{books: map[string]*domain.Book{}}
	reviewRepo := &memReviewRepo{reviews: map[string]*domain.Review{}}
	categoryRepo := &memCategoryRepo{categories: map[string]*domain.Category{}}

	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	userService := service.NewUserService(userRepo, dispatcher)
	bookService := service.NewBookService(bookRepo, categoryRepo, dispatcher)
	reviewService := service.NewReviewService(reviewRepo, bookRepo, dispatcher)

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("library-catalog", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Books:          handlers.NewBooksHandler(bookService),
		Reviews:        handlers.NewReviewsHandler(reviewService),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager(), userRepo, logger),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	decoded := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

func signupAndLogin(t *testing.T, app *fiber.App, email, password, role string) string {
	t.Helper()

	status, _ := doJSON(t, app, http.MethodPost, "/signup", "", map[string]any{
		"user": map[string]any{
			"username":              "user-" + email,
			"email":                 email,
			"password":              password,
			"password_confirmation": password,
			"role":                  role,
		},
	})
	if status != http.StatusCreated {
		t.Fatalf("signup status = %d, want 201", status)
	}

	status, body := doJSON(t, app, http.MethodPost, "/login", "", map[string]any{
		"user": map[string]any{"email": email, "password": password},
	})
	if status != http.StatusOK {
		t.Fatalf("login status = %d, want 200", status)
	}

	data, _ := body["data"].(map[string]any)
	token, _ := data["jwt"].(string)
	if token == "" {
		t.Fatalf("login response missing jwt: %v", body)
	}
	return token
}

func TestSignupLoginLogoutFlow(t *testing.T) {
	t.Parallel()

	app := newTestServer()

	status, body := doJSON(t, app, http.MethodPost, "/signup", "", map[string]any{
		"user": map[string]any{
			"username":              "alice",
			"email":                 "a@x.com",
			"password":              "secret1",
			"password_confirmation": "secret1",
		},
	})
	if status != http.StatusCreated {
		t.Fatalf("signup status = %d, want 201 (body %v)", status, body)
	}
	data, _ := body["data"].(map[string]any)
	created, _ := data["user"].(map[string]any)
	if created["role"] != "member" {
		t.Fatalf("signup role = %v, want member", created["role"])
	}
	if _, leaked := created["password_hash"]; leaked {
		t.Fatalf("signup response leaks password hash")
	}

	status, body = doJSON(t, app, http.MethodPost, "/login", "", map[string]any{
		"user": map[string]any{"email": "a@x.com", "password": "secret1"},
	})
	if status != http.StatusOK {
		t.Fatalf("login status = %d, want 200", status)
	}
	data, _ = body["data"].(map[string]any)
	token, _ := data["jwt"].(string)
	if token == "" {
		t.Fatalf("no jwt in login response: %v", body)
	}

	status, body = doJSON(t, app, http.MethodGet, "/current_user", token, nil)
	if status != http.StatusOK {
		t.Fatalf("current_user status = %d, want 200", status)
	}
	if body["role"] != "member" {
		t.Fatalf("current_user role = %v, want member", body["role"])
	}

	status, _ = doJSON(t, app, http.MethodDelete, "/logout", token, nil)
	if status != http.StatusOK {
		t.Fatalf("logout status = %d, want 200", status)
	}

	status, _ = doJSON(t, app, http.MethodGet, "/current_user", token, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("current_user after logout status = %d, want 401", status)
	}

	status, _ = doJSON(t, app, http.MethodDelete, "/logout", token, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("second logout with revoked token status = %d, want 401", status)
	}

	if tok := signupAndLogin(t, app, "fresh@x.com", "secret1", ""); tok == "" {
		t.Fatalf("fresh login failed")
	}
}

func TestSignup_ValidationErrors(t *testing.T) {
	t.Parallel()

	app := newTestServer()

	status, body := doJSON(t, app, http.MethodPost, "/signup", "", map[string]any{
		"user": map[string]any{
			"username":              "bob",
			"email":                 "b@x.com",
			"password":              "secret1",
			"password_confirmation": "different",
		},
	})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", status)
	}
	errObj, _ := body["error"].(map[string]any)
	details, _ := errObj["details"].(map[string]any)
	if _, ok := details["password_confirmation"]; !ok {
		t.Fatalf("details missing password_confirmation: %v", body)
	}
}

func TestBookPermissions(t *testing.T) {
	t.Parallel()

	app := newTestServer()
	librarian := signupAndLogin(t, app, "lib@x.com", "secret1", "librarian")
	member := signupAndLogin(t, app, "mem@x.com", "secret1", "member")

	status, body := doJSON(t, app, http.MethodPost, "/books", librarian, map[string]any{
		"book": map[string]any{"title": "The Go Programming Language", "author": "Donovan"},
	})
	if status != http.StatusCreated {
		t.Fatalf("librarian create book status = %d, want 201 (body %v)", status, body)
	}
	bookID, _ := body["id"].(string)

	status, _ = doJSON(t, app, http.MethodGet, "/books/"+bookID, "", nil)
	if status != http.StatusOK {
		t.Fatalf("anonymous read book status = %d, want 200", status)
	}

	status, _ = doJSON(t, app, http.MethodPost, "/books", member, map[string]any{
		"book": map[string]any{"title": "Nope"},
	})
	if status != http.StatusForbidden {
		t.Fatalf("member create book status = %d, want 403", status)
	}

	status, _ = doJSON(t, app, http.MethodDelete, "/books/"+bookID, member, nil)
	if status != http.StatusForbidden {
		t.Fatalf("member delete book status = %d, want 403", status)
	}

	status, _ = doJSON(t, app, http.MethodDelete, "/books/"+bookID, "", nil)
	if status != http.StatusForbidden {
		t.Fatalf("anonymous delete book status = %d, want 403", status)
	}

	status, _ = doJSON(t, app, http.MethodDelete, "/books/"+bookID, librarian, nil)
	if status != http.StatusOK {
		t.Fatalf("librarian delete book status = %d, want 200", status)
	}
}

func TestReviewOwnership(t *testing.T) {
	t.Parallel()

	app := newTestServer()
	librarian := signupAndLogin(t, app, "lib2@x.com", "secret1", "librarian")
	memberA := signupAndLogin(t, app, "a2@x.com", "secret1", "member")
	memberB := signupAndLogin(t, app, "b2@x.com", "secret1", "member")
	admin := signupAndLogin(t, app, "admin@x.com", "secret1", "admin")

	status, body := doJSON(t, app, http.MethodPost, "/books", librarian, map[string]any{
		"book": map[string]any{"title": "Reviewable"},
	})
	if status != http.StatusCreated {
		t.Fatalf("create book status = %d, want 201", status)
	}
	bookID, _ := body["id"].(string)

	status, body = doJSON(t, app, http.MethodPost, "/books/"+bookID+"/reviews", memberA, map[string]any{
		"data": map[string]any{"attributes": map[string]any{"rating": 5, "comment": "great"}},
	})
	if status != http.StatusCreated {
		t.Fatalf("member post review status = %d, want 201 (body %v)", status, body)
	}
	data, _ := body["data"].(map[string]any)
	reviewID, _ := data["id"].(string)

	status, _ = doJSON(t, app, http.MethodPost, "/books/"+bookID+"/reviews", "", map[string]any{
		"data": map[string]any{"attributes": map[string]any{"rating": 3, "comment": "anon"}},
	})
	if status != http.StatusForbidden {
		t.Fatalf("anonymous post review status = %d, want 403", status)
	}

	edit := map[string]any{
		"data": map[string]any{"attributes": map[string]any{"rating": 1, "comment": "edited"}},
	}

	status, _ = doJSON(t, app, http.MethodPatch, "/reviews/"+reviewID, memberB, edit)
	if status != http.StatusForbidden {
		t.Fatalf("other member edit review status = %d, want 403", status)
	}

	status, _ = doJSON(t, app, http.MethodPatch, "/reviews/"+reviewID, memberA, edit)
	if status != http.StatusOK {
		t.Fatalf("author edit review status = %d, want 200", status)
	}

	status, _ = doJSON(t, app, http.MethodPatch, "/reviews/"+reviewID, admin, edit)
	if status != http.StatusOK {
		t.Fatalf("admin edit review status = %d, want 200", status)
	}

	status, _ = doJSON(t, app, http.MethodDelete, "/reviews/"+reviewID, memberB, nil)
	if status != http.StatusForbidden {
		t.Fatalf("other member delete review status = %d, want 403", status)
	}

	status, _ = doJSON(t, app, http.MethodDelete, "/reviews/"+reviewID, admin, nil)
	if status != http.StatusNoContent {
		t.Fatalf("admin delete review status = %d, want 204", status)
	}
}

func TestUserReadPermissions(t *testing.T) {
	t.Parallel()

	app := newTestServer()
	member := signupAndLogin(t, app, "self@x.com", "secret1", "member")
	librarian := signupAndLogin(t, app, "lib3@x.com", "secret1", "librarian")

	status, body := doJSON(t, app, http.MethodGet, "/current_user", member, nil)
	if status != http.StatusOK {
		t.Fatalf("current_user status = %d, want 200", status)
	}
	memberID, _ := body["id"].(string)

	status, _ = doJSON(t, app, http.MethodGet, "/users/"+memberID, member, nil)
	if status != http.StatusOK {
		t.Fatalf("member read self status = %d, want 200", status)
	}

	status, body = doJSON(t, app, http.MethodGet, "/current_user", librarian, nil)
	if status != http.StatusOK {
		t.Fatalf("current_user status = %d, want 200", status)
	}
	librarianID, _ := body["id"].(string)

	status, _ = doJSON(t, app, http.MethodGet, "/users/"+librarianID, member, nil)
	if status != http.StatusForbidden {
		t.Fatalf("member read other user status = %d, want 403", status)
	}

	status, _ = doJSON(t, app, http.MethodGet, "/users/"+memberID, librarian, nil)
	if status != http.StatusOK {
		t.Fatalf("librarian read other user status = %d, want 200", status)
	}

	status, _ = doJSON(t, app, http.MethodGet, "/users/"+memberID, "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("anonymous read user status = %d, want 401", status)
	}
}
