package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-catalog/internal/api/dto"
	"github.com/spec-kit/library-catalog/internal/auth"
	"github.com/spec-kit/library-catalog/internal/service"
	apperrors "github.com/spec-kit/library-catalog/pkg/util"
)

// BooksHandler exposes catalog endpoints.
type BooksHandler struct {
	books *service.BookService
}

// NewBooksHandler constructs handler.
func NewBooksHandler(bookService *service.BookService) *BooksHandler {
	return &BooksHandler{books: bookService}
}

// List handles GET /books.
func (h *BooksHandler) List(c *fiber.Ctx) error {
	books, err := h.books.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewBookList(books))
}

// Show handles GET /books/:id.
func (h *BooksHandler) Show(c *fiber.Ctx) error {
	book, err := h.books.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewBookResponse(book))
}

// Create handles POST /books.
func (h *BooksHandler) Create(c *fiber.Ctx) error {
	var req dto.BookRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	book, err := h.books.Create(c.Context(), auth.CurrentUser(c), bookInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewBookResponse(book))
}

// Update handles PATCH /books/:id.
func (h *BooksHandler) Update(c *fiber.Ctx) error {
	var req dto.BookRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	book, err := h.books.Update(c.Context(), auth.CurrentUser(c), c.Params("id"), bookInput(req))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewBookResponse(book))
}

// Delete handles DELETE /books/:id.
func (h *BooksHandler) Delete(c *fiber.Ctx) error {
	if err := h.books.Delete(c.Context(), auth.CurrentUser(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Book deleted successfully"})
}

func bookInput(req dto.BookRequest) service.BookInput {
	return service.BookInput{
		Title:           req.Book.Title,
		Author:          req.Book.Author,
		ISBN:            req.Book.ISBN,
		Publisher:       req.Book.Publisher,
		PublishedYear:   req.Book.PublishedYear,
		TotalCopies:     req.Book.TotalCopies,
		AvailableCopies: req.Book.AvailableCopies,
		CategoryID:      req.Book.CategoryID,
	}
}
