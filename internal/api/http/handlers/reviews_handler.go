package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-catalog/internal/api/dto"
	"github.com/spec-kit/library-catalog/internal/auth"
	"github.com/spec-kit/library-catalog/internal/service"
	apperrors "github.com/spec-kit/library-catalog/pkg/util"
)

// ReviewsHandler exposes review endpoints.
type ReviewsHandler struct {
	reviews *service.ReviewService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(reviewService *service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{reviews: reviewService}
}

// ListByBook handles GET /books/:book_id/reviews.
func (h *ReviewsHandler) ListByBook(c *fiber.Ctx) error {
	reviews, err := h.reviews.ListByBook(c.Context(), c.Params("book_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReviewList(reviews)})
}

// Create handles POST /books/:book_id/reviews.
func (h *ReviewsHandler) Create(c *fiber.Ctx) error {
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	review, err := h.reviews.Create(c.Context(), auth.CurrentUser(c), c.Params("book_id"), service.ReviewInput{
		Rating:  req.Data.Attributes.Rating,
		Comment: req.Data.Attributes.Comment,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewReviewResponse(review)})
}

// Show handles GET /reviews/:id.
func (h *ReviewsHandler) Show(c *fiber.Ctx) error {
	review, err := h.reviews.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReviewResponse(review)})
}

// Update handles PATCH /reviews/:id.
func (h *ReviewsHandler) Update(c *fiber.Ctx) error {
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	review, err := h.reviews.Update(c.Context(), auth.CurrentUser(c), c.Params("id"), service.ReviewInput{
		Rating:  req.Data.Attributes.Rating,
		Comment: req.Data.Attributes.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReviewResponse(review)})
}

// Delete handles DELETE /reviews/:id.
func (h *ReviewsHandler) Delete(c *fiber.Ctx) error {
	if err := h.reviews.Delete(c.Context(), auth.CurrentUser(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
