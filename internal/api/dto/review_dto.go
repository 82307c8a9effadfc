package dto

import (
	"time"

	"github.com/spec-kit/library-catalog/internal/domain"
)

// ReviewRequest payload for create/update, nested under
// data.attributes to match the existing frontend.
type ReviewRequest struct {
	Data ReviewData `json:"data"`
}

// ReviewData wraps the review attributes.
type ReviewData struct {
	Attributes ReviewAttributes `json:"attributes"`
}

// ReviewAttributes carries the review form fields.
type ReviewAttributes struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewResponse is the external review shape.
type ReviewResponse struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewReviewResponse maps a domain review to its external shape.
func NewReviewResponse(review *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		BookID:    review.BookID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}

// NewReviewList maps a slice of reviews.
func NewReviewList(reviews []*domain.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, NewReviewResponse(review))
	}
	return out
}
