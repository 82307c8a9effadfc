package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/library-catalog/internal/auth"
	"github.com/spec-kit/library-catalog/internal/domain"
	"github.com/spec-kit/library-catalog/internal/events"
	"github.com/spec-kit/library-catalog/internal/repository"
	apperrors "github.com/spec-kit/library-catalog/pkg/util"
)

// ReviewService orchestrates review operations behind the ability table.
type ReviewService struct {
	reviews    repository.ReviewRepository
	books      repository.BookRepository
	dispatcher events.Dispatcher
}

// NewReviewService builds the service.
func NewReviewService(reviews repository.ReviewRepository, books repository.BookRepository, dispatcher events.Dispatcher) *ReviewService {
	return &ReviewService{reviews: reviews, books: books, dispatcher: dispatcher}
}

// ReviewInput carries mutable review fields.
type ReviewInput struct {
	Rating  int
	Comment string
}

// ListByBook returns a book's reviews; readable by anyone.
func (s *ReviewService) ListByBook(ctx context.Context, bookID string) ([]*domain.Review, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("book", nil)
		}
		return nil, err
	}
	return s.reviews.ListByBook(ctx, bookID)
}

// Get returns a single review; readable by anyone.
func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("review", nil)
		}
		return nil, err
	}
	return review, nil
}

// Create posts a review authored by the actor. Any authenticated user.
func (s *ReviewService) Create(ctx context.Context, actor *domain.User, bookID string, input ReviewInput) (*domain.Review, error) {
	if !auth.Can(actor, auth.ActionCreate, auth.ResourceReviews, "") {
		s.publishDenied(ctx, actor, auth.ActionCreate, "")
		return nil, apperrors.NewForbidden("not authorized")
	}

	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("book", nil)
		}
		return nil, err
	}
	if err := validateReview(input); err != nil {
		return nil, err
	}

	review := &domain.Review{
		BookID:  bookID,
		UserID:  actor.ID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventReviewCreated, actor.ID, review.ID)
	return review, nil
}

// Update edits a review. Author only, except admin.
func (s *ReviewService) Update(ctx context.Context, actor *domain.User, id string, input ReviewInput) (*domain.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.Can(actor, auth.ActionUpdate, auth.ResourceReviews, review.UserID) {
		s.publishDenied(ctx, actor, auth.ActionUpdate, review.UserID)
		return nil, apperrors.NewForbidden("not authorized")
	}
	if err := validateReview(input); err != nil {
		return nil, err
	}

	review.Rating = input.Rating
	review.Comment = input.Comment
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventReviewUpdated, actor.ID, review.ID)
	return review, nil
}

// Delete removes a review. Author only, except admin.
func (s *ReviewService) Delete(ctx context.Context, actor *domain.User, id string) error {
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !auth.Can(actor, auth.ActionDelete, auth.ResourceReviews, review.UserID) {
		s.publishDenied(ctx, actor, auth.ActionDelete, review.UserID)
		return apperrors.NewForbidden("not authorized")
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.EventReviewDeleted, actor.ID, id)
	return nil
}

func validateReview(input ReviewInput) error {
	if input.Rating < 1 || input.Rating > 5 {
		return apperrors.NewUnprocessable("review validation failed", map[string]any{
			"rating": "must be between 1 and 5",
		})
	}
	return nil
}

func (s *ReviewService) publish(ctx context.Context, eventType events.EventType, actorID, reviewID string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Subject:   reviewID,
		Timestamp: time.Now(),
	})
}

func (s *ReviewService) publishDenied(ctx context.Context, actor *domain.User, action auth.Action, ownerID string) {
	if s.dispatcher == nil {
		return
	}
	actorID := ""
	if actor != nil {
		actorID = actor.ID
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAccessDenied,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload: events.AccessDeniedPayload{
			Action:   string(action),
			Resource: string(auth.ResourceReviews),
			OwnerID:  ownerID,
		},
	})
}
