package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/library-catalog/internal/auth"
	"github.com/spec-kit/library-catalog/internal/domain"
	"github.com/spec-kit/library-catalog/internal/events"
	"github.com/spec-kit/library-catalog/internal/repository"
	apperrors "github.com/spec-kit/library-catalog/pkg/util"
)

// BookService orchestrates catalog operations behind the ability table.
type BookService struct {
	books      repository.BookRepository
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
}

// NewBookService builds the service.
func NewBookService(books repository.BookRepository, categories repository.CategoryRepository, dispatcher events.Dispatcher) *BookService {
	return &BookService{books: books, categories: categories, dispatcher: dispatcher}
}

// BookInput carries mutable book fields.
type BookInput struct {
	Title           string
	Author          string
	ISBN            string
	Publisher       string
	PublishedYear   int
	TotalCopies     int
	AvailableCopies int
	CategoryID      string
}

// List returns the whole catalog; readable by anyone.
func (s *BookService) List(ctx context.Context) ([]*domain.Book, error) {
	return s.books.List(ctx)
}

// Get returns a single book; readable by anyone.
func (s *BookService) Get(ctx context.Context, id string) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("book", nil)
		}
		return nil, err
	}
	return book, nil
}

// Create adds a catalog entry. Librarian or admin only.
func (s *BookService) Create(ctx context.Context, actor *domain.User, input BookInput) (*domain.Book, error) {
	if err := s.authorize(ctx, actor, auth.ActionCreate); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	book := &domain.Book{
		Title:           strings.TrimSpace(input.Title),
		Author:          input.Author,
		ISBN:            input.ISBN,
		Publisher:       input.Publisher,
		PublishedYear:   input.PublishedYear,
		TotalCopies:     input.TotalCopies,
		AvailableCopies: input.AvailableCopies,
		CategoryID:      input.CategoryID,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventBookCreated, actor.ID, book.ID)
	return book, nil
}

// Update modifies a catalog entry. Librarian or admin only.
func (s *BookService) Update(ctx context.Context, actor *domain.User, id string, input BookInput) (*domain.Book, error) {
	if err := s.authorize(ctx, actor, auth.ActionUpdate); err != nil {
		return nil, err
	}

	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	book.Title = strings.TrimSpace(input.Title)
	book.Author = input.Author
	book.ISBN = input.ISBN
	book.Publisher = input.Publisher
	book.PublishedYear = input.PublishedYear
	book.TotalCopies = input.TotalCopies
	book.AvailableCopies = input.AvailableCopies
	book.CategoryID = input.CategoryID
	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventBookUpdated, actor.ID, book.ID)
	return book, nil
}

// Delete removes a catalog entry. Librarian or admin only.
func (s *BookService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if err := s.authorize(ctx, actor, auth.ActionDelete); err != nil {
		return err
	}

	if err := s.books.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("book", nil)
		}
		return err
	}

	s.publish(ctx, events.EventBookDeleted, actor.ID, id)
	return nil
}

func (s *BookService) validate(ctx context.Context, input BookInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return apperrors.NewUnprocessable("book validation failed", map[string]any{
			"title": "can't be blank",
		})
	}
	if input.CategoryID != "" {
		if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnprocessable("book validation failed", map[string]any{
					"category_id": "must reference an existing category",
				})
			}
			return err
		}
	}
	return nil
}

func (s *BookService) authorize(ctx context.Context, actor *domain.User, action auth.Action) error {
	if auth.Can(actor, action, auth.ResourceBooks, "") {
		return nil
	}
	s.publishDenied(ctx, actor, action)
	return apperrors.NewForbidden("not authorized")
}

func (s *BookService) publish(ctx context.Context, eventType events.EventType, actorID, bookID string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Subject:   bookID,
		Timestamp: time.Now(),
	})
}

func (s *BookService) publishDenied(ctx context.Context, actor *domain.User, action auth.Action) {
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
			Resource: string(auth.ResourceBooks),
		},
	})
}
