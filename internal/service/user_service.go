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

// UserService exposes read access to account records.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// Get returns an account record. Members may only read their own;
// librarians and admins may read anyone's.
func (s *UserService) Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if !auth.Can(actor, auth.ActionRead, auth.ResourceUsers, id) {
		s.publishDenied(ctx, actor, id)
		return nil, apperrors.NewForbidden("not authorized")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) publishDenied(ctx context.Context, actor *domain.User, ownerID string) {
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
			Action:   string(auth.ActionRead),
			Resource: string(auth.ResourceUsers),
			OwnerID:  ownerID,
		},
	})
}
