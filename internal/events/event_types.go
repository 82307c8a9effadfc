package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventUserLoggedOut  EventType = "user_logged_out"
	EventAccessDenied   EventType = "access_denied"
	EventBookCreated    EventType = "book_created"
	EventBookUpdated    EventType = "book_updated"
	EventBookDeleted    EventType = "book_deleted"
	EventReviewCreated  EventType = "review_created"
	EventReviewUpdated  EventType = "review_updated"
	EventReviewDeleted  EventType = "review_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id,omitempty"`
	Subject   string      `json:"subject,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// AccessDeniedPayload records a rejected authorization check.
type AccessDeniedPayload struct {
	Action   string `json:"action"`
	Resource string `json:"resource"`
	OwnerID  string `json:"owner_id,omitempty"`
}
