package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/resolvepro/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintResponseSaved EventType = "complaint_response_saved"
	EventUserRegistered         EventType = "user_registered"
	EventUserReviewed           EventType = "user_reviewed"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// ActorFrom builds an Actor from a caller identity.
func ActorFrom(identity domain.Identity) Actor {
	return Actor{UserID: identity.UserID, Role: identity.Role}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID int64       `json:"complaint_id,omitempty"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, complaintID int64, actor Actor, payload interface{}) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		ComplaintID: complaintID,
		Actor:       actor,
		Timestamp:   time.Now().UTC(),
		Payload:     payload,
	}
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	CategoryID int64                    `json:"category_id"`
	Category   string                   `json:"category"`
	Priority   domain.ComplaintPriority `json:"priority"`
	Status     domain.ComplaintStatus   `json:"status"`
	AssigneeID *int64                   `json:"assignee_id,omitempty"`
}

// ComplaintAssignedPayload payload. Automatic is false for admin assignments.
type ComplaintAssignedPayload struct {
	AssigneeID         int64                  `json:"assignee_id"`
	PreviousAssigneeID *int64                 `json:"previous_assignee_id,omitempty"`
	Automatic          bool                   `json:"automatic"`
	MatchKind          string                 `json:"match_kind,omitempty"`
	OldStatus          domain.ComplaintStatus `json:"old_status"`
	NewStatus          domain.ComplaintStatus `json:"new_status"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
}

// ComplaintResponseSavedPayload payload.
type ComplaintResponseSavedPayload struct {
	ResponseID      int64  `json:"response_id"`
	ResponsePreview string `json:"response_preview"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID int64             `json:"user_id"`
	Email  string            `json:"email"`
	Role   domain.Role       `json:"role"`
	Status domain.UserStatus `json:"status"`
}

// UserReviewedPayload payload.
type UserReviewedPayload struct {
	UserID int64             `json:"user_id"`
	Status domain.UserStatus `json:"status"`
}
