package models

import (
	"time"

	"afisha/internal/errors"
)

// EventState is the lifecycle state of an event.
type EventState string

const (
	EventStatePending   EventState = "PENDING"
	EventStatePublished EventState = "PUBLISHED"
	EventStateCanceled  EventState = "CANCELED"
)

// ParseEventState validates a textual state value from a query parameter.
func ParseEventState(value string) (EventState, error) {
	switch EventState(value) {
	case EventStatePending, EventStatePublished, EventStateCanceled:
		return EventState(value), nil
	}
	return "", errors.Validation("unknown event state: %s", value)
}

// RequestStatus is the state of a participation request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
)

// StateAction is an explicit transition request carried in update payloads.
type StateAction string

const (
	ActionPublishEvent StateAction = "PUBLISH_EVENT"
	ActionRejectEvent  StateAction = "REJECT_EVENT"
	ActionCancelReview StateAction = "CANCEL_REVIEW"
	ActionSendToReview StateAction = "SEND_TO_REVIEW"
)

// User represents a platform user.
type User struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

// Category represents an event category.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Location is owned exclusively by its event and is removed with it.
type Location struct {
	ID  int64   `json:"-" db:"id"`
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// Event represents a user-created activity others can request to join.
type Event struct {
	ID                int64      `db:"id"`
	Title             string     `db:"title"`
	Annotation        string     `db:"annotation"`
	Description       string     `db:"description"`
	EventDate         time.Time  `db:"event_date"`
	Location          Location   `db:"-"`
	Paid              bool       `db:"paid"`
	ParticipantLimit  int64      `db:"participant_limit"`
	RequestModeration bool       `db:"request_moderation"`
	State             EventState `db:"state"`
	CreatedOn         time.Time  `db:"created_on"`
	PublishedOn       *time.Time `db:"published_on"`
	Initiator         User       `db:"-"`
	Category          Category   `db:"-"`
	ConfirmedRequests int64      `db:"confirmed_requests"`
}

// HasCapacity reports whether one more request can be confirmed.
// A zero participant limit means the event is unlimited.
func (e *Event) HasCapacity() bool {
	return e.ParticipantLimit == 0 || e.ConfirmedRequests < e.ParticipantLimit
}

// CanAcceptRequestFrom applies the participation admission rules for a new
// request. The duplicate check is left to the store, which sees the index.
func (e *Event) CanAcceptRequestFrom(userID int64) error {
	if e.Initiator.ID == userID {
		return errors.Conflict("initiator cannot request participation in own event %d", e.ID)
	}
	if e.State != EventStatePublished {
		return errors.Conflict("cannot participate in unpublished event %d", e.ID)
	}
	if !e.HasCapacity() {
		return errors.Conflict("participant limit reached for event %d", e.ID)
	}
	return nil
}

// InitialRequestStatus determines the status a new participation request is
// created with: unlimited events auto-admit, moderated events queue the
// request, unmoderated limited events auto-admit up to the limit.
func (e *Event) InitialRequestStatus() RequestStatus {
	if e.ParticipantLimit == 0 {
		return RequestStatusConfirmed
	}
	if e.RequestModeration {
		return RequestStatusPending
	}
	return RequestStatusConfirmed
}

// ParticipationRequest represents a user's ask to join an event.
type ParticipationRequest struct {
	ID          int64         `db:"id"`
	EventID     int64         `db:"event_id"`
	RequesterID int64         `db:"requester_id"`
	Status      RequestStatus `db:"status"`
	Created     time.Time     `db:"created"`
}

// Compilation is a curated, optionally pinned set of events.
type Compilation struct {
	ID       int64
	Title    string
	Pinned   bool
	EventIDs []int64
}

// Subscription links a subscriber to an event initiator they follow.
type Subscription struct {
	ID           int64     `db:"id"`
	SubscriberID int64     `db:"subscriber_id"`
	OwnerID      int64     `db:"owner_id"`
	Created      time.Time `db:"created"`
}
