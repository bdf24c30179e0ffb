package models

import "time"

// NATS subjects for lifecycle notifications. Publishing is best-effort:
// a lost message never fails the triggering operation.
const (
	SubjectEventPublished       = "event.published"
	SubjectEventCanceled        = "event.canceled"
	SubjectRequestStatusChanged = "request.status.changed"
)

// EventStateChangedMessage notifies about an event lifecycle transition.
type EventStateChangedMessage struct {
	EventID     int64      `json:"event_id"`
	InitiatorID int64      `json:"initiator_id"`
	State       EventState `json:"state"`
	Timestamp   time.Time  `json:"timestamp"`
}

// RequestStatusChangedMessage notifies about a participation request
// changing status.
type RequestStatusChangedMessage struct {
	RequestID   int64         `json:"request_id"`
	EventID     int64         `json:"event_id"`
	RequesterID int64         `json:"requester_id"`
	Status      RequestStatus `json:"status"`
	Timestamp   time.Time     `json:"timestamp"`
}
