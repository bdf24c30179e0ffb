package models

import "time"

// NewEventRequest - тело запроса на создание события
type NewEventRequest struct {
	Title             string   `json:"title" binding:"required,min=3,max=120"`
	Annotation        string   `json:"annotation" binding:"required,min=20,max=2000"`
	Description       string   `json:"description" binding:"required,min=20,max=7000"`
	Category          int64    `json:"category" binding:"required"`
	EventDate         DateTime `json:"eventDate" binding:"required"`
	Location          Location `json:"location" binding:"required"`
	Paid              *bool    `json:"paid"`
	ParticipantLimit  *int64   `json:"participantLimit" binding:"omitempty,gte=0"`
	RequestModeration *bool    `json:"requestModeration"`
}

// UpdateEventAdminRequest - частичное обновление события администратором
type UpdateEventAdminRequest struct {
	Title             *string      `json:"title" binding:"omitempty,min=3,max=120"`
	Annotation        *string      `json:"annotation" binding:"omitempty,min=20,max=2000"`
	Description       *string      `json:"description" binding:"omitempty,min=20,max=7000"`
	Category          *int64       `json:"category"`
	EventDate         *DateTime    `json:"eventDate"`
	Location          *Location    `json:"location"`
	Paid              *bool        `json:"paid"`
	ParticipantLimit  *int64       `json:"participantLimit" binding:"omitempty,gte=0"`
	RequestModeration *bool        `json:"requestModeration"`
	StateAction       *StateAction `json:"stateAction"`
}

// UpdateEventUserRequest - частичное обновление события инициатором
type UpdateEventUserRequest struct {
	Title             *string      `json:"title" binding:"omitempty,min=3,max=120"`
	Annotation        *string      `json:"annotation" binding:"omitempty,min=20,max=2000"`
	Description       *string      `json:"description" binding:"omitempty,min=20,max=7000"`
	Category          *int64       `json:"category"`
	EventDate         *DateTime    `json:"eventDate"`
	Location          *Location    `json:"location"`
	Paid              *bool        `json:"paid"`
	ParticipantLimit  *int64       `json:"participantLimit" binding:"omitempty,gte=0"`
	RequestModeration *bool        `json:"requestModeration"`
	StateAction       *StateAction `json:"stateAction"`
}

// UserShort - краткое представление пользователя в ответах
type UserShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EventFull - полное представление события
type EventFull struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Annotation        string     `json:"annotation"`
	Description       string     `json:"description"`
	EventDate         DateTime   `json:"eventDate"`
	Location          Location   `json:"location"`
	Paid              bool       `json:"paid"`
	ParticipantLimit  int64      `json:"participantLimit"`
	RequestModeration bool       `json:"requestModeration"`
	State             EventState `json:"state"`
	CreatedOn         DateTime   `json:"createdOn"`
	PublishedOn       *DateTime  `json:"publishedOn,omitempty"`
	Initiator         UserShort  `json:"initiator"`
	Category          Category   `json:"category"`
	ConfirmedRequests int64      `json:"confirmedRequests"`
	Views             int64      `json:"views"`
}

// EventShort - краткое представление события в списках
type EventShort struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Annotation        string    `json:"annotation"`
	Category          Category  `json:"category"`
	EventDate         DateTime  `json:"eventDate"`
	Initiator         UserShort `json:"initiator"`
	Paid              bool      `json:"paid"`
	ConfirmedRequests int64     `json:"confirmedRequests"`
	Views             int64     `json:"views"`
}

// ToEventFull собирает полное представление события
func ToEventFull(e *Event, views int64, confirmed int64) EventFull {
	full := EventFull{
		ID:                e.ID,
		Title:             e.Title,
		Annotation:        e.Annotation,
		Description:       e.Description,
		EventDate:         NewDateTime(e.EventDate),
		Location:          e.Location,
		Paid:              e.Paid,
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
		State:             e.State,
		CreatedOn:         NewDateTime(e.CreatedOn),
		Initiator:         UserShort{ID: e.Initiator.ID, Name: e.Initiator.Name},
		Category:          e.Category,
		ConfirmedRequests: confirmed,
		Views:             views,
	}
	if e.PublishedOn != nil {
		published := NewDateTime(*e.PublishedOn)
		full.PublishedOn = &published
	}
	return full
}

// ToEventShort собирает краткое представление события
func ToEventShort(e *Event, views int64, confirmed int64) EventShort {
	return EventShort{
		ID:                e.ID,
		Title:             e.Title,
		Annotation:        e.Annotation,
		Category:          e.Category,
		EventDate:         NewDateTime(e.EventDate),
		Initiator:         UserShort{ID: e.Initiator.ID, Name: e.Initiator.Name},
		Paid:              e.Paid,
		ConfirmedRequests: confirmed,
		Views:             views,
	}
}

// ParticipationRequestDto - представление запроса на участие
type ParticipationRequestDto struct {
	ID        int64         `json:"id"`
	Event     int64         `json:"event"`
	Requester int64         `json:"requester"`
	Status    RequestStatus `json:"status"`
	Created   DateTime      `json:"created"`
}

// ToParticipationRequestDto мапит запрос на участие в представление
func ToParticipationRequestDto(r *ParticipationRequest) ParticipationRequestDto {
	return ParticipationRequestDto{
		ID:        r.ID,
		Event:     r.EventID,
		Requester: r.RequesterID,
		Status:    r.Status,
		Created:   NewDateTime(r.Created),
	}
}

// ToRequestDtos мапит срез запросов на участие в представления
func ToRequestDtos(requests []ParticipationRequest) []ParticipationRequestDto {
	dtos := make([]ParticipationRequestDto, 0, len(requests))
	for i := range requests {
		dtos = append(dtos, ToParticipationRequestDto(&requests[i]))
	}
	return dtos
}

// RequestStatusUpdate - тело batch-запроса на подтверждение/отклонение
type RequestStatusUpdate struct {
	RequestIDs []int64       `json:"requestIds" binding:"required,min=1"`
	Status     RequestStatus `json:"status" binding:"required"`
}

// RequestStatusUpdateResult - результат batch-обновления статусов
type RequestStatusUpdateResult struct {
	ConfirmedRequests []ParticipationRequestDto `json:"confirmedRequests"`
	RejectedRequests  []ParticipationRequestDto `json:"rejectedRequests"`
}

// NewUserRequest - запрос на создание пользователя
type NewUserRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=250"`
	Email string `json:"email" binding:"required,email"`
}

// NewCategoryRequest - запрос на создание/обновление категории
type NewCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// NewCompilationRequest - запрос на создание подборки
type NewCompilationRequest struct {
	Title  string  `json:"title" binding:"required,min=1,max=50"`
	Pinned bool    `json:"pinned"`
	Events []int64 `json:"events"`
}

// UpdateCompilationRequest - частичное обновление подборки
type UpdateCompilationRequest struct {
	Title  *string  `json:"title" binding:"omitempty,min=1,max=50"`
	Pinned *bool    `json:"pinned"`
	Events *[]int64 `json:"events"`
}

// CompilationDto - представление подборки событий
type CompilationDto struct {
	ID     int64        `json:"id"`
	Title  string       `json:"title"`
	Pinned bool         `json:"pinned"`
	Events []EventShort `json:"events"`
}

// NewSubscriptionRequest - запрос на подписку/отписку
type NewSubscriptionRequest struct {
	OwnerID int64 `json:"ownerId" binding:"required"`
}

// SubscriptionDto - представление подписки
type SubscriptionDto struct {
	ID           int64    `json:"id"`
	SubscriberID int64    `json:"subscriberId"`
	OwnerID      int64    `json:"ownerId"`
	Created      DateTime `json:"created"`
}

// EventSort задает порядок выдачи публичного поиска
type EventSort string

const (
	SortByEventDate EventSort = "EVENT_DATE"
	SortByViews     EventSort = "VIEWS"
)

// PublicEventFilter - фильтры публичного поиска событий
type PublicEventFilter struct {
	Text          string
	Categories    []int64
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          EventSort
	From          int
	Size          int
}

// AdminEventFilter - фильтры поиска событий администратором
type AdminEventFilter struct {
	Users      []int64
	States     []EventState
	Categories []int64
	RangeStart *time.Time
	RangeEnd   *time.Time
	From       int
	Size       int
}

// HitContext carries the request attributes the statistics service records.
type HitContext struct {
	URI string
	IP  string
}
