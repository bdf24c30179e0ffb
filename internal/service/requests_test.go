package service

import (
	"context"
	"testing"
	"time"

	"afisha/internal/errors"
	"afisha/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestServiceFixture struct {
	requests *fakeRequestStore
	events   *fakeEventStore
	users    *fakeUserStore
	nats     *fakePublisher
	svc      *RequestService
}

func newRequestServiceFixture() *requestServiceFixture {
	f := &requestServiceFixture{
		requests: newFakeRequestStore(),
		events:   newFakeEventStore(),
		users:    newFakeUserStore(),
		nats:     &fakePublisher{},
	}
	f.svc = NewRequestService(f.requests, f.events, f.users, f.nats)
	return f
}

func TestRequestCreate(t *testing.T) {
	f := newRequestServiceFixture()
	user := f.users.add(models.User{Name: "ivan"})
	event := f.events.add(models.Event{State: models.EventStatePublished})

	request, err := f.svc.Create(context.Background(), user.ID, event.ID)
	require.NoError(t, err)

	assert.Equal(t, event.ID, request.Event)
	assert.Equal(t, user.ID, request.Requester)
	assert.Equal(t, []string{models.SubjectRequestStatusChanged}, f.nats.subjects)
}

func TestRequestCreateUnknownUser(t *testing.T) {
	f := newRequestServiceFixture()
	event := f.events.add(models.Event{State: models.EventStatePublished})

	_, err := f.svc.Create(context.Background(), 404, event.ID)
	assert.True(t, errors.Is(err, errors.KindNotFound))
}

func TestRequestCancel(t *testing.T) {
	f := newRequestServiceFixture()
	user := f.users.add(models.User{Name: "ivan"})
	request := f.requests.add(models.ParticipationRequest{
		EventID:     1,
		RequesterID: user.ID,
		Status:      models.RequestStatusPending,
		Created:     time.Now(),
	})

	canceled, err := f.svc.Cancel(context.Background(), user.ID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCanceled, canceled.Status)
}

func TestRequestCancelForeignRequest(t *testing.T) {
	f := newRequestServiceFixture()
	request := f.requests.add(models.ParticipationRequest{
		EventID:     1,
		RequesterID: 10,
		Status:      models.RequestStatusPending,
	})

	_, err := f.svc.Cancel(context.Background(), 20, request.ID)
	assert.True(t, errors.Is(err, errors.KindNotFound))
}

func TestRequestCancelIsNotIdempotent(t *testing.T) {
	f := newRequestServiceFixture()
	for _, status := range []models.RequestStatus{models.RequestStatusCanceled, models.RequestStatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			request := f.requests.add(models.ParticipationRequest{
				EventID:     1,
				RequesterID: 10,
				Status:      status,
			})

			_, err := f.svc.Cancel(context.Background(), 10, request.ID)
			assert.True(t, errors.Is(err, errors.KindConflict))
		})
	}
}

func TestRequestCancelConfirmedKeepsCounter(t *testing.T) {
	// Отмена подтвержденной заявки не освобождает место.
	f := newRequestServiceFixture()
	event := f.events.add(models.Event{
		State:             models.EventStatePublished,
		ParticipantLimit:  1,
		ConfirmedRequests: 1,
	})
	request := f.requests.add(models.ParticipationRequest{
		EventID:     event.ID,
		RequesterID: 10,
		Status:      models.RequestStatusConfirmed,
	})

	canceled, err := f.svc.Cancel(context.Background(), 10, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCanceled, canceled.Status)

	stored, err := f.events.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ConfirmedRequests)
}

func TestUpdateStatusRejectsBadTarget(t *testing.T) {
	f := newRequestServiceFixture()

	for _, target := range []models.RequestStatus{models.RequestStatusPending, models.RequestStatusCanceled, "APPROVED"} {
		_, err := f.svc.UpdateStatus(context.Background(), 1, 1, &models.RequestStatusUpdate{
			RequestIDs: []int64{1},
			Status:     target,
		})
		assert.True(t, errors.Is(err, errors.KindValidation), "target %s", target)
	}
}

func TestUpdateStatusDelegatesToStore(t *testing.T) {
	f := newRequestServiceFixture()
	f.requests.batchResult = &models.RequestStatusUpdateResult{
		ConfirmedRequests: []models.ParticipationRequestDto{
			{ID: 1, Event: 5, Requester: 10, Status: models.RequestStatusConfirmed},
		},
		RejectedRequests: []models.ParticipationRequestDto{
			{ID: 2, Event: 5, Requester: 11, Status: models.RequestStatusRejected},
		},
	}

	result, err := f.svc.UpdateStatus(context.Background(), 7, 5, &models.RequestStatusUpdate{
		RequestIDs: []int64{1, 2},
		Status:     models.RequestStatusConfirmed,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), f.requests.lastBatchEventID)
	assert.Equal(t, int64(7), f.requests.lastBatchOwnerID)
	assert.Equal(t, []int64{1, 2}, f.requests.lastBatchIDs)
	assert.Equal(t, models.RequestStatusConfirmed, f.requests.lastBatchTarget)

	assert.Len(t, result.ConfirmedRequests, 1)
	assert.Len(t, result.RejectedRequests, 1)
	// Уведомление на каждую затронутую заявку.
	assert.Len(t, f.nats.subjects, 2)
}

func TestUpdateStatusPropagatesStoreError(t *testing.T) {
	f := newRequestServiceFixture()
	f.requests.batchErr = errors.Conflict("request 2 is not pending")

	_, err := f.svc.UpdateStatus(context.Background(), 7, 5, &models.RequestStatusUpdate{
		RequestIDs: []int64{1, 2},
		Status:     models.RequestStatusRejected,
	})
	assert.True(t, errors.Is(err, errors.KindConflict))
}

func TestGetRequestsForEventOwnerChecksOwnership(t *testing.T) {
	f := newRequestServiceFixture()
	owner := f.users.add(models.User{Name: "maria"})
	event := f.events.add(models.Event{
		State:     models.EventStatePublished,
		Initiator: *owner,
	})
	f.requests.add(models.ParticipationRequest{EventID: event.ID, RequesterID: 100})

	requests, err := f.svc.GetRequestsForEventOwner(context.Background(), owner.ID, event.ID)
	require.NoError(t, err)
	assert.Len(t, requests, 1)

	_, err = f.svc.GetRequestsForEventOwner(context.Background(), owner.ID+1, event.ID)
	assert.True(t, errors.Is(err, errors.KindNotFound))
}

func TestGetRequestsByUser(t *testing.T) {
	f := newRequestServiceFixture()
	user := f.users.add(models.User{Name: "ivan"})
	f.requests.add(models.ParticipationRequest{EventID: 1, RequesterID: user.ID})
	f.requests.add(models.ParticipationRequest{EventID: 2, RequesterID: user.ID})
	f.requests.add(models.ParticipationRequest{EventID: 3, RequesterID: user.ID + 1})

	requests, err := f.svc.GetRequestsByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, requests, 2)
}
