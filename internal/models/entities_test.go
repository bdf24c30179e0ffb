package models

import (
	"testing"

	"afisha/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestHasCapacity(t *testing.T) {
	tests := []struct {
		name      string
		limit     int64
		confirmed int64
		want      bool
	}{
		{"unlimited", 0, 1000, true},
		{"below limit", 10, 9, true},
		{"at limit", 10, 10, false},
		{"empty event", 10, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Event{ParticipantLimit: tt.limit, ConfirmedRequests: tt.confirmed}
			assert.Equal(t, tt.want, e.HasCapacity())
		})
	}
}

func TestCanAcceptRequestFrom(t *testing.T) {
	base := Event{
		ID:               1,
		State:            EventStatePublished,
		ParticipantLimit: 2,
		Initiator:        User{ID: 10},
	}

	t.Run("accepts a stranger", func(t *testing.T) {
		e := base
		assert.NoError(t, e.CanAcceptRequestFrom(20))
	})

	t.Run("rejects the initiator", func(t *testing.T) {
		e := base
		err := e.CanAcceptRequestFrom(10)
		assert.True(t, errors.Is(err, errors.KindConflict))
	})

	t.Run("rejects unpublished event", func(t *testing.T) {
		e := base
		e.State = EventStatePending
		err := e.CanAcceptRequestFrom(20)
		assert.True(t, errors.Is(err, errors.KindConflict))
	})

	t.Run("rejects full event", func(t *testing.T) {
		e := base
		e.ConfirmedRequests = 2
		err := e.CanAcceptRequestFrom(20)
		assert.True(t, errors.Is(err, errors.KindConflict))
	})
}

func TestInitialRequestStatus(t *testing.T) {
	t.Run("unlimited events auto-admit even with moderation on", func(t *testing.T) {
		e := Event{ParticipantLimit: 0, RequestModeration: true}
		assert.Equal(t, RequestStatusConfirmed, e.InitialRequestStatus())
	})

	t.Run("moderated limited events queue the request", func(t *testing.T) {
		e := Event{ParticipantLimit: 5, RequestModeration: true}
		assert.Equal(t, RequestStatusPending, e.InitialRequestStatus())
	})

	t.Run("unmoderated limited events auto-admit", func(t *testing.T) {
		e := Event{ParticipantLimit: 5, RequestModeration: false}
		assert.Equal(t, RequestStatusConfirmed, e.InitialRequestStatus())
	})
}
