package service

import (
	"afisha/internal/errors"
	"afisha/internal/models"
)

// Role is the actor requesting a state transition.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleOwner Role = "OWNER"
)

type transitionKey struct {
	state  models.EventState
	role   Role
	action models.StateAction
}

// transitions is the explicit state machine: every legal
// (state, role, action) combination and nothing else.
var transitions = map[transitionKey]models.EventState{
	{models.EventStatePending, RoleAdmin, models.ActionPublishEvent}: models.EventStatePublished,
	{models.EventStatePending, RoleAdmin, models.ActionRejectEvent}:  models.EventStateCanceled,
	{models.EventStateCanceled, RoleAdmin, models.ActionRejectEvent}: models.EventStateCanceled,

	{models.EventStatePending, RoleOwner, models.ActionCancelReview}:  models.EventStateCanceled,
	{models.EventStateCanceled, RoleOwner, models.ActionCancelReview}: models.EventStateCanceled,
	{models.EventStatePending, RoleOwner, models.ActionSendToReview}:  models.EventStatePending,
	{models.EventStateCanceled, RoleOwner, models.ActionSendToReview}: models.EventStatePending,
}

// roleActions lists the actions each role may name at all. An action outside
// the role's vocabulary is an unknown-action error, not an illegal transition.
var roleActions = map[Role][]models.StateAction{
	RoleAdmin: {models.ActionPublishEvent, models.ActionRejectEvent},
	RoleOwner: {models.ActionCancelReview, models.ActionSendToReview},
}

// resolveTransition returns the next state for the requested action, or the
// kind-typed error the combination deserves: Forbidden for an action an admin
// may not name, Validation for one an owner may not name, Conflict for a
// known action applied in the wrong state.
func resolveTransition(state models.EventState, role Role, action models.StateAction) (models.EventState, error) {
	if next, ok := transitions[transitionKey{state, role, action}]; ok {
		return next, nil
	}

	for _, known := range roleActions[role] {
		if action == known {
			return "", errors.Conflict("cannot apply action %s to event in state %s", action, state)
		}
	}

	if role == RoleAdmin {
		return "", errors.Forbidden("unknown admin state action: %s", action)
	}
	return "", errors.Validation("unknown state action: %s", action)
}
