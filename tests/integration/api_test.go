package integration

import (
	"net/http"
	"testing"

	"afisha/internal/models"
)

// TestAPI_HealthCheck tests the API health endpoint
func TestAPI_HealthCheck(t *testing.T) {
	RequireLiveAPI(t)
	client := NewTestClient(APIBaseURL)

	LogTestStep(t, "Testing API health check")
	client.HealthCheck(t)
	LogTestResult(t, "API is healthy and responding")
}

// TestAPI_EventLifecycle tests the full path from creation to public visibility
func TestAPI_EventLifecycle(t *testing.T) {
	RequireLiveAPI(t)
	client := NewTestClient(APIBaseURL)

	LogTestStep(t, "Creating initiator and category")
	initiator := client.CreateUser(t, "Инициатор", UniqueEmail("initiator"))
	category := client.CreateCategory(t, "Лекции-"+UniqueEmail("cat"))

	LogTestStep(t, "Creating event")
	event := client.CreateEvent(t, initiator.ID, ValidEventRequest("Открытая лекция", category.ID))
	if event.State != models.EventStatePending {
		t.Fatalf("New event has state %q, expected PENDING", event.State)
	}

	LogTestStep(t, "Verifying pending event is invisible publicly")
	resp := client.makeRequest(t, "GET", "/events/"+itoa(event.ID), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Pending event fetch: expected 404, got %d", resp.StatusCode)
	}

	LogTestStep(t, "Publishing event via admin moderation")
	published := client.AdminModerate(t, event.ID, models.ActionPublishEvent)
	if published.State != models.EventStatePublished {
		t.Fatalf("Moderated event has state %q, expected PUBLISHED", published.State)
	}
	if published.PublishedOn == nil {
		t.Fatal("Published event is missing publishedOn")
	}

	LogTestStep(t, "Fetching published event publicly")
	fetched := client.GetEventPublic(t, event.ID)
	if fetched.Title != "Открытая лекция" {
		t.Fatalf("Fetched event has title %q", fetched.Title)
	}

	LogTestStep(t, "Searching for the event publicly")
	found := client.SearchEventsPublic(t, "?text=лекция")
	AssertEventInList(t, found, event.ID)

	LogTestResult(t, "Event %d went through the full lifecycle", event.ID)
}

// TestAPI_RejectedEventCannotBePublishedByUser tests moderation rejection
func TestAPI_RejectedEventCannotBePublishedByUser(t *testing.T) {
	RequireLiveAPI(t)
	client := NewTestClient(APIBaseURL)

	initiator := client.CreateUser(t, "Инициатор", UniqueEmail("initiator"))
	category := client.CreateCategory(t, "Театр-"+UniqueEmail("cat"))
	event := client.CreateEvent(t, initiator.ID, ValidEventRequest("Спорный спектакль", category.ID))

	LogTestStep(t, "Rejecting event via admin moderation")
	rejected := client.AdminModerate(t, event.ID, models.ActionRejectEvent)
	if rejected.State != models.EventStateCanceled {
		t.Fatalf("Rejected event has state %q, expected CANCELED", rejected.State)
	}

	LogTestStep(t, "Verifying publish of canceled event is a conflict")
	action := models.ActionPublishEvent
	req := models.UpdateEventAdminRequest{StateAction: &action}
	resp := client.makeRequest(t, "PATCH", "/admin/events/"+itoa(event.ID), req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("Publish of canceled event: expected 409, got %d", resp.StatusCode)
	}

	LogTestResult(t, "Canceled event %d stayed canceled", event.ID)
}

// TestAPI_SubscriptionFeed tests following an initiator
func TestAPI_SubscriptionFeed(t *testing.T) {
	RequireLiveAPI(t)
	client := NewTestClient(APIBaseURL)

	initiator := client.CreateUser(t, "Организатор", UniqueEmail("owner"))
	follower := client.CreateUser(t, "Подписчик", UniqueEmail("follower"))
	category := client.CreateCategory(t, "Концерты-"+UniqueEmail("cat"))

	event := client.CreateEvent(t, initiator.ID, ValidEventRequest("Весенний концерт", category.ID))
	client.AdminModerate(t, event.ID, models.ActionPublishEvent)

	LogTestStep(t, "Subscribing to the initiator")
	subscription := client.Subscribe(t, follower.ID, initiator.ID)
	if subscription.OwnerID != initiator.ID {
		t.Fatalf("Subscription owner is %d, expected %d", subscription.OwnerID, initiator.ID)
	}

	LogTestStep(t, "Reading the subscription feed")
	feed := client.SubscriptionFeed(t, follower.ID)
	AssertEventInList(t, feed, event.ID)

	LogTestResult(t, "Follower %d sees event %d in the feed", follower.ID, event.ID)
}
