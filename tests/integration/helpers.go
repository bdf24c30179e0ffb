package integration

import (
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"afisha/internal/models"
)

const (
	APIBaseURL = "http://localhost:8080"
)

// RequireLiveAPI skips the test unless a running API is expected.
// Set RUN_INTEGRATION_TESTS=1 with the stack from docker-compose up.
func RequireLiveAPI(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test; set RUN_INTEGRATION_TESTS=1 to run")
	}
}

// UniqueEmail generates a collision-free email for repeated test runs
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@afisha.test", prefix, time.Now().UnixNano())
}

// FutureEventDate returns an event date that satisfies the creation lead time
func FutureEventDate(hours int) models.DateTime {
	return models.NewDateTime(time.Now().Add(time.Duration(hours) * time.Hour).Truncate(time.Second))
}

// ValidEventRequest builds a creation payload passing all field constraints
func ValidEventRequest(title string, categoryID int64) models.NewEventRequest {
	return models.NewEventRequest{
		Title:       title,
		Annotation:  "Аннотация события для интеграционного прогона тестов",
		Description: "Полное описание события для интеграционного прогона тестов: программа и условия участия",
		Category:    categoryID,
		EventDate:   FutureEventDate(72),
		Location:    models.Location{Lat: 43.25, Lon: 76.92},
	}
}

// AssertEventInList checks that an event appears in a search result
func AssertEventInList(t *testing.T, events []models.EventShort, eventID int64) {
	for _, event := range events {
		if event.ID == eventID {
			return
		}
	}
	t.Fatalf("Event with ID %d not found in list, %+v", eventID, events)
}

// AssertEventNotInList checks that an event is absent from a search result
func AssertEventNotInList(t *testing.T, events []models.EventShort, eventID int64) {
	for _, event := range events {
		if event.ID == eventID {
			t.Fatalf("Event with ID %d unexpectedly present in list", eventID)
		}
	}
}

// AssertRequestStatus verifies one request's status in a list
func AssertRequestStatus(t *testing.T, requests []models.ParticipationRequestDto, requestID int64, expected models.RequestStatus) {
	for _, request := range requests {
		if request.ID == requestID {
			if request.Status != expected {
				t.Fatalf("Request %d has status %q, expected %q", requestID, request.Status, expected)
			}
			return
		}
	}
	t.Fatalf("Request with ID %d not found in list", requestID)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// LogTestStep logs a test step for better debugging
func LogTestStep(t *testing.T, step string, args ...interface{}) {
	t.Logf("🔹 "+step, args...)
}

// LogTestResult logs a test result
func LogTestResult(t *testing.T, result string, args ...interface{}) {
	t.Logf("✅ "+result, args...)
}
