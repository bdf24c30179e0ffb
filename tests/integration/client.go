package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"afisha/internal/models"
)

// TestClient provides methods for testing the API
type TestClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewTestClient creates a new test client
func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// makeRequest makes an HTTP request and returns the response
func (c *TestClient) makeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

func (c *TestClient) decode(t *testing.T, resp *http.Response, expectedStatus int, out interface{}) {
	defer resp.Body.Close()

	if resp.StatusCode != expectedStatus {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status %d, got %d. Body: %s", expectedStatus, resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
}

// CreateUser registers a new user through the admin API
func (c *TestClient) CreateUser(t *testing.T, name, email string) *models.User {
	req := models.NewUserRequest{Name: name, Email: email}
	resp := c.makeRequest(t, "POST", "/admin/users", req)

	var user models.User
	c.decode(t, resp, http.StatusCreated, &user)
	return &user
}

// CreateCategory registers a new category through the admin API
func (c *TestClient) CreateCategory(t *testing.T, name string) *models.Category {
	req := models.NewCategoryRequest{Name: name}
	resp := c.makeRequest(t, "POST", "/admin/categories", req)

	var category models.Category
	c.decode(t, resp, http.StatusCreated, &category)
	return &category
}

// CreateEvent creates a new event for the user
func (c *TestClient) CreateEvent(t *testing.T, userID int64, req models.NewEventRequest) *models.EventFull {
	resp := c.makeRequest(t, "POST", fmt.Sprintf("/users/%d/events", userID), req)

	var event models.EventFull
	c.decode(t, resp, http.StatusCreated, &event)
	return &event
}

// AdminModerate applies an admin state action to the event
func (c *TestClient) AdminModerate(t *testing.T, eventID int64, action models.StateAction) *models.EventFull {
	req := models.UpdateEventAdminRequest{StateAction: &action}
	resp := c.makeRequest(t, "PATCH", fmt.Sprintf("/admin/events/%d", eventID), req)

	var event models.EventFull
	c.decode(t, resp, http.StatusOK, &event)
	return &event
}

// GetEventPublic fetches a published event through the public API
func (c *TestClient) GetEventPublic(t *testing.T, eventID int64) *models.EventFull {
	resp := c.makeRequest(t, "GET", fmt.Sprintf("/events/%d", eventID), nil)

	var event models.EventFull
	c.decode(t, resp, http.StatusOK, &event)
	return &event
}

// SearchEventsPublic runs the public event search with a raw query string
func (c *TestClient) SearchEventsPublic(t *testing.T, query string) []models.EventShort {
	resp := c.makeRequest(t, "GET", "/events"+query, nil)

	var events []models.EventShort
	c.decode(t, resp, http.StatusOK, &events)
	return events
}

// CreateRequest files a participation request
func (c *TestClient) CreateRequest(t *testing.T, userID, eventID int64) *models.ParticipationRequestDto {
	path := fmt.Sprintf("/users/%d/requests?eventId=%d", userID, eventID)
	resp := c.makeRequest(t, "POST", path, nil)

	var request models.ParticipationRequestDto
	c.decode(t, resp, http.StatusCreated, &request)
	return &request
}

// GetUserRequests lists the user's participation requests
func (c *TestClient) GetUserRequests(t *testing.T, userID int64) []models.ParticipationRequestDto {
	resp := c.makeRequest(t, "GET", fmt.Sprintf("/users/%d/requests", userID), nil)

	var requests []models.ParticipationRequestDto
	c.decode(t, resp, http.StatusOK, &requests)
	return requests
}

// CancelRequest cancels the user's own participation request
func (c *TestClient) CancelRequest(t *testing.T, userID, requestID int64) *models.ParticipationRequestDto {
	path := fmt.Sprintf("/users/%d/requests/%d/cancel", userID, requestID)
	resp := c.makeRequest(t, "PATCH", path, nil)

	var request models.ParticipationRequestDto
	c.decode(t, resp, http.StatusOK, &request)
	return &request
}

// UpdateRequestsStatus confirms or rejects pending requests as the event owner
func (c *TestClient) UpdateRequestsStatus(t *testing.T, ownerID, eventID int64, requestIDs []int64, status models.RequestStatus) *models.RequestStatusUpdateResult {
	req := models.RequestStatusUpdate{RequestIDs: requestIDs, Status: status}
	path := fmt.Sprintf("/users/%d/events/%d/requests", ownerID, eventID)
	resp := c.makeRequest(t, "PATCH", path, req)

	var result models.RequestStatusUpdateResult
	c.decode(t, resp, http.StatusOK, &result)
	return &result
}

// Subscribe subscribes the user to an event initiator
func (c *TestClient) Subscribe(t *testing.T, userID, ownerID int64) *models.SubscriptionDto {
	req := models.NewSubscriptionRequest{OwnerID: ownerID}
	resp := c.makeRequest(t, "POST", fmt.Sprintf("/users/%d/subscriptions", userID), req)

	var subscription models.SubscriptionDto
	c.decode(t, resp, http.StatusCreated, &subscription)
	return &subscription
}

// SubscriptionFeed fetches published events of followed initiators
func (c *TestClient) SubscriptionFeed(t *testing.T, userID int64) []models.EventShort {
	resp := c.makeRequest(t, "GET", fmt.Sprintf("/users/%d/subscriptions/feed", userID), nil)

	var events []models.EventShort
	c.decode(t, resp, http.StatusOK, &events)
	return events
}

// HealthCheck checks if the API is healthy
func (c *TestClient) HealthCheck(t *testing.T) {
	resp := c.makeRequest(t, "GET", "/health", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Health check failed with status %d", resp.StatusCode)
	}
}
