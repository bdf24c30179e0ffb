package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testRouter wires the validation-sensitive routes onto handlers with no
// backing services. Every case below must fail before a service is touched.
func testRouter() *gin.Engine {
	h := NewHandlers(nil)

	router := gin.New()
	router.GET("/events", h.SearchEventsPublic)
	router.GET("/events/:eventId", h.GetEventPublic)
	router.GET("/admin/events", h.SearchEventsAdmin)
	router.POST("/users/:userId/events", h.CreateEvent)
	router.PATCH("/users/:userId/events/:eventId/requests", h.UpdateRequestsStatus)
	return router
}

func perform(t *testing.T, router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestInvalidPathID(t *testing.T) {
	router := testRouter()

	w := perform(t, router, http.MethodGet, "/events/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BAD_REQUEST")

	w = perform(t, router, http.MethodGet, "/events/-5", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvalidPagination(t *testing.T) {
	router := testRouter()

	cases := []string{
		"/events?from=-1",
		"/events?size=0",
		"/events?from=abc",
		"/events?size=abc",
	}
	for _, target := range cases {
		w := perform(t, router, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestInvalidPublicFilterValues(t *testing.T) {
	router := testRouter()

	cases := []string{
		"/events?paid=maybe",
		"/events?sort=PRICE",
		"/events?categories=1,x",
		"/events?rangeStart=2026-13-40",
	}
	for _, target := range cases {
		w := perform(t, router, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestInvalidAdminStateFilter(t *testing.T) {
	router := testRouter()

	w := perform(t, router, http.MethodGet, "/admin/events?states=ARCHIVED", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown event state")
}

func TestCreateEventBodyValidation(t *testing.T) {
	router := testRouter()

	// слишком короткий заголовок
	body := `{"title":"Ab","annotation":"` + strings.Repeat("a", 30) + `",` +
		`"description":"` + strings.Repeat("b", 30) + `",` +
		`"category":1,"eventDate":"2026-12-01 12:00:00","location":{"lat":1,"lon":1}}`

	w := perform(t, router, http.MethodPost, "/users/1/events", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateRequestsStatusRequiresIDs(t *testing.T) {
	router := testRouter()

	w := perform(t, router, http.MethodPatch,
		"/users/1/events/2/requests", `{"requestIds":[],"status":"CONFIRMED"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorBodyShape(t *testing.T) {
	router := testRouter()

	w := perform(t, router, http.MethodGet, "/events/abc", "")

	body := w.Body.String()
	assert.Contains(t, body, `"status"`)
	assert.Contains(t, body, `"reason"`)
	assert.Contains(t, body, `"message"`)
	assert.Contains(t, body, `"timestamp"`)
}
