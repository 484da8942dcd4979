package calcom

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(Config{
		BaseURL:  server.URL,
		APIKey:   "cal_test_key",
		Username: "funtravel",
		TimeZone: "Asia/Makassar",
	})
	return client, server
}

func TestGetEventTypeBySlug(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/event-types", r.URL.Path)
		assert.Equal(t, "cal_test_key", r.URL.Query().Get("apiKey"))
		w.Write([]byte(`{"event_types":[
			{"id":71,"title":"Bali Sunrise Trek","slug":"bali-sunrise-trek","length":240},
			{"id":72,"title":"Ubud Rice Terraces","slug":"ubud-rice-terraces","length":180}
		]}`))
	})
	defer server.Close()

	eventType, err := client.GetEventTypeBySlug(context.Background(), "ubud-rice-terraces")
	require.NoError(t, err)
	require.NotNil(t, eventType)
	assert.Equal(t, 72, eventType.ID)
	assert.Equal(t, 180, eventType.Length)

	// Unmapped slug is a nil result, not an error
	eventType, err = client.GetEventTypeBySlug(context.Background(), "ghost-tour")
	require.NoError(t, err)
	assert.Nil(t, eventType)
}

func TestGetAvailability(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/availability", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "funtravel", query.Get("username"))
		assert.Equal(t, "2026-03-01", query.Get("dateFrom"))
		assert.Equal(t, "2027-03-01", query.Get("dateTo"))
		assert.Equal(t, "71", query.Get("eventTypeId"))
		w.Write([]byte(`{"busy":[{"start":"2026-03-10T09:00:00Z","end":"2026-03-10T12:00:00Z"}],"timeZone":"Asia/Makassar"}`))
	})
	defer server.Close()

	from := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	availability, err := client.GetAvailability(context.Background(), 71, from, from.AddDate(1, 0, 0))
	require.NoError(t, err)
	require.Len(t, availability.Busy, 1)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), availability.Busy[0].Start)
}

func TestCreateBooking(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bookings", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(71), body["eventTypeId"])
		assert.Equal(t, "Maya Putri", body["name"])
		assert.Equal(t, "2026-04-20T09:00:00Z", body["start"])
		assert.Equal(t, "2026-04-20T13:00:00Z", body["end"])
		assert.Equal(t, "en", body["language"])
		assert.Equal(t, "Asia/Makassar", body["timeZone"])
		assert.Equal(t, map[string]any{}, body["metadata"])
		assert.Equal(t, []any{}, body["customInputs"])

		w.Write([]byte(`{"id":9001,"eventTypeId":71,"name":"Maya Putri","email":"maya@example.com"}`))
	})
	defer server.Close()

	start := time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC)
	booking, err := client.CreateBooking(context.Background(), CreateBookingRequest{
		EventTypeID: 71,
		Name:        "Maya Putri",
		Email:       "maya@example.com",
		Start:       start,
		End:         start.Add(4 * time.Hour),
		Description: "Booking for tour Bali Sunrise Trek",
		Location:    "Ubud Indonesia",
	})
	require.NoError(t, err)
	assert.Equal(t, 9001, booking.ID)
}

func TestDoReportsUpstreamStatus(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message":"upstream broke"}`))
	})
	defer server.Close()

	_, err := client.GetEventTypes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
