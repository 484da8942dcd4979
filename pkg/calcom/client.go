// Package calcom is a client for the Cal.com v1 REST API. Tours map to
// event types by slug; reserved time shows up as busy intervals; paid order
// items become bookings.
package calcom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// EventType is the scheduling service's representation of a reservable tour
// slot type.
type EventType struct {
	ID                   int            `json:"id"`
	Title                string         `json:"title"`
	Slug                 string         `json:"slug"`
	Length               int            `json:"length"` // minutes
	Hidden               bool           `json:"hidden,omitempty"`
	RequiresConfirmation bool           `json:"requiresConfirmation,omitempty"`
	Description          string         `json:"description,omitempty"`
	Locations            []Location     `json:"locations,omitempty"`
	Metadata             map[string]any `json:"metadata,omitempty"`
}

// Location is an event-type location entry.
type Location struct {
	Address string `json:"address"`
	Type    string `json:"type"`
}

// BusyInterval is a [start, end) time range during which an event type is
// already reserved.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Availability is the scheduling service's busy report for one event type.
type Availability struct {
	Busy     []BusyInterval `json:"busy"`
	TimeZone string         `json:"timeZone"`
}

// Booking is a confirmed reservation of an event type.
type Booking struct {
	ID          int    `json:"id"`
	EventTypeID int    `json:"eventTypeId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// CreateBookingRequest carries the fields needed to reserve a slot.
type CreateBookingRequest struct {
	EventTypeID int
	Name        string
	Email       string
	Start       time.Time
	End         time.Time
	Description string
	Location    string
}

// Client talks to the Cal.com API. The API key is passed as a query
// parameter on every call, which is how the v1 API authenticates.
type Client struct {
	baseURL  string
	apiKey   string
	username string
	timeZone string
	client   *http.Client
}

// Config holds Cal.com client configuration
type Config struct {
	BaseURL  string
	APIKey   string
	Username string
	TimeZone string
}

// NewClient creates a new Cal.com client
func NewClient(cfg Config) *Client {
	timeZone := cfg.TimeZone
	if timeZone == "" {
		timeZone = "America/Los_Angeles"
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		username: cfg.Username,
		timeZone: timeZone,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetEventTypes lists all event types of the configured account.
func (c *Client) GetEventTypes(ctx context.Context) ([]EventType, error) {
	var response struct {
		EventTypes []EventType `json:"event_types"`
	}
	if err := c.do(ctx, http.MethodGet, "/event-types", nil, nil, &response); err != nil {
		return nil, err
	}
	return response.EventTypes, nil
}

// GetEventTypeBySlug resolves a tour slug to its event type. Returns
// (nil, nil) when no event type carries the slug, which means the tour has
// not been synchronized to the scheduling service yet.
func (c *Client) GetEventTypeBySlug(ctx context.Context, slug string) (*EventType, error) {
	eventTypes, err := c.GetEventTypes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range eventTypes {
		if eventTypes[i].Slug == slug {
			return &eventTypes[i], nil
		}
	}
	return nil, nil
}

// CreateEventType creates a new event type.
func (c *Client) CreateEventType(ctx context.Context, eventType EventType) (*EventType, error) {
	var response struct {
		EventType EventType `json:"event_type"`
	}
	if err := c.do(ctx, http.MethodPost, "/event-types", nil, eventType, &response); err != nil {
		return nil, err
	}
	return &response.EventType, nil
}

// UpdateEventType patches an existing event type.
func (c *Client) UpdateEventType(ctx context.Context, id int, changes EventType) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/event-types/%d", id), nil, changes, nil)
}

// DeleteEventType removes an event type.
func (c *Client) DeleteEventType(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/event-types/%d", id), nil, nil, nil)
}

// GetAvailability fetches the busy intervals for an event type in the given
// window.
func (c *Client) GetAvailability(ctx context.Context, eventTypeID int, from, to time.Time) (*Availability, error) {
	params := url.Values{}
	params.Set("username", c.username)
	params.Set("dateFrom", from.Format("2006-01-02"))
	params.Set("dateTo", to.Format("2006-01-02"))
	params.Set("eventTypeId", fmt.Sprintf("%d", eventTypeID))

	var availability Availability
	if err := c.do(ctx, http.MethodGet, "/availability", params, nil, &availability); err != nil {
		return nil, err
	}
	return &availability, nil
}

// CreateBooking reserves a slot for an event type.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	// The v1 bookings endpoint requires language/timezone/customInputs even
	// though this client never varies them.
	body := map[string]any{
		"eventTypeId":  req.EventTypeID,
		"name":         req.Name,
		"email":        req.Email,
		"start":        req.Start.Format(time.RFC3339),
		"end":          req.End.Format(time.RFC3339),
		"description":  req.Description,
		"location":     req.Location,
		"language":     "en",
		"timeZone":     c.timeZone,
		"metadata":     map[string]any{},
		"customInputs": []any{},
	}

	var booking Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", nil, body, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", c.apiKey)
	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach scheduling service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("scheduling service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
