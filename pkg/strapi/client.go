// Package strapi is a read-only client for the Strapi catalog that backs the
// storefront. Tours and destinations are owned by the CMS; this package only
// decodes its response envelopes and resolves media URLs.
package strapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Tour is a reservable tour as published in the catalog.
type Tour struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Slug        string       `json:"slug"`
	Price       float64      `json:"price"`
	Duration    int          `json:"duration"` // hours
	Rating      float64      `json:"rating"`
	Images      []string     `json:"images"`
	Destination *Destination `json:"destination,omitempty"`
}

// Destination groups tours by place.
type Destination struct {
	ID          int    `json:"id"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	Image       string `json:"image,omitempty"`
	BannerImage string `json:"banner_image,omitempty"`
	Tours       []Tour `json:"tours,omitempty"`
}

// Location returns the human-readable place used for external bookings and
// event-type locations.
func (d *Destination) Location() string {
	return d.City + " " + d.Country
}

// Client talks to the Strapi REST API
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new catalog client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Strapi wraps every entity in {id, attributes} and every relation in a
// data envelope.

type payload struct {
	ID         int             `json:"id"`
	Attributes json.RawMessage `json:"attributes"`
}

type batchEnvelope struct {
	Data []payload `json:"data"`
}

type singleEnvelope struct {
	Data *payload `json:"data"`
}

type imageAttributes struct {
	URL string `json:"url"`
}

type tourAttributes struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Slug        string          `json:"slug"`
	Price       float64         `json:"price"`
	Duration    int             `json:"duration"`
	Rating      float64         `json:"rating"`
	Images      *batchEnvelope  `json:"images"`
	Destination *singleEnvelope `json:"destination"`
}

type destinationAttributes struct {
	Country     string          `json:"country"`
	City        string          `json:"city"`
	Description string          `json:"description"`
	Slug        string          `json:"slug"`
	Image       *singleEnvelope `json:"image"`
	BannerImage *singleEnvelope `json:"bannerImage"`
	Tours       *batchEnvelope  `json:"tours"`
}

// GetTours fetches all tours, optionally filtered by destination slug.
func (c *Client) GetTours(ctx context.Context, destinationSlug string, includeDestination bool) ([]Tour, error) {
	params := url.Values{}
	params.Set("populate[images]", "*")
	if includeDestination {
		params.Set("populate[destination][populate]", "*")
	}
	if destinationSlug != "" {
		params.Set("filters[destination][slug][$eq]", destinationSlug)
	}

	data, err := c.fetch(ctx, "/api/tours", params)
	if err != nil {
		return nil, err
	}

	tours := make([]Tour, 0, len(data))
	for _, item := range data {
		tour, err := c.makeTour(item)
		if err != nil {
			return nil, err
		}
		tours = append(tours, *tour)
	}
	return tours, nil
}

// GetTour fetches a single tour by slug. Returns (nil, nil) when the slug is
// not in the catalog.
func (c *Client) GetTour(ctx context.Context, slug string, includeDestination bool) (*Tour, error) {
	params := url.Values{}
	params.Set("populate[images]", "*")
	if includeDestination {
		params.Set("populate[destination][populate]", "*")
	}
	params.Set("filters[slug][$eq]", slug)

	data, err := c.fetch(ctx, "/api/tours", params)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return c.makeTour(data[0])
}

// GetDestinations fetches all destinations, optionally with their tours.
func (c *Client) GetDestinations(ctx context.Context, includeTours bool) ([]Destination, error) {
	data, err := c.fetch(ctx, "/api/destinations", destinationParams(includeTours, ""))
	if err != nil {
		return nil, err
	}

	destinations := make([]Destination, 0, len(data))
	for _, item := range data {
		destination, err := c.makeDestination(item)
		if err != nil {
			return nil, err
		}
		destinations = append(destinations, *destination)
	}
	return destinations, nil
}

// GetDestination fetches a single destination by slug. Returns (nil, nil)
// when the slug is not in the catalog.
func (c *Client) GetDestination(ctx context.Context, slug string, includeTours bool) (*Destination, error) {
	data, err := c.fetch(ctx, "/api/destinations", destinationParams(includeTours, slug))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return c.makeDestination(data[0])
}

func destinationParams(includeTours bool, slug string) url.Values {
	params := url.Values{}
	params.Set("populate[image]", "*")
	params.Set("populate[bannerImage]", "*")
	if includeTours {
		params.Set("populate[tours][populate]", "*")
	}
	if slug != "" {
		params.Set("filters[slug][$eq]", slug)
	}
	return params
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]payload, error) {
	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach catalog: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, string(body))
	}

	var envelope batchEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse catalog response: %w", err)
	}

	return envelope.Data, nil
}

func (c *Client) makeTour(item payload) (*Tour, error) {
	var attrs tourAttributes
	if err := json.Unmarshal(item.Attributes, &attrs); err != nil {
		return nil, fmt.Errorf("failed to decode tour attributes: %w", err)
	}

	tour := &Tour{
		ID:          item.ID,
		Name:        attrs.Name,
		Description: attrs.Description,
		Slug:        attrs.Slug,
		Price:       attrs.Price,
		Duration:    attrs.Duration,
		Rating:      attrs.Rating,
		Images:      []string{},
	}

	if attrs.Images != nil {
		for _, image := range attrs.Images.Data {
			if u := c.decodeImage(&image); u != "" {
				tour.Images = append(tour.Images, u)
			}
		}
	}

	if attrs.Destination != nil && attrs.Destination.Data != nil {
		destination, err := c.makeDestination(*attrs.Destination.Data)
		if err != nil {
			return nil, err
		}
		tour.Destination = destination
	}

	return tour, nil
}

func (c *Client) makeDestination(item payload) (*Destination, error) {
	var attrs destinationAttributes
	if err := json.Unmarshal(item.Attributes, &attrs); err != nil {
		return nil, fmt.Errorf("failed to decode destination attributes: %w", err)
	}

	destination := &Destination{
		ID:          item.ID,
		Country:     attrs.Country,
		City:        attrs.City,
		Description: attrs.Description,
		Slug:        attrs.Slug,
	}

	if attrs.Image != nil {
		destination.Image = c.decodeImage(attrs.Image.Data)
	}
	if attrs.BannerImage != nil {
		destination.BannerImage = c.decodeImage(attrs.BannerImage.Data)
	}

	if attrs.Tours != nil {
		for _, tourPayload := range attrs.Tours.Data {
			tour, err := c.makeTour(tourPayload)
			if err != nil {
				return nil, err
			}
			destination.Tours = append(destination.Tours, *tour)
		}
	}

	return destination, nil
}

// decodeImage resolves a media entry to an absolute URL. Strapi serves
// uploads relative to its own origin.
func (c *Client) decodeImage(item *payload) string {
	if item == nil {
		return ""
	}
	var attrs imageAttributes
	if err := json.Unmarshal(item.Attributes, &attrs); err != nil || attrs.URL == "" {
		return ""
	}
	if strings.HasPrefix(attrs.URL, "http://") || strings.HasPrefix(attrs.URL, "https://") {
		return attrs.URL
	}
	return c.baseURL + attrs.URL
}
