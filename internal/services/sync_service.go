package services

import (
	"context"
	"fmt"

	"github.com/funtravel/tours-backend/internal/models"
	"github.com/funtravel/tours-backend/pkg/calcom"
	"github.com/funtravel/tours-backend/pkg/strapi"
	"github.com/sirupsen/logrus"
)

// SyncService mirrors the tour catalog into the scheduling service's event
// types. Tours and event types pair up by slug: tours without an event type
// get one created, matched pairs get the event type refreshed, and event
// types whose tour is gone are deleted.
type SyncService struct {
	catalog   TourCatalog
	scheduler Scheduler
	logger    *logrus.Logger
}

// SyncResult summarizes one sync pass by event-type slug
type SyncResult struct {
	Created []string `json:"created"`
	Updated []string `json:"updated"`
	Deleted []string `json:"deleted"`
	Skipped []string `json:"skipped,omitempty"`
}

// NewSyncService creates a new SyncService
func NewSyncService(catalog TourCatalog, scheduler Scheduler, logger *logrus.Logger) *SyncService {
	return &SyncService{
		catalog:   catalog,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Sync runs one full reconciliation of event types against the catalog
func (s *SyncService) Sync(ctx context.Context) (*SyncResult, error) {
	tours, err := s.catalog.GetTours(ctx, "", true)
	if err != nil {
		return nil, err
	}

	eventTypes, err := s.scheduler.GetEventTypes(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list event types")
		return nil, fmt.Errorf("list event types: %w", models.ErrUpstreamUnavailable)
	}

	existing := make(map[string]calcom.EventType, len(eventTypes))
	for _, eventType := range eventTypes {
		existing[eventType.Slug] = eventType
	}

	result := &SyncResult{Created: []string{}, Updated: []string{}, Deleted: []string{}}
	bySlug := make(map[string]struct{}, len(tours))

	for _, tour := range tours {
		bySlug[tour.Slug] = struct{}{}

		if tour.Destination == nil {
			s.logger.WithField("tour", tour.Slug).Warn("Tour has no destination, skipping sync")
			result.Skipped = append(result.Skipped, tour.Slug)
			continue
		}

		desired := eventTypeFor(&tour)
		if current, ok := existing[tour.Slug]; ok {
			if err := s.scheduler.UpdateEventType(ctx, current.ID, desired); err != nil {
				s.logger.WithError(err).WithField("tour", tour.Slug).Error("Failed to update event type")
				return result, fmt.Errorf("update event type %s: %w", tour.Slug, models.ErrUpstreamUnavailable)
			}
			result.Updated = append(result.Updated, tour.Slug)
			continue
		}

		desired.Slug = tour.Slug
		if _, err := s.scheduler.CreateEventType(ctx, desired); err != nil {
			s.logger.WithError(err).WithField("tour", tour.Slug).Error("Failed to create event type")
			return result, fmt.Errorf("create event type %s: %w", tour.Slug, models.ErrUpstreamUnavailable)
		}
		result.Created = append(result.Created, tour.Slug)
	}

	// Event types no tour claims anymore
	for slug, eventType := range existing {
		if _, ok := bySlug[slug]; ok {
			continue
		}
		if err := s.scheduler.DeleteEventType(ctx, eventType.ID); err != nil {
			s.logger.WithError(err).WithField("slug", slug).Error("Failed to delete event type")
			return result, fmt.Errorf("delete event type %s: %w", slug, models.ErrUpstreamUnavailable)
		}
		result.Deleted = append(result.Deleted, slug)
	}

	s.logger.WithFields(logrus.Fields{
		"created": len(result.Created),
		"updated": len(result.Updated),
		"deleted": len(result.Deleted),
		"skipped": len(result.Skipped),
	}).Info("Event-type sync complete")

	return result, nil
}

// eventTypeFor maps a catalog tour to its scheduling event type. Duration is
// stored in hours on the tour and minutes on the event type.
func eventTypeFor(tour *strapi.Tour) calcom.EventType {
	return calcom.EventType{
		Title:                tour.Name,
		Length:               tour.Duration * 60,
		Description:          tour.Description,
		RequiresConfirmation: true,
		Locations: []calcom.Location{
			{Address: tour.Destination.Location(), Type: "inPerson"},
		},
		Metadata: map[string]any{"tourId": tour.ID},
	}
}
