package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/funtravel/tours-backend/internal/models"
	"github.com/funtravel/tours-backend/pkg/calcom"
	"github.com/sirupsen/logrus"
)

// AvailabilityService answers whether a tour can start at a given instant,
// based on the busy intervals published by the scheduling service. Tours map
// to scheduling event types by slug.
type AvailabilityService struct {
	scheduler Scheduler
	logger    *logrus.Logger
	now       func() time.Time
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(scheduler Scheduler, logger *logrus.Logger) *AvailabilityService {
	return &AvailabilityService{
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
	}
}

// IsAvailable reports whether a tour can start at the given instant. An
// instant that touches a busy interval, boundaries included, is unavailable:
// the instant is free only when strictly before the interval's start or
// strictly after its end.
func (s *AvailabilityService) IsAvailable(ctx context.Context, tourSlug string, start time.Time) (bool, error) {
	availability, err := s.busyIntervals(ctx, tourSlug)
	if err != nil {
		return false, err
	}

	for _, busy := range availability {
		if !(start.Before(busy.Start) || start.After(busy.End)) {
			return false, nil
		}
	}
	return true, nil
}

// OccupiedDates returns the distinct UTC days on which the tour has at least
// one busy interval starting, sorted ascending. Only the start instant counts;
// an interval that crosses midnight occupies its start day alone.
func (s *AvailabilityService) OccupiedDates(ctx context.Context, tourSlug string) ([]time.Time, error) {
	availability, err := s.busyIntervals(ctx, tourSlug)
	if err != nil {
		return nil, err
	}

	seen := make(map[time.Time]struct{})
	for _, busy := range availability {
		start := busy.Start.UTC()
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		seen[day] = struct{}{}
	}

	dates := make([]time.Time, 0, len(seen))
	for day := range seen {
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	return dates, nil
}

// busyIntervals resolves the tour's event type and fetches its busy intervals
// for the next year.
func (s *AvailabilityService) busyIntervals(ctx context.Context, tourSlug string) ([]calcom.BusyInterval, error) {
	eventType, err := s.scheduler.GetEventTypeBySlug(ctx, tourSlug)
	if err != nil {
		s.logger.WithError(err).WithField("tour", tourSlug).Error("Failed to resolve event type")
		return nil, fmt.Errorf("resolve event type for tour %s: %w", tourSlug, models.ErrUpstreamUnavailable)
	}
	if eventType == nil {
		return nil, fmt.Errorf("tour %s has no scheduling event type: %w", tourSlug, models.ErrNotFound)
	}

	from := s.now()
	availability, err := s.scheduler.GetAvailability(ctx, eventType.ID, from, from.AddDate(1, 0, 0))
	if err != nil {
		s.logger.WithError(err).WithField("tour", tourSlug).Error("Failed to fetch availability")
		return nil, fmt.Errorf("fetch availability for tour %s: %w", tourSlug, models.ErrUpstreamUnavailable)
	}

	return availability.Busy, nil
}
