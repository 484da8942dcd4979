package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/funtravel/tours-backend/internal/models"
	"github.com/funtravel/tours-backend/pkg/calcom"
	"github.com/sirupsen/logrus"
)

// ReconcilerService drives a paid order towards its goal state: exactly one
// external booking per order item. It is safe to run repeatedly; items that
// already carry a booking reference are skipped before any external call, and
// a failure on one item never blocks the others.
type ReconcilerService struct {
	orders    OrderStore
	customers CustomerStore
	catalog   TourCatalog
	scheduler Scheduler
	logger    *logrus.Logger
}

// NewReconcilerService creates a new ReconcilerService
func NewReconcilerService(
	orders OrderStore,
	customers CustomerStore,
	catalog TourCatalog,
	scheduler Scheduler,
	logger *logrus.Logger,
) *ReconcilerService {
	return &ReconcilerService{
		orders:    orders,
		customers: customers,
		catalog:   catalog,
		scheduler: scheduler,
		logger:    logger,
	}
}

// ReconcileOrder books every unbooked item of a PAID order with the
// scheduling service. Per-item failures are collected and joined; the caller
// re-runs the reconciler to finish the remainder. Returns the order re-read
// after the pass, so successful bookings are reflected even when some items
// failed.
func (s *ReconcilerService) ReconcileOrder(ctx context.Context, customerID, orderID string) (*models.Order, error) {
	// 1. The order must exist and be paid
	order, err := s.orders.GetByID(customerID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, models.ErrNotFound)
	}
	if !order.IsPaid() {
		return nil, fmt.Errorf("order %s is not paid: %w", orderID, models.ErrValidation)
	}

	// 2. Bookings carry the customer's name and email
	customer, err := s.customers.GetByID(order.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("order %s has no customer record: %w", orderID, models.ErrBadRequest)
	}

	// 3. One pass over the items, collecting per-item failures
	var itemErrs []error
	for _, item := range order.Items {
		if item.BookingID != nil {
			continue
		}
		if err := s.bookItem(ctx, customer, &item); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"order_id": orderID,
				"item_id":  item.ID,
				"tour":     item.Tour,
			}).Error("Failed to book order item")
			itemErrs = append(itemErrs, fmt.Errorf("item %s: %w", item.ID, err))
		}
	}

	reconciled, err := s.orders.GetByID(customerID, orderID)
	if err != nil {
		return nil, err
	}
	return reconciled, errors.Join(itemErrs...)
}

// bookItem creates one external booking and records its reference. The
// booking window is the item's start instant plus the tour's duration.
func (s *ReconcilerService) bookItem(ctx context.Context, customer *models.Customer, item *models.OrderItem) error {
	tour, err := s.catalog.GetTour(ctx, item.Tour, true)
	if err != nil {
		return err
	}
	if tour == nil {
		return fmt.Errorf("tour %s not in catalog: %w", item.Tour, models.ErrBadRequest)
	}
	if tour.Destination == nil {
		return fmt.Errorf("tour %s has no destination: %w", item.Tour, models.ErrBadRequest)
	}

	eventType, err := s.scheduler.GetEventTypeBySlug(ctx, item.Tour)
	if err != nil {
		return fmt.Errorf("resolve event type for tour %s: %w", item.Tour, models.ErrUpstreamUnavailable)
	}
	if eventType == nil {
		return fmt.Errorf("tour %s has no scheduling event type: %w", item.Tour, models.ErrBadRequest)
	}

	booking, err := s.scheduler.CreateBooking(ctx, calcom.CreateBookingRequest{
		EventTypeID: eventType.ID,
		Name:        customer.FullName(),
		Email:       customer.Email,
		Start:       item.Date,
		End:         item.Date.Add(time.Duration(tour.Duration) * time.Hour),
		Description: fmt.Sprintf("Booking for tour %s", tour.Name),
		Location:    tour.Destination.Location(),
	})
	if err != nil {
		return fmt.Errorf("create booking for tour %s: %w", item.Tour, models.ErrUpstreamUnavailable)
	}

	if err := s.orders.AttachBookingRef(item.ID, int64(booking.ID)); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":   item.OrderID,
		"item_id":    item.ID,
		"tour":       item.Tour,
		"booking_id": booking.ID,
	}).Info("Order item booked")

	return nil
}
