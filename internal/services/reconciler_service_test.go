package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/funtravel/tours-backend/internal/models"
	"github.com/funtravel/tours-backend/pkg/calcom"
	"github.com/funtravel/tours-backend/pkg/strapi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reconcilerFixture() (*fakeOrderStore, *fakeCustomerStore, *fakeCatalog, *fakeScheduler, *models.Order) {
	customer := &models.Customer{
		ID:        uuid.New().String(),
		FirstName: "Maya",
		LastName:  "Putri",
		Email:     "maya@example.com",
	}

	orderID := uuid.New().String()
	start := time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC)
	order := &models.Order{
		ID:         orderID,
		CustomerID: customer.ID,
		Status:     models.OrderStatusPaid,
		Items: []models.OrderItem{
			{ID: uuid.New().String(), OrderID: orderID, Tour: "bali-sunrise-trek", Date: start, Quantity: 2},
			{ID: uuid.New().String(), OrderID: orderID, Tour: "ubud-rice-terraces", Date: start.Add(48 * time.Hour), Quantity: 1},
		},
	}

	catalog := newFakeCatalog(
		&strapi.Tour{
			Slug: "bali-sunrise-trek", Name: "Bali Sunrise Trek", Duration: 4,
			Destination: &strapi.Destination{City: "Ubud", Country: "Indonesia"},
		},
		&strapi.Tour{
			Slug: "ubud-rice-terraces", Name: "Ubud Rice Terraces", Duration: 3,
			Destination: &strapi.Destination{City: "Ubud", Country: "Indonesia"},
		},
	)

	scheduler := newFakeScheduler()
	scheduler.eventTypes["bali-sunrise-trek"] = &calcom.EventType{ID: 71, Slug: "bali-sunrise-trek"}
	scheduler.eventTypes["ubud-rice-terraces"] = &calcom.EventType{ID: 72, Slug: "ubud-rice-terraces"}

	return newFakeOrderStore(order), newFakeCustomerStore(customer), catalog, scheduler, order
}

func TestReconcileOrder_BooksEveryItem(t *testing.T) {
	orders, customers, catalog, scheduler, order := reconcilerFixture()
	service := NewReconcilerService(orders, customers, catalog, scheduler, testLogger())

	reconciled, err := service.ReconcileOrder(context.Background(), order.CustomerID, order.ID)
	require.NoError(t, err)
	require.Len(t, scheduler.bookings, 2)

	for _, item := range reconciled.Items {
		assert.NotNil(t, item.BookingID)
	}

	// Booking window and contact details come from catalog and customer
	booking := scheduler.bookings[0]
	assert.Equal(t, 71, booking.EventTypeID)
	assert.Equal(t, "Maya Putri", booking.Name)
	assert.Equal(t, "maya@example.com", booking.Email)
	assert.Equal(t, order.Items[0].Date, booking.Start)
	assert.Equal(t, order.Items[0].Date.Add(4*time.Hour), booking.End)
	assert.Equal(t, "Booking for tour Bali Sunrise Trek", booking.Description)
	assert.Equal(t, "Ubud Indonesia", booking.Location)
}

func TestReconcileOrder_RerunIsIdempotent(t *testing.T) {
	orders, customers, catalog, scheduler, order := reconcilerFixture()
	service := NewReconcilerService(orders, customers, catalog, scheduler, testLogger())

	_, err := service.ReconcileOrder(context.Background(), order.CustomerID, order.ID)
	require.NoError(t, err)
	require.Len(t, scheduler.bookings, 2)

	// Second pass finds every item booked and makes no external calls
	_, err = service.ReconcileOrder(context.Background(), order.CustomerID, order.ID)
	require.NoError(t, err)
	assert.Len(t, scheduler.bookings, 2)
}

func TestReconcileOrder_PartialFailureKeepsGoing(t *testing.T) {
	orders, customers, catalog, scheduler, order := reconcilerFixture()
	// First item's tour vanished from the catalog
	delete(catalog.tours, "bali-sunrise-trek")
	service := NewReconcilerService(orders, customers, catalog, scheduler, testLogger())

	reconciled, err := service.ReconcileOrder(context.Background(), order.CustomerID, order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrBadRequest))

	// The second item was still booked
	require.Len(t, scheduler.bookings, 1)
	assert.Nil(t, reconciled.Items[0].BookingID)
	assert.NotNil(t, reconciled.Items[1].BookingID)

	// A re-run after the catalog recovers books only the failed item
	catalog.tours["bali-sunrise-trek"] = &strapi.Tour{
		Slug: "bali-sunrise-trek", Name: "Bali Sunrise Trek", Duration: 4,
		Destination: &strapi.Destination{City: "Ubud", Country: "Indonesia"},
	}
	reconciled, err = service.ReconcileOrder(context.Background(), order.CustomerID, order.ID)
	require.NoError(t, err)
	assert.Len(t, scheduler.bookings, 2)
	for _, item := range reconciled.Items {
		assert.NotNil(t, item.BookingID)
	}
}

func TestReconcileOrder_SchedulerDown(t *testing.T) {
	orders, customers, catalog, scheduler, order := reconcilerFixture()
	scheduler.bookErr = errors.New("connection refused")
	service := NewReconcilerService(orders, customers, catalog, scheduler, testLogger())

	reconciled, err := service.ReconcileOrder(context.Background(), order.CustomerID, order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
	for _, item := range reconciled.Items {
		assert.Nil(t, item.BookingID)
	}
}

func TestReconcileOrder_RefusesUnpaidOrder(t *testing.T) {
	orders, customers, catalog, scheduler, order := reconcilerFixture()
	orders.orders[order.ID].Status = models.OrderStatusDraft
	service := NewReconcilerService(orders, customers, catalog, scheduler, testLogger())

	_, err := service.ReconcileOrder(context.Background(), order.CustomerID, order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))
	assert.Empty(t, scheduler.bookings)
}

func TestReconcileOrder_UnknownOrder(t *testing.T) {
	orders, customers, catalog, scheduler, _ := reconcilerFixture()
	service := NewReconcilerService(orders, customers, catalog, scheduler, testLogger())

	_, err := service.ReconcileOrder(context.Background(), uuid.New().String(), uuid.New().String())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
