package services

import (
	"context"
	"time"

	"github.com/funtravel/tours-backend/internal/models"
	"github.com/funtravel/tours-backend/pkg/calcom"
	"github.com/funtravel/tours-backend/pkg/paypal"
	"github.com/funtravel/tours-backend/pkg/strapi"
)

// TourCatalog is the read-only catalog surface the services need.
// Implemented by pkg/strapi.Client and by CatalogService, which layers the
// tour cache on top.
type TourCatalog interface {
	GetTour(ctx context.Context, slug string, includeDestination bool) (*strapi.Tour, error)
	GetTours(ctx context.Context, destinationSlug string, includeDestination bool) ([]strapi.Tour, error)
	GetDestination(ctx context.Context, slug string, includeTours bool) (*strapi.Destination, error)
	GetDestinations(ctx context.Context, includeTours bool) ([]strapi.Destination, error)
}

// Scheduler is the scheduling-service surface (Cal.com). Implemented by
// pkg/calcom.Client.
type Scheduler interface {
	GetEventTypes(ctx context.Context) ([]calcom.EventType, error)
	GetEventTypeBySlug(ctx context.Context, slug string) (*calcom.EventType, error)
	CreateEventType(ctx context.Context, eventType calcom.EventType) (*calcom.EventType, error)
	UpdateEventType(ctx context.Context, id int, changes calcom.EventType) error
	DeleteEventType(ctx context.Context, id int) error
	GetAvailability(ctx context.Context, eventTypeID int, from, to time.Time) (*calcom.Availability, error)
	CreateBooking(ctx context.Context, req calcom.CreateBookingRequest) (*calcom.Booking, error)
}

// PaymentProvider is the payment-provider surface. Implemented by
// pkg/paypal.Client.
type PaymentProvider interface {
	LookupOrder(ctx context.Context, captureID string) (*paypal.OrderResult, error)
}

// The repositories expose only the operations this core needs, hiding the
// generic query surface of the persistence layer.

// CustomerStore persists customers
type CustomerStore interface {
	Create(customer *models.Customer) error
	GetByID(customerID string) (*models.Customer, error)
	Update(customer *models.Customer) error
}

// CartStore persists carts and cart items
type CartStore interface {
	GetByCustomerID(customerID string) (*models.Cart, error)
	GetItems(cartID string) ([]models.CartItem, error)
	Create(cart *models.Cart) error
	AddItem(item *models.CartItem) error
	RemoveItem(customerID, itemID string) error
}

// OrderStore persists orders and order items
type OrderStore interface {
	CreateFromCart(customerID string, items []models.CartItem) (*models.Order, error)
	GetByID(customerID, orderID string) (*models.Order, error)
	LatestDraftByCustomer(customerID string) (*models.Order, error)
	MarkPaid(orderID, captureID string, captureDetails []byte) error
	AttachBookingRef(itemID string, bookingID int64) error
	DeleteDraft(customerID, orderID string) error
}
