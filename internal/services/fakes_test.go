package services

import (
	"context"
	"fmt"
	"time"

	"github.com/funtravel/tours-backend/internal/models"
	"github.com/funtravel/tours-backend/pkg/calcom"
	"github.com/funtravel/tours-backend/pkg/paypal"
	"github.com/funtravel/tours-backend/pkg/strapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// testLogger returns a quiet logger for service tests
func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// fakeScheduler is an in-memory Scheduler
type fakeScheduler struct {
	eventTypes    map[string]*calcom.EventType
	busy          []calcom.BusyInterval
	lookupErr     error
	availErr      error
	bookErr       error
	bookings      []calcom.CreateBookingRequest
	nextBookingID int
	created       []calcom.EventType
	updated       []int
	deleted       []int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{
		eventTypes:    map[string]*calcom.EventType{},
		nextBookingID: 9000,
	}
}

func (f *fakeScheduler) GetEventTypes(ctx context.Context) ([]calcom.EventType, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	eventTypes := make([]calcom.EventType, 0, len(f.eventTypes))
	for _, eventType := range f.eventTypes {
		eventTypes = append(eventTypes, *eventType)
	}
	return eventTypes, nil
}

func (f *fakeScheduler) GetEventTypeBySlug(ctx context.Context, slug string) (*calcom.EventType, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.eventTypes[slug], nil
}

func (f *fakeScheduler) CreateEventType(ctx context.Context, eventType calcom.EventType) (*calcom.EventType, error) {
	f.created = append(f.created, eventType)
	eventType.ID = 100 + len(f.created)
	return &eventType, nil
}

func (f *fakeScheduler) UpdateEventType(ctx context.Context, id int, changes calcom.EventType) error {
	f.updated = append(f.updated, id)
	return nil
}

func (f *fakeScheduler) DeleteEventType(ctx context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeScheduler) GetAvailability(ctx context.Context, eventTypeID int, from, to time.Time) (*calcom.Availability, error) {
	if f.availErr != nil {
		return nil, f.availErr
	}
	return &calcom.Availability{Busy: f.busy}, nil
}

func (f *fakeScheduler) CreateBooking(ctx context.Context, req calcom.CreateBookingRequest) (*calcom.Booking, error) {
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	f.bookings = append(f.bookings, req)
	f.nextBookingID++
	return &calcom.Booking{ID: f.nextBookingID, EventTypeID: req.EventTypeID}, nil
}

// fakeCatalog is an in-memory TourCatalog keyed by slug
type fakeCatalog struct {
	tours map[string]*strapi.Tour
	err   error
}

func newFakeCatalog(tours ...*strapi.Tour) *fakeCatalog {
	catalog := &fakeCatalog{tours: map[string]*strapi.Tour{}}
	for _, tour := range tours {
		catalog.tours[tour.Slug] = tour
	}
	return catalog
}

func (f *fakeCatalog) GetTour(ctx context.Context, slug string, includeDestination bool) (*strapi.Tour, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tours[slug], nil
}

func (f *fakeCatalog) GetTours(ctx context.Context, destinationSlug string, includeDestination bool) ([]strapi.Tour, error) {
	if f.err != nil {
		return nil, f.err
	}
	tours := make([]strapi.Tour, 0, len(f.tours))
	for _, tour := range f.tours {
		tours = append(tours, *tour)
	}
	return tours, nil
}

func (f *fakeCatalog) GetDestination(ctx context.Context, slug string, includeTours bool) (*strapi.Destination, error) {
	return nil, f.err
}

func (f *fakeCatalog) GetDestinations(ctx context.Context, includeTours bool) ([]strapi.Destination, error) {
	return nil, f.err
}

// fakePaymentProvider replays a canned provider order record
type fakePaymentProvider struct {
	result  *paypal.OrderResult
	err     error
	lookups int
}

func (f *fakePaymentProvider) LookupOrder(ctx context.Context, captureID string) (*paypal.OrderResult, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeCustomerStore is an in-memory CustomerStore
type fakeCustomerStore struct {
	customers map[string]*models.Customer
}

func newFakeCustomerStore(customers ...*models.Customer) *fakeCustomerStore {
	store := &fakeCustomerStore{customers: map[string]*models.Customer{}}
	for _, customer := range customers {
		store.customers[customer.ID] = customer
	}
	return store
}

func (f *fakeCustomerStore) Create(customer *models.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	clone := *customer
	f.customers[customer.ID] = &clone
	return nil
}

func (f *fakeCustomerStore) GetByID(customerID string) (*models.Customer, error) {
	customer, ok := f.customers[customerID]
	if !ok {
		return nil, nil
	}
	clone := *customer
	return &clone, nil
}

func (f *fakeCustomerStore) Update(customer *models.Customer) error {
	if _, ok := f.customers[customer.ID]; !ok {
		return fmt.Errorf("customer %s: %w", customer.ID, models.ErrNotFound)
	}
	clone := *customer
	f.customers[customer.ID] = &clone
	return nil
}

// fakeCartStore is an in-memory CartStore
type fakeCartStore struct {
	carts map[string]*models.Cart // by customer id
	items map[string][]models.CartItem
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{
		carts: map[string]*models.Cart{},
		items: map[string][]models.CartItem{},
	}
}

func (f *fakeCartStore) GetByCustomerID(customerID string) (*models.Cart, error) {
	cart, ok := f.carts[customerID]
	if !ok {
		return nil, nil
	}
	clone := *cart
	return &clone, nil
}

func (f *fakeCartStore) GetItems(cartID string) ([]models.CartItem, error) {
	return f.items[cartID], nil
}

func (f *fakeCartStore) Create(cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	clone := *cart
	f.carts[cart.CustomerID] = &clone
	return nil
}

func (f *fakeCartStore) AddItem(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	f.items[item.CartID] = append(f.items[item.CartID], *item)
	return nil
}

func (f *fakeCartStore) RemoveItem(customerID, itemID string) error {
	cart, ok := f.carts[customerID]
	if !ok {
		return fmt.Errorf("cart item %s: %w", itemID, models.ErrNotFound)
	}
	items := f.items[cart.ID]
	for i, item := range items {
		if item.ID == itemID {
			f.items[cart.ID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("cart item %s: %w", itemID, models.ErrNotFound)
}

// fakeOrderStore is an in-memory OrderStore enforcing the same write guards
// as the real one
type fakeOrderStore struct {
	orders     map[string]*models.Order // by order id
	markPaids  int
	attachErrs map[string]error
}

func newFakeOrderStore(orders ...*models.Order) *fakeOrderStore {
	store := &fakeOrderStore{
		orders:     map[string]*models.Order{},
		attachErrs: map[string]error{},
	}
	for _, order := range orders {
		store.orders[order.ID] = order
	}
	return store
}

func (f *fakeOrderStore) CreateFromCart(customerID string, items []models.CartItem) (*models.Order, error) {
	order := &models.Order{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Status:     models.OrderStatusDraft,
	}
	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			ID:       uuid.New().String(),
			OrderID:  order.ID,
			Tour:     item.Tour,
			Date:     item.Date,
			Quantity: item.Quantity,
		})
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeOrderStore) GetByID(customerID, orderID string) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok || order.CustomerID != customerID {
		return nil, nil
	}
	clone := *order
	clone.Items = append([]models.OrderItem(nil), order.Items...)
	return &clone, nil
}

func (f *fakeOrderStore) LatestDraftByCustomer(customerID string) (*models.Order, error) {
	var latest *models.Order
	for _, order := range f.orders {
		if order.CustomerID != customerID || order.Status != models.OrderStatusDraft {
			continue
		}
		if latest == nil || order.CreatedAt.After(latest.CreatedAt) {
			latest = order
		}
	}
	if latest == nil {
		return nil, nil
	}
	clone := *latest
	return &clone, nil
}

func (f *fakeOrderStore) MarkPaid(orderID, captureID string, captureDetails []byte) error {
	order, ok := f.orders[orderID]
	if !ok || order.Status != models.OrderStatusDraft {
		return fmt.Errorf("draft order %s: %w", orderID, models.ErrNotFound)
	}
	f.markPaids++
	order.Status = models.OrderStatusPaid
	order.CaptureID = &captureID
	order.CaptureDetails = captureDetails
	return nil
}

func (f *fakeOrderStore) AttachBookingRef(itemID string, bookingID int64) error {
	if err := f.attachErrs[itemID]; err != nil {
		return err
	}
	for _, order := range f.orders {
		for i := range order.Items {
			if order.Items[i].ID != itemID {
				continue
			}
			if order.Items[i].BookingID != nil {
				return fmt.Errorf("order item %s has no pending booking slot: %w", itemID, models.ErrNotFound)
			}
			order.Items[i].BookingID = &bookingID
			return nil
		}
	}
	return fmt.Errorf("order item %s has no pending booking slot: %w", itemID, models.ErrNotFound)
}

func (f *fakeOrderStore) DeleteDraft(customerID, orderID string) error {
	order, ok := f.orders[orderID]
	if !ok || order.CustomerID != customerID || order.Status != models.OrderStatusDraft {
		return fmt.Errorf("draft order %s: %w", orderID, models.ErrNotFound)
	}
	delete(f.orders, orderID)
	return nil
}
