package services

import (
	"context"
	"fmt"

	"github.com/funtravel/tours-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// OrderService manages the cart -> draft order conversion and draft order
// reads. Orders are immutable snapshots: once created their items never
// change, only the status does.
type OrderService struct {
	orders  OrderStore
	carts   CartStore
	catalog TourCatalog
	logger  *logrus.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orders OrderStore, carts CartStore, catalog TourCatalog, logger *logrus.Logger) *OrderService {
	return &OrderService{
		orders:  orders,
		carts:   carts,
		catalog: catalog,
		logger:  logger,
	}
}

// Checkout converts the customer's cart into a DRAFT order and deletes the
// cart, atomically. A concurrent second checkout loses the race inside the
// store and surfaces as a validation error.
func (s *OrderService) Checkout(ctx context.Context, customerID string) (*models.Order, error) {
	cart, err := s.carts.GetByCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, fmt.Errorf("customer has no cart: %w", models.ErrValidation)
	}

	items, err := s.carts.GetItems(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", models.ErrValidation)
	}

	order, err := s.orders.CreateFromCart(customerID, items)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id": customerID,
		"order_id":    order.ID,
		"items":       len(order.Items),
	}).Info("Cart checked out into draft order")

	return order, nil
}

// GetOrder returns one of the customer's orders materialized with live catalog
// details.
func (s *OrderService) GetOrder(ctx context.Context, customerID, orderID string) (*models.OrderInfo, error) {
	order, err := s.orders.GetByID(customerID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, models.ErrNotFound)
	}
	return s.materialize(ctx, order)
}

// LatestDraft returns the customer's most recent DRAFT order, materialized.
// Returns (nil, nil) when the customer has no draft.
func (s *OrderService) LatestDraft(ctx context.Context, customerID string) (*models.OrderInfo, error) {
	order, err := s.orders.LatestDraftByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	return s.materialize(ctx, order)
}

// DiscardDraft deletes a DRAFT order. PAID orders cannot be discarded.
func (s *OrderService) DiscardDraft(ctx context.Context, customerID, orderID string) error {
	if err := s.orders.DeleteDraft(customerID, orderID); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"customer_id": customerID,
		"order_id":    orderID,
	}).Info("Draft order discarded")
	return nil
}

// materialize resolves each item's tour from the catalog. Unresolvable slugs
// go to Dropped; the order itself is still returned.
func (s *OrderService) materialize(ctx context.Context, order *models.Order) (*models.OrderInfo, error) {
	info := &models.OrderInfo{Order: *order, Items: []models.OrderItemInfo{}}
	for _, item := range order.Items {
		tour, err := s.catalog.GetTour(ctx, item.Tour, false)
		if err != nil {
			return nil, err
		}
		if tour == nil {
			s.logger.WithFields(logrus.Fields{
				"order_id": order.ID,
				"tour":     item.Tour,
			}).Warn("Order item references a tour missing from the catalog")
			info.Dropped = append(info.Dropped, item.Tour)
			continue
		}
		info.Items = append(info.Items, models.OrderItemInfo{OrderItem: item, TourInfo: *tour})
	}
	return info, nil
}
