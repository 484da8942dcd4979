package services

import (
	"context"
	"fmt"

	"github.com/funtravel/tours-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// CartService manages customer carts. Customers and carts are created lazily
// on the first item added; identity is carried by the signed customer cookie,
// so there is no separate signup step.
type CartService struct {
	carts     CartStore
	customers CustomerStore
	catalog   TourCatalog
	logger    *logrus.Logger
}

// NewCartService creates a new CartService
func NewCartService(carts CartStore, customers CustomerStore, catalog TourCatalog, logger *logrus.Logger) *CartService {
	return &CartService{
		carts:     carts,
		customers: customers,
		catalog:   catalog,
		logger:    logger,
	}
}

// UpsertItem adds one line to the customer's cart. customerID may be empty or
// stale (token for a deleted customer); either way a fresh customer is
// created. Returns the customer so the handler can (re)issue the identity
// cookie, and the stored item.
func (s *CartService) UpsertItem(ctx context.Context, customerID string, req *models.UpsertCartItemRequest) (*models.Customer, *models.CartItem, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%v: %w", err, models.ErrValidation)
	}

	// 2. The tour must exist in the catalog before it can be carted
	tour, err := s.catalog.GetTour(ctx, req.Tour, false)
	if err != nil {
		return nil, nil, err
	}
	if tour == nil {
		return nil, nil, fmt.Errorf("tour %s: %w", req.Tour, models.ErrNotFound)
	}

	// 3. Resolve or create the customer, refreshing contact details
	customer, err := s.resolveCustomer(customerID, &req.Customer)
	if err != nil {
		return nil, nil, err
	}

	// 4. Resolve or create the cart
	cart, err := s.carts.GetByCustomerID(customer.ID)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil {
		cart = &models.Cart{CustomerID: customer.ID}
		if err := s.carts.Create(cart); err != nil {
			return nil, nil, err
		}
	}

	// 5. Append the line
	item := &models.CartItem{
		CartID:   cart.ID,
		Tour:     req.Tour,
		Date:     req.Date,
		Quantity: req.Quantity,
	}
	if err := s.carts.AddItem(item); err != nil {
		return nil, nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id": customer.ID,
		"cart_id":     cart.ID,
		"tour":        req.Tour,
		"quantity":    req.Quantity,
	}).Info("Cart item added")

	return customer, item, nil
}

// GetCart returns the customer's cart materialized with live catalog details.
// Returns (nil, nil) when the customer has no cart. Items whose tour no longer
// resolves from the catalog are reported in Dropped rather than failing the
// whole read.
func (s *CartService) GetCart(ctx context.Context, customerID string) (*models.CartInfo, error) {
	cart, err := s.carts.GetByCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, nil
	}

	items, err := s.carts.GetItems(cart.ID)
	if err != nil {
		return nil, err
	}

	info := &models.CartInfo{Cart: *cart, Items: []models.CartItemInfo{}}
	for _, item := range items {
		tour, err := s.catalog.GetTour(ctx, item.Tour, false)
		if err != nil {
			return nil, err
		}
		if tour == nil {
			s.logger.WithFields(logrus.Fields{
				"cart_id": cart.ID,
				"tour":    item.Tour,
			}).Warn("Cart item references a tour missing from the catalog")
			info.Dropped = append(info.Dropped, item.Tour)
			continue
		}
		info.Items = append(info.Items, models.CartItemInfo{CartItem: item, TourInfo: *tour})
	}

	return info, nil
}

// RemoveItem deletes one line from the customer's cart
func (s *CartService) RemoveItem(ctx context.Context, customerID, itemID string) error {
	return s.carts.RemoveItem(customerID, itemID)
}

func (s *CartService) resolveCustomer(customerID string, details *models.CustomerDetails) (*models.Customer, error) {
	if customerID != "" {
		customer, err := s.customers.GetByID(customerID)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			customer.FirstName = details.FirstName
			customer.LastName = details.LastName
			customer.Email = details.Email
			if err := s.customers.Update(customer); err != nil {
				return nil, err
			}
			return customer, nil
		}
		s.logger.WithField("customer_id", customerID).Warn("Identity token references unknown customer, creating a new one")
	}

	customer := &models.Customer{
		FirstName: details.FirstName,
		LastName:  details.LastName,
		Email:     details.Email,
	}
	if err := s.customers.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}
