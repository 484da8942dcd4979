package models

import (
	"errors"
	"time"

	"github.com/funtravel/tours-backend/pkg/strapi"
)

// Cart holds a customer's in-progress selection. A customer has at most one
// cart; checkout converts it into a draft order and deletes it.
type Cart struct {
	ID         string    `json:"id" db:"id"`
	CustomerID string    `json:"customer_id" db:"customer_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// CartItem is one line in a cart. The tour is referenced by slug only; price
// and details are resolved from the catalog at read time.
type CartItem struct {
	ID        string    `json:"id" db:"id"`
	CartID    string    `json:"cart_id" db:"cart_id"`
	Tour      string    `json:"tour" db:"tour"`
	Date      time.Time `json:"date" db:"date"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CartItemInfo is a cart item materialized with live catalog details.
type CartItemInfo struct {
	CartItem
	TourInfo strapi.Tour `json:"tour_info"`
}

// CartInfo is the materialized view of a cart. Dropped lists the slugs of
// items whose tour could no longer be resolved from the catalog; those items
// are excluded from Items but not silently lost.
type CartInfo struct {
	Cart
	Items   []CartItemInfo `json:"items"`
	Dropped []string       `json:"dropped,omitempty"`
}

// UpsertCartItemRequest adds one line to the customer's cart, creating the
// customer and cart on first use.
type UpsertCartItemRequest struct {
	Customer CustomerDetails `json:"customer" binding:"required"`
	Tour     string          `json:"tour" binding:"required"`
	Date     time.Time       `json:"date" binding:"required"`
	Quantity int             `json:"quantity" binding:"required,min=1"`
}

// Validate validates the upsert request
func (r *UpsertCartItemRequest) Validate() error {
	if r.Tour == "" {
		return errors.New("tour is required")
	}
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	if r.Quantity <= 0 {
		return errors.New("quantity must be at least 1")
	}
	return r.Customer.Validate()
}
