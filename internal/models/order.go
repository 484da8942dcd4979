package models

import (
	"encoding/json"
	"time"

	"github.com/funtravel/tours-backend/pkg/strapi"
)

// OrderStatus represents the lifecycle of an order
type OrderStatus string

const (
	OrderStatusDraft OrderStatus = "DRAFT"
	OrderStatusPaid  OrderStatus = "PAID"
)

// Order is an immutable snapshot of a cart taken at checkout. Items are fixed
// at creation; the only transitions are DRAFT -> PAID and draft deletion.
type Order struct {
	ID             string          `json:"id" db:"id"`
	CustomerID     string          `json:"customer_id" db:"customer_id"`
	Status         OrderStatus     `json:"status" db:"status"`
	CaptureID      *string         `json:"capture_id,omitempty" db:"capture_id"`
	CaptureDetails json.RawMessage `json:"capture_details,omitempty" db:"capture_details"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
	Items          []OrderItem     `json:"items,omitempty"`
}

// IsPaid reports whether the order has completed payment.
func (o *Order) IsPaid() bool {
	return o.Status == OrderStatusPaid
}

// OrderItem is one line of an order. BookingID is the external scheduling
// service's booking reference, absent until reconciliation succeeds for the
// item. It is written at most once.
type OrderItem struct {
	ID        string    `json:"id" db:"id"`
	OrderID   string    `json:"order_id" db:"order_id"`
	Tour      string    `json:"tour" db:"tour"`
	Date      time.Time `json:"date" db:"date"`
	Quantity  int       `json:"quantity" db:"quantity"`
	BookingID *int64    `json:"booking_id,omitempty" db:"booking_id"`
}

// OrderItemInfo is an order item materialized with live catalog details.
type OrderItemInfo struct {
	OrderItem
	TourInfo strapi.Tour `json:"tour_info"`
}

// OrderInfo is the materialized view of an order. Dropped lists slugs of
// items whose tour no longer resolves from the catalog.
type OrderInfo struct {
	Order
	Items   []OrderItemInfo `json:"items"`
	Dropped []string        `json:"dropped,omitempty"`
}

// Total sums quantity times live catalog price over the resolvable items.
func (o *OrderInfo) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.TourInfo.Price * float64(item.Quantity)
	}
	return total
}

// ConfirmOrderRequest carries the capture id asserted by the client-side
// payment widget. The assertion is untrusted and re-verified with the
// provider before any state change.
type ConfirmOrderRequest struct {
	CaptureID string `json:"capture_id" binding:"required"`
}
