package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/funtravel/tours-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// OrderRepository handles database operations for the orders and order_items
// tables
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateFromCart snapshots cart items into a new DRAFT order and deletes the
// cart, all in one transaction. The cart delete is conditional: when two
// checkouts race, the loser finds the cart row gone, the transaction rolls
// back and no second order is created.
func (r *OrderRepository) CreateFromCart(customerID string, items []models.CartItem) (*models.Order, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	order := &models.Order{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Status:     models.OrderStatusDraft,
	}

	err = tx.QueryRow(
		`INSERT INTO orders (id, customer_id, status) VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		order.ID, order.CustomerID, order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range items {
		orderItem := models.OrderItem{
			ID:       uuid.New().String(),
			OrderID:  order.ID,
			Tour:     item.Tour,
			Date:     item.Date,
			Quantity: item.Quantity,
		}
		_, err = tx.Exec(
			`INSERT INTO order_items (id, order_id, tour, date, quantity)
			 VALUES ($1, $2, $3, $4, $5)`,
			orderItem.ID, orderItem.OrderID, orderItem.Tour, orderItem.Date, orderItem.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
		order.Items = append(order.Items, orderItem)
	}

	result, err := tx.Exec(`DELETE FROM carts WHERE customer_id = $1`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete cart: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Cart was already converted by a concurrent checkout.
		return nil, fmt.Errorf("cart already checked out: %w", models.ErrValidation)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	return order, nil
}

// GetByID retrieves an order with its items, scoped to a customer. Returns
// (nil, nil) when no such order exists for that customer.
func (r *OrderRepository) GetByID(customerID, orderID string) (*models.Order, error) {
	query := `
		SELECT id, customer_id, status, capture_id, capture_details, created_at, updated_at
		FROM orders
		WHERE id = $1 AND customer_id = $2
	`

	order, err := r.scanOrder(r.db.QueryRow(query, orderID, customerID))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}

	if order.Items, err = r.getItems(order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

// LatestDraftByCustomer retrieves the customer's most recent DRAFT order with
// its items. Returns (nil, nil) when the customer has no draft.
func (r *OrderRepository) LatestDraftByCustomer(customerID string) (*models.Order, error) {
	query := `
		SELECT id, customer_id, status, capture_id, capture_details, created_at, updated_at
		FROM orders
		WHERE customer_id = $1 AND status = 'DRAFT'
		ORDER BY created_at DESC
		LIMIT 1
	`

	order, err := r.scanOrder(r.db.QueryRow(query, customerID))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}

	if order.Items, err = r.getItems(order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

// MarkPaid transitions an order DRAFT -> PAID, recording the capture id and
// the provider's raw order record. The status guard makes the transition
// one-way; marking an already-PAID order affects zero rows.
func (r *OrderRepository) MarkPaid(orderID, captureID string, captureDetails []byte) error {
	query := `
		UPDATE orders
		SET status = 'PAID', capture_id = $2, capture_details = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'DRAFT'
	`

	result, err := r.db.Exec(query, orderID, captureID, captureDetails)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("draft order %s: %w", orderID, models.ErrNotFound)
	}

	return nil
}

// AttachBookingRef records the external booking reference on an order item.
// The booking_id IS NULL guard means a reference is written at most once.
func (r *OrderRepository) AttachBookingRef(itemID string, bookingID int64) error {
	query := `
		UPDATE order_items
		SET booking_id = $2
		WHERE id = $1 AND booking_id IS NULL
	`

	result, err := r.db.Exec(query, itemID, bookingID)
	if err != nil {
		return fmt.Errorf("failed to attach booking reference: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("order item %s has no pending booking slot: %w", itemID, models.ErrNotFound)
	}

	return nil
}

// DeleteDraft deletes a DRAFT order outright. PAID orders cannot be deleted.
func (r *OrderRepository) DeleteDraft(customerID, orderID string) error {
	query := `
		DELETE FROM orders
		WHERE id = $1 AND customer_id = $2 AND status = 'DRAFT'
	`

	result, err := r.db.Exec(query, orderID, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete draft order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("draft order %s: %w", orderID, models.ErrNotFound)
	}

	return nil
}

func (r *OrderRepository) getItems(orderID string) ([]models.OrderItem, error) {
	query := `
		SELECT id, order_id, tour, date, quantity, booking_id
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		var bookingID sql.NullInt64

		if err := rows.Scan(&item.ID, &item.OrderID, &item.Tour, &item.Date, &item.Quantity, &bookingID); err != nil {
			return nil, err
		}
		if bookingID.Valid {
			item.BookingID = &bookingID.Int64
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *OrderRepository) scanOrder(row scanner) (*models.Order, error) {
	order := &models.Order{}
	var captureID sql.NullString
	var captureDetails []byte

	err := row.Scan(
		&order.ID, &order.CustomerID, &order.Status,
		&captureID, &captureDetails,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	if captureID.Valid {
		order.CaptureID = &captureID.String
	}
	if len(captureDetails) > 0 {
		order.CaptureDetails = captureDetails
	}

	return order, nil
}
