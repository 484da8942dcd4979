package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/funtravel/tours-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CartRepository handles database operations for the carts and cart_items
// tables. The carts table has a unique constraint on customer_id; a customer
// holds at most one cart and the database, not this code, enforces it.
type CartRepository struct {
	db *sqlx.DB
}

// NewCartRepository creates a new CartRepository
func NewCartRepository(db *sqlx.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetByCustomerID retrieves a customer's cart. Returns (nil, nil) when the
// customer has no cart.
func (r *CartRepository) GetByCustomerID(customerID string) (*models.Cart, error) {
	query := `
		SELECT id, customer_id, created_at, updated_at
		FROM carts
		WHERE customer_id = $1
	`

	cart := &models.Cart{}
	err := r.db.Get(cart, query, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return cart, nil
}

// GetItems retrieves all items of a cart, oldest first
func (r *CartRepository) GetItems(cartID string) ([]models.CartItem, error) {
	query := `
		SELECT id, cart_id, tour, date, quantity, created_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at
	`

	items := []models.CartItem{}
	if err := r.db.Select(&items, query, cartID); err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	return items, nil
}

// Create creates a new cart for a customer
func (r *CartRepository) Create(cart *models.Cart) error {
	query := `
		INSERT INTO carts (id, customer_id)
		VALUES ($1, $2)
		RETURNING created_at, updated_at
	`

	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}

	err := r.db.QueryRow(query, cart.ID, cart.CustomerID).Scan(&cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}

	return nil
}

// AddItem appends one line to a cart. Identical tour+date lines are kept
// separate; there is no merging.
func (r *CartRepository) AddItem(item *models.CartItem) error {
	query := `
		INSERT INTO cart_items (id, cart_id, tour, date, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		item.ID, item.CartID, item.Tour, item.Date, item.Quantity,
	).Scan(&item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

// RemoveItem deletes one cart line. The join against carts scopes the delete
// to the requesting customer.
func (r *CartRepository) RemoveItem(customerID, itemID string) error {
	query := `
		DELETE FROM cart_items
		USING carts
		WHERE cart_items.id = $1
		  AND cart_items.cart_id = carts.id
		  AND carts.customer_id = $2
	`

	result, err := r.db.Exec(query, itemID, customerID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("cart item %s: %w", itemID, models.ErrNotFound)
	}

	return nil
}
