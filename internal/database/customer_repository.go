package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/funtravel/tours-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CustomerRepository handles database operations for the customers table
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create creates a new customer
func (r *CustomerRepository) Create(customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, first_name, last_name, email)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		customer.ID, customer.FirstName, customer.LastName, customer.Email,
	).Scan(&customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by ID. Returns (nil, nil) when the customer
// does not exist, so that stale identity tokens can be ignored.
func (r *CustomerRepository) GetByID(customerID string) (*models.Customer, error) {
	query := `
		SELECT id, first_name, last_name, email, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	customer := &models.Customer{}
	err := r.db.Get(customer, query, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// Update updates a customer's contact details
func (r *CustomerRepository) Update(customer *models.Customer) error {
	query := `
		UPDATE customers
		SET first_name = $2, last_name = $3, email = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		customer.ID, customer.FirstName, customer.LastName, customer.Email,
	).Scan(&customer.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("customer %s: %w", customer.ID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	return nil
}
