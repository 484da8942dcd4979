package models

import (
	"errors"
	"strings"
	"time"
)

// Customer is created lazily on the first cart interaction and identified on
// later requests by a signed token cookie.
type Customer struct {
	ID        string    `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns the display name passed to the scheduling service.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// CustomerDetails carries the contact fields collected by the add-to-cart
// form. They create or update the customer record.
type CustomerDetails struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

// Validate validates customer details
func (d *CustomerDetails) Validate() error {
	if strings.TrimSpace(d.FirstName) == "" {
		return errors.New("first_name is required")
	}
	if strings.TrimSpace(d.LastName) == "" {
		return errors.New("last_name is required")
	}
	if !strings.Contains(d.Email, "@") {
		return errors.New("email is invalid")
	}
	return nil
}
