package services

import (
	"context"
	"fmt"

	"github.com/funtravel/tours-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// PaymentService is the gate between client-asserted payment success and the
// PAID state. The capture id sent by the browser is never trusted; the order
// record is fetched from the provider and must report a completed capture
// before the order transitions.
type PaymentService struct {
	provider PaymentProvider
	orders   OrderStore
	logger   *logrus.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(provider PaymentProvider, orders OrderStore, logger *logrus.Logger) *PaymentService {
	return &PaymentService{
		provider: provider,
		orders:   orders,
		logger:   logger,
	}
}

// ConfirmPayment verifies the capture with the provider and marks the order
// PAID. Confirming an already-PAID order is a no-op returning the order as-is,
// so retried confirmation requests are safe.
func (s *PaymentService) ConfirmPayment(ctx context.Context, customerID, orderID, captureID string) (*models.Order, error) {
	// 1. The order must exist and belong to the customer
	order, err := s.orders.GetByID(customerID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, models.ErrNotFound)
	}

	// 2. Idempotent re-confirmation
	if order.IsPaid() {
		s.logger.WithField("order_id", orderID).Info("Order already paid, skipping capture verification")
		return order, nil
	}

	// 3. Verify the capture with the provider
	result, err := s.provider.LookupOrder(ctx, captureID)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"order_id":   orderID,
			"capture_id": captureID,
		}).Error("Payment provider lookup failed")
		return nil, fmt.Errorf("verify capture %s: %w", captureID, models.ErrUpstreamUnavailable)
	}
	if !result.Completed() {
		s.logger.WithFields(logrus.Fields{
			"order_id":   orderID,
			"capture_id": captureID,
			"status":     result.Status,
		}).Warn("Capture not completed, refusing to mark order paid")
		return nil, fmt.Errorf("capture %s has status %s: %w", captureID, result.Status, models.ErrPaymentNotCompleted)
	}

	// TODO: cross-check the captured amount against the order total once the
	// provider record's purchase units are parsed.

	// 4. Record the transition with the provider's raw order record
	if err := s.orders.MarkPaid(orderID, captureID, result.Raw); err != nil {
		return nil, err
	}

	order, err = s.orders.GetByID(customerID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, models.ErrNotFound)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":   orderID,
		"capture_id": captureID,
	}).Info("Order marked paid")

	return order, nil
}
