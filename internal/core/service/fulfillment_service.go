package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrShipmentNotFound   = errors.New("shipment not found")
	ErrStatusUpdateFailed = errors.New("status update failed")
)

type FulfillmentService struct {
	orders   port.OrderRepository
	accounts port.AccountRepository
	serial   func() int
	opts     options
}

func NewFulfillmentService(orders port.OrderRepository, accounts port.AccountRepository, opts ...Option) *FulfillmentService {
	return &FulfillmentService{
		orders:   orders,
		accounts: accounts,
		serial:   randomSerial,
		opts:     buildOptions(opts),
	}
}

// randomSerial returns a six digit number without a leading zero.
func randomSerial() int {
	return 100000 + rand.IntN(900000)
}

// UpdateOrderStatus moves an order to status, creating the shipment when it
// starts shipping and stamping delivery when it is delivered.
func (s *FulfillmentService) UpdateOrderStatus(ctx context.Context, orderID int64, status string, actorID int64) (domain.StatusChange, error) {
	if orderID <= 0 {
		return domain.StatusChange{}, fmt.Errorf("%w: orderId is required", ErrInvalidInput)
	}

	to, err := domain.ParseOrderStatus(status)
	if err != nil {
		return domain.StatusChange{}, err
	}

	change, err := s.orders.TransitionOrder(ctx, port.TransitionParams{
		OrderID:   orderID,
		To:        to,
		Now:       s.opts.now(),
		NewSerial: s.serial,
	})
	switch {
	case errors.Is(err, port.ErrNotFound):
		return domain.StatusChange{}, ErrOrderNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return domain.StatusChange{}, err
	case err != nil:
		return domain.StatusChange{}, fmt.Errorf("%w: %w", ErrStatusUpdateFailed, err)
	}

	s.opts.audit.Record(ctx, domain.AuditEntry{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     domain.AuditOrderStatus,
		Resource:   "order",
		ResourceID: strconv.FormatInt(orderID, 10),
		Detail:     fmt.Sprintf("%s -> %s", change.From, change.To),
		CreatedAt:  s.opts.now(),
	})

	if change.From != change.To {
		s.notifyStatus(ctx, change)
	}
	return change, nil
}

func (s *FulfillmentService) Shipment(ctx context.Context, orderID int64) (*domain.Shipment, error) {
	sh, err := s.orders.GetShipment(ctx, orderID)
	if errors.Is(err, port.ErrNotFound) {
		return nil, ErrShipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load shipment: %w", err)
	}
	return sh, nil
}

func (s *FulfillmentService) notifyStatus(ctx context.Context, change domain.StatusChange) {
	account, err := s.accounts.GetAccount(ctx, change.CustomerID)
	if err != nil {
		log.Printf("fulfillment: load account %d for notification: %v", change.CustomerID, err)
		return
	}
	s.opts.notifier.OrderStatusChanged(ctx, *account, change)
}
