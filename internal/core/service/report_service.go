package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

var ErrCustomerNotFound = errors.New("customer not found")

type ReportService struct {
	reports  port.ReportRepository
	accounts port.AccountRepository
}

func NewReportService(reports port.ReportRepository, accounts port.AccountRepository) *ReportService {
	return &ReportService{reports: reports, accounts: accounts}
}

// CustomerOrders lists a customer's orders with items, newest first.
// statusList is a comma separated filter; empty means every status.
func (s *ReportService) CustomerOrders(ctx context.Context, customerID int64, statusList string) ([]domain.Order, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customerId is required", ErrInvalidInput)
	}

	var statuses []domain.OrderStatus
	for _, raw := range strings.Split(statusList, ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		st, err := domain.ParseOrderStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		statuses = append(statuses, st)
	}

	orders, err := s.reports.CustomerOrders(ctx, customerID, statuses)
	if err != nil {
		return nil, fmt.Errorf("load customer orders: %w", err)
	}
	return orders, nil
}

func (s *ReportService) Revenue(ctx context.Context, from, to time.Time) ([]domain.RevenueRow, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}
	rows, err := s.reports.Revenue(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load revenue: %w", err)
	}
	return rows, nil
}

// CustomerTier derives the tier from total spend along with the progress
// towards the next one.
func (s *ReportService) CustomerTier(ctx context.Context, customerID int64) (domain.TierProgress, error) {
	customer, err := s.accounts.GetCustomer(ctx, customerID)
	if errors.Is(err, port.ErrNotFound) {
		return domain.TierProgress{}, ErrCustomerNotFound
	}
	if err != nil {
		return domain.TierProgress{}, fmt.Errorf("load customer: %w", err)
	}

	return domain.NextTier(customer.TotalSpent), nil
}
