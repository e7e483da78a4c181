package port

import (
	"context"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
)

// Notifier delivers customer messages outside of any transaction. Delivery
// failures are the notifier's concern and never reach the caller.
type Notifier interface {
	OrderPlaced(ctx context.Context, account domain.Account, order domain.Order)
	OrderStatusChanged(ctx context.Context, account domain.Account, change domain.StatusChange)
}
