package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

var (
	ErrDuplicateRequest = errors.New("duplicate request")
	ErrCheckoutFailed   = errors.New("checkout failed")
)

type CheckoutRequest struct {
	CustomerID     int64
	PaymentMethod  string
	Address        string
	VoucherCode    string
	ShippingUnitID int

	// IdempotencyKey is optional; when set, a repeated key is rejected
	IdempotencyKey string
}

type CheckoutService struct {
	orders   port.OrderRepository
	pricing  *PricingService
	accounts port.AccountRepository
	cache    port.CacheRepository
	policy   domain.Policy
	opts     options
}

// NewCheckoutService builds the checkout pipeline. cache may be nil, which
// disables idempotency keys.
func NewCheckoutService(
	orders port.OrderRepository,
	pricing *PricingService,
	accounts port.AccountRepository,
	cache port.CacheRepository,
	policy domain.Policy,
	opts ...Option,
) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		pricing:  pricing,
		accounts: accounts,
		cache:    cache,
		policy:   policy,
		opts:     buildOptions(opts),
	}
}

// Checkout turns the customer's cart into an order. On any storage failure
// nothing is written and the error wraps ErrCheckoutFailed.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (order domain.Order, err error) {
	if req.CustomerID <= 0 {
		return domain.Order{}, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	if key := strings.TrimSpace(req.IdempotencyKey); key != "" && s.cache != nil {
		idempotencyKey := fmt.Sprintf("checkout:%d:%s", req.CustomerID, key)

		claimed, claimErr := s.cache.SetIdempotency(ctx, idempotencyKey)
		if claimErr != nil {
			return domain.Order{}, fmt.Errorf("idempotency check failed: %w", claimErr)
		}
		if !claimed {
			return domain.Order{}, ErrDuplicateRequest
		}

		defer func() {
			if err == nil {
				return
			}
			if relErr := s.cache.ReleaseIdempotency(ctx, idempotencyKey); relErr != nil {
				log.Printf("checkout: release idempotency key %s: %v", idempotencyKey, relErr)
			}
		}()
	}

	var voucher *domain.Promotion
	if code := strings.TrimSpace(req.VoucherCode); code != "" {
		promo, err := s.pricing.ValidateVoucher(ctx, code)
		if err != nil {
			return domain.Order{}, err
		}
		voucher = &promo
	}

	order, err = s.orders.PlaceOrder(ctx, port.PlaceOrderParams{
		CustomerID:     req.CustomerID,
		PaymentMethod:  domain.NormalizePaymentMethod(req.PaymentMethod),
		Address:        strings.TrimSpace(req.Address),
		ShippingUnitID: req.ShippingUnitID,
		Voucher:        voucher,
		Policy:         s.policy,
		Now:            s.opts.now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}

	s.opts.audit.Record(ctx, domain.AuditEntry{
		ID:         uuid.NewString(),
		ActorID:    req.CustomerID,
		Action:     domain.AuditOrderCreate,
		Resource:   "order",
		ResourceID: strconv.FormatInt(order.ID, 10),
		Detail:     fmt.Sprintf("total=%s items=%d", order.TotalAmount.String(), len(order.Items)),
		CreatedAt:  s.opts.now(),
	})

	s.notifyPlaced(ctx, order)
	return order, nil
}

func (s *CheckoutService) notifyPlaced(ctx context.Context, order domain.Order) {
	account, err := s.accounts.GetAccount(ctx, order.CustomerID)
	if err != nil {
		log.Printf("checkout: load account %d for notification: %v", order.CustomerID, err)
		return
	}
	s.opts.notifier.OrderPlaced(ctx, *account, order)
}
