package service

import (
	"context"
	"fmt"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

type CartService struct {
	carts   port.CartRepository
	pricing *PricingService
}

func NewCartService(carts port.CartRepository, pricing *PricingService) *CartService {
	return &CartService{carts: carts, pricing: pricing}
}

func (s *CartService) Lines(ctx context.Context, customerID int64) ([]domain.CartLine, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	lines, err := s.carts.ListLines(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if err := s.pricing.fillLinePrices(ctx, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *CartService) Add(ctx context.Context, customerID int64, item domain.CartItem) error {
	if err := validateCartItem(customerID, item); err != nil {
		return err
	}
	if item.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	return s.carts.AddItem(ctx, customerID, item)
}

// SetQuantity overwrites a line's quantity. Zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, customerID int64, item domain.CartItem) error {
	if err := validateCartItem(customerID, item); err != nil {
		return err
	}
	if item.Quantity <= 0 {
		return s.carts.RemoveItem(ctx, customerID, item.ProductID, item.VariantID)
	}
	return s.carts.SetItemQuantity(ctx, customerID, item)
}

// Remove is idempotent.
func (s *CartService) Remove(ctx context.Context, customerID, productID, variantID int64) error {
	if err := validateCartItem(customerID, domain.CartItem{ProductID: productID, VariantID: variantID}); err != nil {
		return err
	}
	return s.carts.RemoveItem(ctx, customerID, productID, variantID)
}

func validateCartItem(customerID int64, item domain.CartItem) error {
	switch {
	case customerID <= 0:
		return fmt.Errorf("%w: userId is required", ErrInvalidInput)
	case item.ProductID <= 0:
		return fmt.Errorf("%w: productId is required", ErrInvalidInput)
	case item.VariantID <= 0:
		return fmt.Errorf("%w: variantId is required", ErrInvalidInput)
	}
	return nil
}
