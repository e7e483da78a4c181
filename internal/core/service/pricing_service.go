package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

// PricingService resolves browse-time prices and validates vouchers. It
// never writes.
type PricingService struct {
	promotions port.PromotionRepository
	catalog    port.CatalogRepository
	opts       options
}

func NewPricingService(promotions port.PromotionRepository, catalog port.CatalogRepository, opts ...Option) *PricingService {
	return &PricingService{
		promotions: promotions,
		catalog:    catalog,
		opts:       buildOptions(opts),
	}
}

func (s *PricingService) ResolvePrice(ctx context.Context, productID, variantID int64) (domain.PriceQuote, error) {
	base, err := s.catalog.VariantPrice(ctx, productID, variantID)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("load variant price: %w", err)
	}

	discounts, err := s.promotions.ActiveDiscounts(ctx, productID, variantID, s.opts.now())
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("load discounts: %w", err)
	}

	return domain.PriceQuote{
		ProductID:  productID,
		VariantID:  variantID,
		BasePrice:  base,
		FinalPrice: domain.BestPrice(base, discounts),
		Discounts:  discounts,
	}, nil
}

// ValidateVoucher returns the voucher's promotion if code names one that is
// running now.
func (s *PricingService) ValidateVoucher(ctx context.Context, code string) (domain.Promotion, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Promotion{}, domain.ErrVoucherNotFound
	}

	promo, err := s.promotions.GetPromotionByVoucher(ctx, code)
	if errors.Is(err, port.ErrNotFound) {
		return domain.Promotion{}, domain.ErrVoucherNotFound
	}
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("load voucher: %w", err)
	}

	if err := promo.CheckWindow(s.opts.now()); err != nil {
		return domain.Promotion{}, err
	}
	return *promo, nil
}

// fillLinePrices sets FinalPrice on each cart line from its unit price.
func (s *PricingService) fillLinePrices(ctx context.Context, lines []domain.CartLine) error {
	now := s.opts.now()
	for i := range lines {
		discounts, err := s.promotions.ActiveDiscounts(ctx, lines[i].ProductID, lines[i].VariantID, now)
		if err != nil {
			return fmt.Errorf("load discounts: %w", err)
		}
		lines[i].FinalPrice = domain.BestPrice(lines[i].UnitPrice, discounts)
	}
	return nil
}

func (s *PricingService) fillVariantPrices(ctx context.Context, product *domain.Product) error {
	now := s.opts.now()
	for i := range product.Variants {
		v := &product.Variants[i]
		discounts, err := s.promotions.ActiveDiscounts(ctx, product.ID, v.ID, now)
		if err != nil {
			return fmt.Errorf("load discounts: %w", err)
		}
		v.FinalPrice = domain.BestPrice(v.Price, discounts)
	}
	return nil
}
