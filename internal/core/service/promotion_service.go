package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

type PromotionService struct {
	promotions port.PromotionRepository
	pricing    *PricingService
	opts       options
}

func NewPromotionService(promotions port.PromotionRepository, pricing *PricingService, opts ...Option) *PromotionService {
	return &PromotionService{
		promotions: promotions,
		pricing:    pricing,
		opts:       buildOptions(opts),
	}
}

func (s *PromotionService) List(ctx context.Context) ([]domain.Promotion, error) {
	return s.promotions.ListPromotions(ctx)
}

func (s *PromotionService) Create(ctx context.Context, actorID int64, promo domain.Promotion) (domain.Promotion, error) {
	promo.VoucherCode = normalizeVoucher(promo.VoucherCode)
	if err := promo.Validate(); err != nil {
		return domain.Promotion{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	created, err := s.promotions.CreatePromotion(ctx, promo)
	if err != nil {
		return domain.Promotion{}, err
	}
	s.record(ctx, actorID, domain.AuditPromotionCreate, created.ID, created.Name)
	return created, nil
}

func (s *PromotionService) Update(ctx context.Context, actorID int64, promo domain.Promotion) error {
	if promo.ID <= 0 {
		return fmt.Errorf("%w: promotionId is required", ErrInvalidInput)
	}
	promo.VoucherCode = normalizeVoucher(promo.VoucherCode)
	if err := promo.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.promotions.UpdatePromotion(ctx, promo); err != nil {
		return err
	}
	s.record(ctx, actorID, domain.AuditPromotionUpdate, promo.ID, promo.Name)
	return nil
}

func (s *PromotionService) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.promotions.DeletePromotion(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, domain.AuditPromotionDelete, id, "")
	return nil
}

// Validate checks a customer-entered voucher code.
func (s *PromotionService) Validate(ctx context.Context, code string) (domain.Promotion, error) {
	return s.pricing.ValidateVoucher(ctx, normalizeVoucher(code))
}

func (s *PromotionService) record(ctx context.Context, actorID int64, action string, id int64, detail string) {
	s.opts.audit.Record(ctx, domain.AuditEntry{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		Resource:   "promotion",
		ResourceID: strconv.FormatInt(id, 10),
		Detail:     detail,
		CreatedAt:  s.opts.now(),
	})
}

// Voucher codes are stored upper-case.
func normalizeVoucher(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
