package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrVoucherNotFound     = errors.New("voucher not found")
	ErrVoucherNotYetActive = errors.New("voucher not yet active")
	ErrVoucherExpired      = errors.New("voucher expired")
	ErrInvalidPromotion    = errors.New("invalid promotion")
)

type RuleType string

const (
	RulePercentage  RuleType = "Percentage"
	RuleFixedAmount RuleType = "FixedAmount"
	RuleBuy1Get1    RuleType = "Buy1Get1"
)

func ParseRuleType(s string) (RuleType, error) {
	for _, rt := range []RuleType{RulePercentage, RuleFixedAmount, RuleBuy1Get1} {
		if strings.EqualFold(strings.TrimSpace(s), string(rt)) {
			return rt, nil
		}
	}
	return "", fmt.Errorf("%w: unknown discount type %q", ErrInvalidPromotion, s)
}

var hundred = decimal.NewFromInt(100)

// ApplyRule returns the unit price after one discount. Buy1Get1 does not
// change the unit price; the free unit is accounted for by the caller.
func ApplyRule(kind RuleType, value, base decimal.Decimal) decimal.Decimal {
	switch kind {
	case RulePercentage:
		return base.Mul(hundred.Sub(value)).Div(hundred).Round(2)
	case RuleFixedAmount:
		return decimal.Max(decimal.Zero, base.Sub(value))
	default:
		return base
	}
}

// Discount is one applicable promotion rule for a variant.
type Discount struct {
	PromotionID int64           `json:"promotionId"`
	Type        RuleType        `json:"type"`
	Value       decimal.Decimal `json:"value"`
}

// BestPrice is the lowest price over all discounts, or base when none apply.
func BestPrice(base decimal.Decimal, discounts []Discount) decimal.Decimal {
	best := base
	for _, d := range discounts {
		if p := ApplyRule(d.Type, d.Value, base); p.LessThan(best) {
			best = p
		}
	}
	return best
}

// PromotionTarget links a promotion to a product, optionally narrowed to
// one variant.
type PromotionTarget struct {
	ProductID int64  `json:"productId"`
	VariantID *int64 `json:"variantId,omitempty"`
}

type Promotion struct {
	ID            int64             `json:"promotionId"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	DiscountType  RuleType          `json:"discountType"`
	DiscountValue decimal.Decimal   `json:"discountValue"`
	VoucherCode   string            `json:"voucherCode,omitempty"`
	StartDate     time.Time         `json:"startDate"`
	EndDate       time.Time         `json:"endDate"`
	Targets       []PromotionTarget `json:"targets"`
}

// Validate checks the fields an operator can get wrong.
func (p Promotion) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPromotion)
	}
	switch p.DiscountType {
	case RulePercentage:
		if !p.DiscountValue.IsPositive() || p.DiscountValue.GreaterThan(hundred) {
			return fmt.Errorf("%w: percentage must be in (0, 100]", ErrInvalidPromotion)
		}
	case RuleFixedAmount:
		if !p.DiscountValue.IsPositive() {
			return fmt.Errorf("%w: fixed amount must be positive", ErrInvalidPromotion)
		}
	case RuleBuy1Get1:
	default:
		return fmt.Errorf("%w: unknown discount type %q", ErrInvalidPromotion, p.DiscountType)
	}
	if p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidPromotion)
	}
	return nil
}

func (p Promotion) IsVoucher() bool {
	return p.VoucherCode != ""
}

// CheckWindow reports whether now falls within [StartDate, EndDate].
func (p Promotion) CheckWindow(now time.Time) error {
	if now.Before(p.StartDate) {
		return ErrVoucherNotYetActive
	}
	if now.After(p.EndDate) {
		return ErrVoucherExpired
	}
	return nil
}

// AppliesTo is true for promotions without targets and for matching targets.
func (p Promotion) AppliesTo(productID, variantID int64) bool {
	if len(p.Targets) == 0 {
		return true
	}
	for _, t := range p.Targets {
		if t.ProductID != productID {
			continue
		}
		if t.VariantID == nil || *t.VariantID == variantID {
			return true
		}
	}
	return false
}

// VoucherDiscount is the order-level discount a voucher grants over the
// eligible lines. It never exceeds the eligible amount.
func VoucherDiscount(p Promotion, items []OrderItem) decimal.Decimal {
	eligible := decimal.Zero
	for _, it := range items {
		if p.AppliesTo(it.ProductID, it.VariantID) {
			eligible = eligible.Add(it.LineTotal())
		}
	}
	if !eligible.IsPositive() {
		return decimal.Zero
	}

	switch p.DiscountType {
	case RulePercentage:
		return eligible.Mul(p.DiscountValue).Div(hundred).Round(2)
	case RuleFixedAmount:
		return decimal.Min(p.DiscountValue, eligible)
	default:
		return decimal.Zero
	}
}
