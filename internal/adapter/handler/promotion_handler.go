package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/core/service"
)

type promotionRequest struct {
	Name          string                   `json:"name"`
	Description   string                   `json:"description"`
	DiscountType  string                   `json:"discountType"`
	DiscountValue decimal.Decimal          `json:"discountValue"`
	VoucherCode   string                   `json:"voucherCode"`
	StartDate     string                   `json:"startDate"`
	EndDate       string                   `json:"endDate"`
	Targets       []domain.PromotionTarget `json:"targets"`
}

type voucherRequest struct {
	Code string `json:"code"`
}

// toPromotion accepts RFC 3339 timestamps or plain dates. A plain end date
// covers the whole day.
func (r promotionRequest) toPromotion() (domain.Promotion, error) {
	kind, err := domain.ParseRuleType(r.DiscountType)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("%w: %w", service.ErrInvalidInput, err)
	}
	start, _, err := parseWhen(r.StartDate)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("%w: startDate: %w", service.ErrInvalidInput, err)
	}
	end, dateOnly, err := parseWhen(r.EndDate)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("%w: endDate: %w", service.ErrInvalidInput, err)
	}
	if dateOnly {
		end = end.Add(24*time.Hour - time.Second)
	}

	return domain.Promotion{
		Name:          r.Name,
		Description:   r.Description,
		DiscountType:  kind,
		DiscountValue: r.DiscountValue,
		VoucherCode:   r.VoucherCode,
		StartDate:     start,
		EndDate:       end,
		Targets:       r.Targets,
	}, nil
}

func parseWhen(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t, false, err
}

func (h *HTTPHandler) ListPromotions(c *gin.Context) {
	promos, err := h.svc.Promotions.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, promos)
}

func (h *HTTPHandler) CreatePromotion(c *gin.Context) {
	var req promotionRequest
	if !bindJSON(c, &req) {
		return
	}
	promo, err := req.toPromotion()
	if err != nil {
		writeError(c, err)
		return
	}

	created, err := h.svc.Promotions.Create(c.Request.Context(), actorID(c), promo)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *HTTPHandler) UpdatePromotion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req promotionRequest
	if !bindJSON(c, &req) {
		return
	}
	promo, err := req.toPromotion()
	if err != nil {
		writeError(c, err)
		return
	}
	promo.ID = id

	if err := h.svc.Promotions.Update(c.Request.Context(), actorID(c), promo); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "promotion updated"})
}

func (h *HTTPHandler) DeletePromotion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Promotions.Delete(c.Request.Context(), actorID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "promotion deleted"})
}

func (h *HTTPHandler) ValidateVoucher(c *gin.Context) {
	var req voucherRequest
	if !bindJSON(c, &req) {
		return
	}

	promo, err := h.svc.Promotions.Validate(c.Request.Context(), req.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "promotion": promo})
}
