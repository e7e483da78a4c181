package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/core/service"
)

type cartItemRequest struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	VariantID int64 `json:"variantId"`
	Quantity  int   `json:"quantity"`
}

type checkoutRequest struct {
	UserID         int64  `json:"userId"`
	PaymentMethod  string `json:"paymentMethod"`
	Address        string `json:"address"`
	VoucherCode    string `json:"voucherCode"`
	ShippingUnitID int    `json:"shippingUnitId"`
}

type checkoutResponse struct {
	Message     string          `json:"message"`
	OrderID     int64           `json:"orderId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	MemberTier  domain.Tier     `json:"memberTier"`
	Order       domain.Order    `json:"order"`
}

func (h *HTTPHandler) GetCart(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	if !sameCustomer(c, userID) {
		return
	}

	lines, err := h.svc.Cart.Lines(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": lines})
}

func (h *HTTPHandler) AddToCart(c *gin.Context) {
	var req cartItemRequest
	if !bindJSON(c, &req) || !sameCustomer(c, req.UserID) {
		return
	}

	if err := h.svc.Cart.Add(c.Request.Context(), req.UserID, req.item()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "added to cart"})
}

func (h *HTTPHandler) UpdateCart(c *gin.Context) {
	var req cartItemRequest
	if !bindJSON(c, &req) || !sameCustomer(c, req.UserID) {
		return
	}

	if err := h.svc.Cart.SetQuantity(c.Request.Context(), req.UserID, req.item()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart updated"})
}

func (h *HTTPHandler) RemoveFromCart(c *gin.Context) {
	var req cartItemRequest
	if !bindJSON(c, &req) || !sameCustomer(c, req.UserID) {
		return
	}

	if err := h.svc.Cart.Remove(c.Request.Context(), req.UserID, req.ProductID, req.VariantID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed from cart"})
}

func (r cartItemRequest) item() domain.CartItem {
	return domain.CartItem{ProductID: r.ProductID, VariantID: r.VariantID, Quantity: r.Quantity}
}

// Checkout places the order. An Idempotency-Key header makes retries of the
// same request safe.
func (h *HTTPHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if !bindJSON(c, &req) || !sameCustomer(c, req.UserID) {
		return
	}

	order, err := h.svc.Checkout.Checkout(c.Request.Context(), service.CheckoutRequest{
		CustomerID:     req.UserID,
		PaymentMethod:  req.PaymentMethod,
		Address:        req.Address,
		VoucherCode:    req.VoucherCode,
		ShippingUnitID: req.ShippingUnitID,
		IdempotencyKey: c.GetHeader(idempotencyHeader),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, checkoutResponse{
		Message:     "order placed",
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
		MemberTier:  order.MemberTier,
		Order:       order,
	})
}

func (h *HTTPHandler) CustomerTier(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	progress, err := h.svc.Reports.CustomerTier(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
