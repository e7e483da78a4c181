package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/core/service"
	"github.com/uniqlo-mini/storefront/internal/port"
)

type HTTPHandler struct {
	svc Services
}

func NewHTTPHandler(svc Services) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Router builds the gin engine with every route under /api.
func (h *HTTPHandler) Router(frontendOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", idempotencyHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	api.GET("/health", h.HealthCheck)
	api.GET("/policy", h.Policy)

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	cart := api.Group("/cart", h.optionalAuth())
	cart.GET("", h.GetCart)
	cart.POST("/add", h.AddToCart)
	cart.POST("/update", h.UpdateCart)
	cart.POST("/remove", h.RemoveFromCart)
	cart.POST("/checkout", h.Checkout)

	api.GET("/customers/:id/tier", h.CustomerTier)

	api.GET("/products", h.ListProducts)
	api.GET("/products/:id", h.GetProduct)
	api.GET("/promotions", h.ListPromotions)
	api.POST("/promotions/validate", h.ValidateVoucher)

	reports := api.Group("/reports")
	reports.GET("/customer-orders", h.CustomerOrders)
	reports.GET("/orders/:orderId/shipment/qrcode", h.ShipmentQRCode)

	authed := api.Group("", h.authRequired())
	authed.PUT("/reports/orders/:orderId/status", requireCapability(domain.CapManageOrders), h.UpdateOrderStatus)
	authed.GET("/reports/revenue", requireCapability(domain.CapViewReports), h.Revenue)

	promos := authed.Group("/promotions", requireCapability(domain.CapManagePromotions))
	promos.POST("", h.CreatePromotion)
	promos.PUT("/:id", h.UpdatePromotion)
	promos.DELETE("/:id", h.DeletePromotion)

	products := authed.Group("/products", requireCapability(domain.CapManageCatalog))
	products.POST("", h.CreateProduct)
	products.PUT("/:id", h.UpdateProduct)
	products.DELETE("/:id", h.DeleteProduct)

	return r
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Policy exposes the tier ladder and shipping rule used for previews.
func (h *HTTPHandler) Policy(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Policy)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// writeError maps service and storage errors to HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		status = http.StatusConflict
		message = "checkout failed, transaction rolled back: " + err.Error()

	case errors.Is(err, service.ErrCheckoutFailed):
		message = "checkout failed, transaction rolled back: " + err.Error()

	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrUnknownStatus),
		errors.Is(err, domain.ErrUnknownRole),
		errors.Is(err, domain.ErrInvalidPromotion),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrVoucherNotYetActive),
		errors.Is(err, domain.ErrVoucherExpired):
		status = http.StatusBadRequest

	case errors.Is(err, port.ErrReferenced):
		status = http.StatusBadRequest
		message = "record is still referenced by orders or other data and cannot be removed"

	case errors.Is(err, domain.ErrVoucherNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrShipmentNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, port.ErrNotFound):
		status = http.StatusNotFound

	case errors.Is(err, service.ErrDuplicateRequest),
		errors.Is(err, service.ErrAccountExists),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, port.ErrDuplicate):
		status = http.StatusConflict

	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized

	case errors.Is(err, service.ErrLoginLocked):
		status = http.StatusTooManyRequests
	}

	if status == http.StatusInternalServerError {
		log.Printf("request %s %s [%s]: %v", c.Request.Method, c.FullPath(), c.GetString(requestIDKey), err)
	}
	c.JSON(status, gin.H{"error": message})
}
