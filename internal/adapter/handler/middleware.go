package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
)

const (
	requestIDHeader   = "X-Request-ID"
	idempotencyHeader = "Idempotency-Key"

	requestIDKey = "request_id"
	accountIDKey = "account_id"
	roleKey      = "role"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// authRequired accepts "Authorization: Bearer <token>" and stores the
// account id and role in the context.
func (h *HTTPHandler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := h.svc.Tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(accountIDKey, claims.AccountID)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// optionalAuth behaves like authRequired when an Authorization header is
// sent and lets anonymous requests through otherwise.
func (h *HTTPHandler) optionalAuth() gin.HandlerFunc {
	required := h.authRequired()
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		required(c)
	}
}

// sameCustomer rejects a customer token acting on another customer's cart.
// Staff tokens and anonymous requests pass.
func sameCustomer(c *gin.Context, customerID int64) bool {
	role, _ := c.Get(roleKey)
	if r, ok := role.(domain.Role); ok && r == domain.RoleCustomer && actorID(c) != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "userId does not match the signed-in customer"})
		return false
	}
	return true
}

func requireCapability(capability domain.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(roleKey)
		r, ok := role.(domain.Role)
		if !ok || !r.Can(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// actorID is the authenticated account, or zero on public routes.
func actorID(c *gin.Context) int64 {
	return c.GetInt64(accountIDKey)
}
