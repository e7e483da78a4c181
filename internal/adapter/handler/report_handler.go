package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultRevenueWindow = 30 * 24 * time.Hour

func (h *HTTPHandler) CustomerOrders(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Query("customerId"), 10, 64)
	if err != nil || customerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerId is required"})
		return
	}

	orders, err := h.svc.Reports.CustomerOrders(c.Request.Context(), customerID, c.Query("statusList"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Revenue takes inclusive from/to dates (YYYY-MM-DD) and defaults to the
// last 30 days.
func (h *HTTPHandler) Revenue(c *gin.Context) {
	now := time.Now()
	to := now
	from := now.Add(-defaultRevenueWindow)

	if s := strings.TrimSpace(c.Query("from")); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		from = t
	}
	if s := strings.TrimSpace(c.Query("to")); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		to = t.AddDate(0, 0, 1)
	}

	rows, err := h.svc.Reports.Revenue(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "rows": rows})
}
