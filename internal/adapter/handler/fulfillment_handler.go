package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

type statusRequest struct {
	Status string `json:"status"`
}

func (h *HTTPHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	change, err := h.svc.Fulfillment.UpdateOrderStatus(c.Request.Context(), orderID, req.Status, actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "order status updated",
		"change":  change,
	})
}

// ShipmentQRCode renders the shipment's tracking code as a PNG label.
func (h *HTTPHandler) ShipmentQRCode(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	shipment, err := h.svc.Fulfillment.Shipment(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, err)
		return
	}

	png, err := qrcode.Encode(shipment.TrackingCode, qrcode.Medium, qrSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
