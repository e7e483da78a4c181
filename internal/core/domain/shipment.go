package domain

import (
	"fmt"
	"time"
)

type ShipmentStatus string

const (
	ShipmentShipping  ShipmentStatus = "Shipping"
	ShipmentDelivered ShipmentStatus = "Delivered"
)

type Shipment struct {
	ID           int64          `json:"shipmentId"`
	OrderID      int64          `json:"orderId"`
	UnitID       int            `json:"unitId"`
	TrackingCode string         `json:"trackingCode"`
	Status       ShipmentStatus `json:"status"`
	ShippedDate  time.Time      `json:"shippedDate"`
	DeliveryDate *time.Time     `json:"deliveryDate,omitempty"`
}

const defaultCarrierPrefix = "UNI"

var carrierPrefixes = map[int]string{
	1: "GHTK",
	2: "VTP",
	3: "GRAB",
	4: "AHA",
}

// CarrierPrefix maps a shipping unit to its tracking code prefix.
func CarrierPrefix(unitID int) string {
	if p, ok := carrierPrefixes[unitID]; ok {
		return p
	}
	return defaultCarrierPrefix
}

// TrackingCode formats "{prefix}-{serial}" with a six digit serial.
func TrackingCode(unitID, serial int) string {
	if serial < 0 {
		serial = -serial
	}
	return fmt.Sprintf("%s-%06d", CarrierPrefix(unitID), serial%1_000_000)
}
