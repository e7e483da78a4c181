package domain

import "time"

const (
	AuditOrderCreate     = "order.create"
	AuditOrderStatus     = "order.status"
	AuditPromotionCreate = "promotion.create"
	AuditPromotionUpdate = "promotion.update"
	AuditPromotionDelete = "promotion.delete"
	AuditProductCreate   = "product.create"
	AuditProductUpdate   = "product.update"
	AuditProductDelete   = "product.delete"
	AuditAccountCreate   = "account.create"
)

type AuditEntry struct {
	ID         string    `json:"id"`
	ActorID    int64     `json:"actorId"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resourceId"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"createdAt"`
}
