package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/core/service"
)

type GRPCHandler struct {
	fulfillment FulfillmentService
}

func NewGRPCHandler(fulfillment FulfillmentService) *GRPCHandler {
	return &GRPCHandler{fulfillment: fulfillment}
}

func (h *GRPCHandler) UpdateOrderStatus(ctx context.Context, req *UpdateOrderStatusRequest) (*UpdateOrderStatusResponse, error) {
	change, err := h.fulfillment.UpdateOrderStatus(ctx, req.OrderID, req.Status, req.ActorID)
	if err != nil {
		return nil, grpcError(err)
	}
	return &UpdateOrderStatusResponse{Change: change}, nil
}

func (h *GRPCHandler) GetShipment(ctx context.Context, req *GetShipmentRequest) (*GetShipmentResponse, error) {
	shipment, err := h.fulfillment.Shipment(ctx, req.OrderID)
	if err != nil {
		return nil, grpcError(err)
	}
	return &GetShipmentResponse{Shipment: shipment}, nil
}

func grpcError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, domain.ErrUnknownStatus):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrShipmentNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
