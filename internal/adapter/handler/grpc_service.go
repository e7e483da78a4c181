package handler

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
)

const (
	fulfillmentServiceName = "uniqlo.fulfillment.v1.Fulfillment"

	updateOrderStatusMethod = "/" + fulfillmentServiceName + "/UpdateOrderStatus"
	getShipmentMethod       = "/" + fulfillmentServiceName + "/GetShipment"
)

// jsonCodec carries the fulfillment messages as JSON. Clients select it
// with grpc.CallContentSubtype("json").
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return "json" }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type UpdateOrderStatusRequest struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
	ActorID int64  `json:"actorId"`
}

type UpdateOrderStatusResponse struct {
	Change domain.StatusChange `json:"change"`
}

type GetShipmentRequest struct {
	OrderID int64 `json:"orderId"`
}

type GetShipmentResponse struct {
	Shipment *domain.Shipment `json:"shipment"`
}

type FulfillmentServer interface {
	UpdateOrderStatus(context.Context, *UpdateOrderStatusRequest) (*UpdateOrderStatusResponse, error)
	GetShipment(context.Context, *GetShipmentRequest) (*GetShipmentResponse, error)
}

var FulfillmentServiceDesc = grpc.ServiceDesc{
	ServiceName: fulfillmentServiceName,
	HandlerType: (*FulfillmentServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "UpdateOrderStatus", Handler: updateOrderStatusHandler},
		{MethodName: "GetShipment", Handler: getShipmentHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "uniqlo/fulfillment/v1",
}

func RegisterFulfillmentServer(s grpc.ServiceRegistrar, srv FulfillmentServer) {
	s.RegisterService(&FulfillmentServiceDesc, srv)
}

func updateOrderStatusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UpdateOrderStatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FulfillmentServer).UpdateOrderStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: updateOrderStatusMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FulfillmentServer).UpdateOrderStatus(ctx, req.(*UpdateOrderStatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getShipmentHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetShipmentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FulfillmentServer).GetShipment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getShipmentMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FulfillmentServer).GetShipment(ctx, req.(*GetShipmentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// FulfillmentClient calls the fulfillment service over a client connection.
type FulfillmentClient struct {
	cc grpc.ClientConnInterface
}

func NewFulfillmentClient(cc grpc.ClientConnInterface) *FulfillmentClient {
	return &FulfillmentClient{cc: cc}
}

func (c *FulfillmentClient) UpdateOrderStatus(ctx context.Context, in *UpdateOrderStatusRequest, opts ...grpc.CallOption) (*UpdateOrderStatusResponse, error) {
	out := new(UpdateOrderStatusResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(jsonCodec{}.Name())}, opts...)
	if err := c.cc.Invoke(ctx, updateOrderStatusMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FulfillmentClient) GetShipment(ctx context.Context, in *GetShipmentRequest, opts ...grpc.CallOption) (*GetShipmentResponse, error) {
	out := new(GetShipmentResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(jsonCodec{}.Name())}, opts...)
	if err := c.cc.Invoke(ctx, getShipmentMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
