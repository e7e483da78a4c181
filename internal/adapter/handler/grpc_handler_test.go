package handler

import (
	"context"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/core/service"
)

func newBufconnClient(t *testing.T, fulfillment FulfillmentService) *FulfillmentClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterFulfillmentServer(srv, NewGRPCHandler(fulfillment))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewFulfillmentClient(conn)
}

func TestGRPC_UpdateOrderStatus(t *testing.T) {
	stub := &stubFulfillment{change: domain.StatusChange{
		CustomerID:      1,
		From:            domain.OrderStatusProcessing,
		To:              domain.OrderStatusShipping,
		Shipment:        &domain.Shipment{UnitID: 2, TrackingCode: "VTP-123456", Status: domain.ShipmentShipping},
		ShipmentCreated: true,
	}}
	client := newBufconnClient(t, stub)

	resp, err := client.UpdateOrderStatus(context.Background(), &UpdateOrderStatusRequest{OrderID: 7, Status: "Shipping", ActorID: 4})
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.Change.OrderID)
	assert.Equal(t, domain.OrderStatusShipping, resp.Change.To)
	assert.True(t, resp.Change.ShipmentCreated)
	require.NotNil(t, resp.Change.Shipment)
	assert.Equal(t, "VTP-123456", resp.Change.Shipment.TrackingCode)
	assert.Equal(t, int64(4), stub.lastActor)
}

func TestGRPC_GetShipment(t *testing.T) {
	stub := &stubFulfillment{shipment: &domain.Shipment{ID: 3, OrderID: 7, TrackingCode: "GHTK-654321"}}
	client := newBufconnClient(t, stub)

	resp, err := client.GetShipment(context.Background(), &GetShipmentRequest{OrderID: 7})
	require.NoError(t, err)
	assert.Equal(t, "GHTK-654321", resp.Shipment.TrackingCode)
}

func TestGRPC_ErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("%w: orderId is required", service.ErrInvalidInput), codes.InvalidArgument},
		{fmt.Errorf("%w: \"Lost\"", domain.ErrUnknownStatus), codes.InvalidArgument},
		{service.ErrOrderNotFound, codes.NotFound},
		{fmt.Errorf("%w: Cancelled -> Pending", domain.ErrInvalidTransition), codes.FailedPrecondition},
		{fmt.Errorf("%w: deadlock", service.ErrStatusUpdateFailed), codes.Internal},
	}

	for _, tt := range tests {
		client := newBufconnClient(t, &stubFulfillment{err: tt.err})

		_, err := client.UpdateOrderStatus(context.Background(), &UpdateOrderStatusRequest{OrderID: 7, Status: "Pending"})
		assert.Equal(t, tt.want, status.Code(err), tt.err.Error())
	}

	client := newBufconnClient(t, &stubFulfillment{err: service.ErrShipmentNotFound})
	_, err := client.GetShipment(context.Background(), &GetShipmentRequest{OrderID: 7})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
