package processor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
)

type fakeOrders struct {
	wine  []models.OrderRequest
	glass []models.OrderRequest
}

func (f *fakeOrders) ResolveOrder(ctx context.Context, req models.OrderRequest) models.OrderResponse {
	f.wine = append(f.wine, req)
	return models.OrderResponse{Status: models.OrderStatusResolved}
}

func (f *fakeOrders) ResolveGlassOrder(ctx context.Context, req models.OrderRequest) models.OrderResponse {
	f.glass = append(f.glass, req)
	return models.OrderResponse{Status: models.OrderStatusResolved}
}

func newMessage(t *testing.T, body kafka.ChatOrderMessage, headers map[string]string) *kafka.IncomingMessage {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	msg := &kafka.IncomingMessage{Value: raw, Headers: headers}
	require.NoError(t, msg.ParseOrderMessage())
	return msg
}

func TestHandleMessageWineOrder(t *testing.T) {
	orders := &fakeOrders{}
	p := NewProcessor(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}), orders)

	msg := newMessage(t, kafka.ChatOrderMessage{
		Channel: "kakao",
		Message: "배산임수입니다\n샤블리 6병",
	}, nil)

	require.NoError(t, p.HandleMessage(context.Background(), msg))
	require.Len(t, orders.wine, 1)
	assert.Empty(t, orders.glass)
	assert.Equal(t, "배산임수입니다\n샤블리 6병", orders.wine[0].Message)
}

func TestHandleMessageGlassHeaderRoutes(t *testing.T) {
	orders := &fakeOrders{}
	p := NewProcessor(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}), orders)

	msg := newMessage(t, kafka.ChatOrderMessage{
		Channel: "kakao",
		Message: "배산임수입니다\nRD 0330/07 2개",
	}, map[string]string{"order_kind": "glass"})

	require.NoError(t, p.HandleMessage(context.Background(), msg))
	assert.Empty(t, orders.wine)
	require.Len(t, orders.glass, 1)
}

func TestHandleMessageEmptySkipped(t *testing.T) {
	orders := &fakeOrders{}
	p := NewProcessor(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}), orders)

	msg := newMessage(t, kafka.ChatOrderMessage{Channel: "kakao"}, nil)

	require.NoError(t, p.HandleMessage(context.Background(), msg))
	assert.Empty(t, orders.wine)
	assert.Empty(t, orders.glass)
}
