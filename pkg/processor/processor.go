// Package processor handles incoming chat-order messages from the channel
// bridges. Each message is resolved through the order pipeline; outcomes ride
// the event stream, so the handler itself returns only transport errors.
package processor

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/tracing"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
)

// OrderResolver runs the order pipeline.
type OrderResolver interface {
	ResolveOrder(ctx context.Context, req models.OrderRequest) models.OrderResponse
	ResolveGlassOrder(ctx context.Context, req models.OrderRequest) models.OrderResponse
}

// Processor handles message processing for inbound chat orders
type Processor struct {
	logger ectologger.Logger
	orders OrderResolver
}

// NewProcessor creates a new chat-order processor
func NewProcessor(logger ectologger.Logger, orders OrderResolver) *Processor {
	return &Processor{
		logger: logger,
		orders: orders,
	}
}

// HandleMessage is the kafka.MessageHandler for the orders topic.
func (p *Processor) HandleMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "Processor.HandleMessage")
	defer span.End()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"channel":   msg.GetChannel(),
		"partition": msg.Partition,
		"offset":    msg.Offset,
	})

	req := msg.ToOrderRequest()
	if req.Message == "" && req.OrderText == "" {
		log.Warn("Empty order message, skipping")
		return nil
	}

	var resp models.OrderResponse
	if msg.IsGlassOrder() {
		resp = p.orders.ResolveGlassOrder(ctx, req)
	} else {
		resp = p.orders.ResolveOrder(ctx, req)
	}

	log.WithFields(map[string]any{
		"status":      resp.Status,
		"client_code": resp.Client.ClientCode,
		"line_count":  len(resp.Items),
	}).Info("Processed chat order")
	return nil
}
