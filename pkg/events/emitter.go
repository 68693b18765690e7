// Package events publishes resolution and learning events downstream. The ERP
// sync job and the review dashboard both consume this stream.
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/tracing"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter publishes fern events. Emission is fire-and-forget from the
// caller's point of view: a broker outage never fails a resolution.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// OrderResolved emits one event per processed order
func (e *Emitter) OrderResolved(ctx context.Context, resp models.OrderResponse) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.OrderResolved")
	defer span.End()

	unresolved := 0
	for _, item := range resp.Items {
		if !item.Resolved {
			unresolved++
		}
	}

	event := OrderResolvedEvent{
		BaseEvent:  NewBaseEvent(EventTypeOrderResolved),
		Status:     resp.Status,
		Client:     resp.Client,
		Items:      resp.Items,
		LineCount:  len(resp.Items),
		Unresolved: unresolved,
	}
	e.publish(ctx, EventTypeOrderResolved, resp.Client.ClientCode, event)
}

// ItemResolved emits an auto-confirmed line
func (e *Emitter) ItemResolved(ctx context.Context, clientCode string, item models.ItemResolution) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.ItemResolved")
	defer span.End()

	event := ItemResolvedEvent{
		BaseEvent:  NewBaseEvent(EventTypeItemResolved),
		ClientCode: clientCode,
		Name:       item.Name,
		Qty:        item.Qty,
		ItemNo:     item.ItemNo,
		ItemName:   item.ItemName,
		Score:      item.Score,
		Method:     item.Method,
	}
	e.publish(ctx, EventTypeItemResolved, clientCode, event)
}

// ItemNeedsReview emits a line headed for human review
func (e *Emitter) ItemNeedsReview(ctx context.Context, clientCode string, item models.ItemResolution) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.ItemNeedsReview")
	defer span.End()

	event := ItemNeedsReviewEvent{
		BaseEvent:          NewBaseEvent(EventTypeItemNeedsReview),
		ClientCode:         clientCode,
		Name:               item.Name,
		Qty:                item.Qty,
		NotInClientHistory: item.NotInClientHistory,
		Candidates:         item.Candidates,
	}
	e.publish(ctx, EventTypeItemNeedsReview, clientCode, event)
}

// AliasLearned emits a confirmed alias write
func (e *Emitter) AliasLearned(ctx context.Context, alias models.ItemAlias) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.AliasLearned")
	defer span.End()

	event := AliasLearnedEvent{
		BaseEvent: NewBaseEvent(EventTypeAliasLearned),
		Alias:     alias.Alias,
		ItemNo:    alias.ItemNo,
		ItemName:  alias.ItemName,
	}
	clientCode := ""
	if alias.ClientCode != nil {
		clientCode = *alias.ClientCode
		event.ClientCode = clientCode
	}
	e.publish(ctx, EventTypeAliasLearned, clientCode, event)
}

// SelectionLearned emits a recorded candidate pick
func (e *Emitter) SelectionLearned(ctx context.Context, searchKey, itemNo string) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.SelectionLearned")
	defer span.End()

	event := SelectionLearnedEvent{
		BaseEvent: NewBaseEvent(EventTypeSelectionLearned),
		SearchKey: searchKey,
		ItemNo:    itemNo,
	}
	e.publish(ctx, EventTypeSelectionLearned, "", event)
}

func (e *Emitter) publish(ctx context.Context, eventType EventType, clientCode string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to marshal event")
		return
	}

	err = e.producer.PublishResolutionEvent(ctx, &kafka.ResolutionEvent{
		EventType:  string(eventType),
		ClientCode: clientCode,
		Data:       data,
	})
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"event_type": eventType,
		}).Error("Failed to publish event")
	}
}
