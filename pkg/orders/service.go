// Package orders orchestrates one chat message end to end: split the message,
// resolve the client, parse the lines, and resolve each line against the
// catalog. Lines are independent; one unresolvable line never blocks the rest.
package orders

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/tracing"

	"github.com/Ramsey-B/fern/pkg/codes"
	"github.com/Ramsey-B/fern/pkg/extractor"
	"github.com/Ramsey-B/fern/pkg/models"
)

// ClientResolver resolves the client hint to an account code.
type ClientResolver interface {
	Resolve(ctx context.Context, hint string, force bool) models.ClientResolution
}

// LineResolver resolves one parsed order line.
type LineResolver interface {
	ResolveLine(ctx context.Context, line models.OrderLine, clientCode string, history []models.HistoryItem, codeIdx *codes.Index) models.ItemResolution
	ResolveGlassLine(ctx context.Context, line models.OrderLine, clientCode string, history []models.HistoryItem, codeIdx *codes.Index) models.ItemResolution
}

// HistorySource lists the distinct items a client has purchased before.
type HistorySource interface {
	ListClientHistory(ctx context.Context, clientCode string) ([]models.HistoryItem, error)
}

// CodeLister lists the catalog items whose item numbers are structured codes,
// the raw material for the per-order code index.
type CodeLister interface {
	ListCodedItems(ctx context.Context) ([]models.CatalogItem, error)
}

// Emitter publishes resolution outcomes; nil disables emission.
type Emitter interface {
	OrderResolved(ctx context.Context, resp models.OrderResponse)
	ItemResolved(ctx context.Context, clientCode string, item models.ItemResolution)
	ItemNeedsReview(ctx context.Context, clientCode string, item models.ItemResolution)
}

// Service is the order resolution pipeline.
type Service struct {
	logger  ectologger.Logger
	clients ClientResolver
	matcher LineResolver
	history HistorySource
	codes   CodeLister
	emitter Emitter
}

// NewService wires the order pipeline.
func NewService(logger ectologger.Logger, clients ClientResolver, matcher LineResolver, history HistorySource, codeLister CodeLister, emitter Emitter) *Service {
	return &Service{
		logger:  logger,
		clients: clients,
		matcher: matcher,
		history: history,
		codes:   codeLister,
		emitter: emitter,
	}
}

// ResolveOrder runs the full pipeline for a wine order message.
func (s *Service) ResolveOrder(ctx context.Context, req models.OrderRequest) models.OrderResponse {
	return s.resolve(ctx, req, false)
}

// ResolveGlassOrder runs the pipeline with glassware scoring: codes carry the
// signal and the vintage machinery stays off.
func (s *Service) ResolveGlassOrder(ctx context.Context, req models.OrderRequest) models.OrderResponse {
	return s.resolve(ctx, req, true)
}

func (s *Service) resolve(ctx context.Context, req models.OrderRequest, glass bool) models.OrderResponse {
	ctx, span := tracing.StartSpan(ctx, "OrderService.Resolve")
	defer span.End()
	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"client_hint": req.ClientHint,
		"glass":       glass,
	})

	msg := extractor.Split(req)
	client := s.clients.Resolve(ctx, msg.ClientHint, req.ForceResolve)
	lines := extractor.ParseLines(msg.OrderText)

	// Store failures degrade to an empty snapshot: the line resolver still
	// runs on catalog scans alone.
	history := s.loadHistory(ctx, log, client.ClientCode)
	idx := s.buildCodeIndex(ctx, log, history)

	items := make([]models.ItemResolution, 0, len(lines))
	for _, line := range lines {
		var item models.ItemResolution
		if glass {
			item = s.matcher.ResolveGlassLine(ctx, line, client.ClientCode, history, idx)
		} else {
			item = s.matcher.ResolveLine(ctx, line, client.ClientCode, history, idx)
		}
		items = append(items, item)

		if s.emitter != nil {
			if item.Resolved {
				s.emitter.ItemResolved(ctx, client.ClientCode, item)
			} else {
				s.emitter.ItemNeedsReview(ctx, client.ClientCode, item)
			}
		}
	}

	resp := models.OrderResponse{
		Status: statusFor(client, items),
		Client: client,
		Items:  items,
	}
	if s.emitter != nil {
		s.emitter.OrderResolved(ctx, resp)
	}

	log.WithFields(map[string]any{
		"status":     resp.Status,
		"line_count": len(items),
	}).Info("Resolved order")
	return resp
}

func (s *Service) loadHistory(ctx context.Context, log ectologger.Logger, clientCode string) []models.HistoryItem {
	if clientCode == "" || s.history == nil {
		return nil
	}
	history, err := s.history.ListClientHistory(ctx, clientCode)
	if err != nil {
		log.WithError(err).Warn("client history unavailable, resolving without it")
		return nil
	}
	return history
}

// buildCodeIndex indexes the coded catalog plus the client's history. Catalog
// rows go in first so the history pass only flips flags.
func (s *Service) buildCodeIndex(ctx context.Context, log ectologger.Logger, history []models.HistoryItem) *codes.Index {
	idx := codes.NewIndex()
	if s.codes != nil {
		items, err := s.codes.ListCodedItems(ctx)
		if err != nil {
			log.WithError(err).Warn("coded catalog unavailable, code lookups limited to history")
		}
		for _, item := range items {
			idx.Add(item.ItemNo, item.ItemName, false)
		}
	}
	for _, h := range history {
		idx.Add(h.ItemNo, h.ItemName, true)
	}
	return idx
}

// statusFor aggregates per-line outcomes into the order status. An unresolved
// client always wins: item results without an account are provisional.
func statusFor(client models.ClientResolution, items []models.ItemResolution) string {
	if client.Status != models.ClientStatusResolved {
		return models.OrderStatusNeedsReviewClient
	}
	if len(items) == 0 {
		return models.OrderStatusNeedsReviewItems
	}
	for _, item := range items {
		if !item.Resolved {
			return models.OrderStatusNeedsReviewItems
		}
	}
	return models.OrderStatusResolved
}
