package kafka

import (
	"encoding/json"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
)

// ChatOrderMessage is an inbound order message from a chat channel bridge.
// The bridge forwards the raw text; all parsing happens here.
type ChatOrderMessage struct {
	Channel      string    `json:"channel"` // kakao, sms, manual
	Message      string    `json:"message"`
	ClientHint   string    `json:"client_hint,omitempty"`
	OrderText    string    `json:"order_text,omitempty"`
	OrderKind    string    `json:"order_kind,omitempty"` // wine (default) or glass
	ForceResolve bool      `json:"force_resolve,omitempty"`
	ReceivedAt   time.Time `json:"received_at,omitempty"`
}

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	OrderMessage *ChatOrderMessage
}

// ParseOrderMessage parses the message value as a chat order
func (m *IncomingMessage) ParseOrderMessage() error {
	var msg ChatOrderMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return err
	}
	m.OrderMessage = &msg
	return nil
}

// IsGlassOrder reports whether the message asks for glassware resolution.
// The header wins over the body so bridges can route without re-encoding.
func (m *IncomingMessage) IsGlassOrder() bool {
	if kind := m.Headers["order_kind"]; kind != "" {
		return kind == "glass"
	}
	return m.OrderMessage != nil && m.OrderMessage.OrderKind == "glass"
}

// GetChannel returns the originating chat channel
func (m *IncomingMessage) GetChannel() string {
	if m.OrderMessage != nil && m.OrderMessage.Channel != "" {
		return m.OrderMessage.Channel
	}
	return m.Headers["channel"]
}

// ToOrderRequest converts the parsed message into an order request
func (m *IncomingMessage) ToOrderRequest() models.OrderRequest {
	if m.OrderMessage == nil {
		return models.OrderRequest{Message: string(m.Value)}
	}
	return models.OrderRequest{
		Message:      m.OrderMessage.Message,
		ClientHint:   m.OrderMessage.ClientHint,
		OrderText:    m.OrderMessage.OrderText,
		ForceResolve: m.OrderMessage.ForceResolve,
	}
}
