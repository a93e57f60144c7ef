package mail

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher puts an encoded message on a queue.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// QueueSender hands messages to a broker for asynchronous delivery by a relay.
// Send fails if the broker rejects the message.
type QueueSender struct {
	publisher Publisher
}

// NewQueueSender creates a QueueSender.
func NewQueueSender(publisher Publisher) *QueueSender {
	return &QueueSender{publisher: publisher}
}

// Send encodes msg as JSON and publishes it.
func (s *QueueSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode mail message: %w", err)
	}
	if err := s.publisher.Publish(ctx, body); err != nil {
		return fmt.Errorf("failed to queue mail to %v: %w", msg.To, err)
	}
	return nil
}

// Relay returns a queue handler that decodes messages published by a
// QueueSender and delivers them through next.
func Relay(ctx context.Context, next Sender) func(body []byte) error {
	return func(body []byte) error {
		var msg Message
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to decode queued mail: %w", err)
		}
		return next.Send(ctx, msg)
	}
}
