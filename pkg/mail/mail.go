// Package mail delivers plain-text messages through pluggable backends.
package mail

import (
	"context"
)

// Message is a plain-text email.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Sender delivers a message. Implementations return delivery failures to the
// caller instead of swallowing them.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
