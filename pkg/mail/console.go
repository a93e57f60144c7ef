package mail

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ConsoleSender writes messages to the log instead of delivering them.
type ConsoleSender struct {
	logger logrus.FieldLogger
}

// NewConsoleSender creates a ConsoleSender.
func NewConsoleSender(logger logrus.FieldLogger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

// Send logs msg.
func (s *ConsoleSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"from":    msg.From,
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info(msg.Body)
	return nil
}
