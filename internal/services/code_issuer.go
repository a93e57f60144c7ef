package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"yamdb/internal/metrics"
	"yamdb/internal/repositories"
	"yamdb/pkg/mail"

	"github.com/sirupsen/logrus"
)

const (
	codeLength   = 10
	codeAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// CodeGenerator produces a fresh confirmation code.
type CodeGenerator func() (string, error)

// RandomCode returns a crypto-random code drawn from an alphabet without
// look-alike characters.
func RandomCode() (string, error) {
	limit := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate confirmation code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// MailSettings configures confirmation emails.
type MailSettings struct {
	From    string
	Subject string
}

// CodeIssuer stores a new confirmation code for a user and emails it.
type CodeIssuer struct {
	userRepo repositories.UserRepository
	sender   mail.Sender
	settings MailSettings
	generate CodeGenerator
	metrics  *metrics.Metrics
	logger   logrus.FieldLogger
}

// NewCodeIssuer creates a CodeIssuer that draws codes from RandomCode.
func NewCodeIssuer(userRepo repositories.UserRepository, sender mail.Sender, settings MailSettings, m *metrics.Metrics, logger logrus.FieldLogger) *CodeIssuer {
	return &CodeIssuer{
		userRepo: userRepo,
		sender:   sender,
		settings: settings,
		generate: RandomCode,
		metrics:  m,
		logger:   logger,
	}
}

// WithGenerator replaces the code source, for deterministic tests.
func (i *CodeIssuer) WithGenerator(gen CodeGenerator) *CodeIssuer {
	i.generate = gen
	return i
}

// Issue overwrites the user's confirmation code and sends exactly one email
// with it. A delivery failure is returned; the new code stays stored.
func (i *CodeIssuer) Issue(ctx context.Context, username string) error {
	user, err := i.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return notFound(err, "user %s", username)
	}

	code, err := i.generate()
	if err != nil {
		return err
	}
	if err := i.userRepo.SetConfirmationCode(ctx, user.ID, code); err != nil {
		return notFound(err, "user %s", username)
	}

	msg := mail.Message{
		From:    i.settings.From,
		To:      []string{user.Email},
		Subject: i.settings.Subject,
		Body:    code,
	}
	if err := i.sender.Send(ctx, msg); err != nil {
		i.observe("failed")
		i.logger.WithError(err).WithField("username", username).Error("Confirmation code delivery failed")
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}

	i.observe("sent")
	i.logger.WithField("username", username).Info("Confirmation code issued")
	return nil
}

func (i *CodeIssuer) observe(outcome string) {
	if i.metrics != nil {
		i.metrics.CodesIssuedTotal.WithLabelValues(outcome).Inc()
	}
}
