// Package noop is the email backend used when no SES credentials are
// configured. Sends are logged and reported as successful so the
// dispatch flow stays usable in local development.
package noop

import (
	"context"
	"log/slog"
)

type Sender struct{}

func New() *Sender {
	return &Sender{}
}

func (s *Sender) Send(_ context.Context, to, subject, _ string) error {
	slog.Info("email_skipped", "to", to, "subject", subject)
	return nil
}
