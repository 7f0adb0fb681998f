package signup

import (
	"context"
	"log/slog"
	"time"

	"github.com/tendant/simple-signup/pkg/account"
	signuperrors "github.com/tendant/simple-signup/pkg/errors"
	"github.com/tendant/simple-signup/pkg/events"
	"github.com/tendant/simple-signup/pkg/notification"
	"github.com/tendant/simple-signup/pkg/token"
)

const DefaultTokenTTL = 24 * time.Hour

// Notifier delivers signup notices. token is empty for the already-registered notice.
// notification.Mailer implements it.
type Notifier interface {
	Notify(ctx context.Context, notice notification.NoticeType, identifier, email, token string) error
}

// Service runs the signup flow: registration, verification-link resend, and
// token redemption.
type Service struct {
	registry *account.Registry
	notifier Notifier
	issuer   *token.Issuer
	emitter  *events.Emitter
	ttl      time.Duration
	now      func() time.Time
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithTokenTTL sets how long a verification token stays valid
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithIssuer replaces the default canonical-format issuer
func WithIssuer(issuer *token.Issuer) Option {
	return func(s *Service) {
		s.issuer = issuer
	}
}

// WithClock sets the time source. It also drives the default issuer.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithEmitter sets where AccountCreated and AccountVerified are published
func WithEmitter(emitter *events.Emitter) Option {
	return func(s *Service) {
		s.emitter = emitter
	}
}

func NewService(registry *account.Registry, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		notifier: notifier,
		ttl:      DefaultTokenTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.issuer == nil {
		s.issuer = token.NewIssuer(token.WithClock(s.now))
	}
	return s
}

func (s *Service) issueToken() (token.Token, error) {
	tok, err := s.issuer.Issue(s.ttl)
	if err != nil {
		slog.Error("Failed to issue verification token", "error", err)
		return token.Token{}, signuperrors.Wrap(err, signuperrors.ErrCodeInternal, "failed to issue verification token")
	}
	return tok, nil
}

func (s *Service) notify(ctx context.Context, notice notification.NoticeType, acct *account.Account, tok string) error {
	if err := s.notifier.Notify(ctx, notice, acct.Identifier, acct.Email, tok); err != nil {
		slog.Error("Failed to send notice", "notice", notice, "account_id", acct.ID, "error", err)
		return signuperrors.NotificationFailure(err, string(notice))
	}
	slog.Info("Notice sent", "notice", notice, "account_id", acct.ID)
	return nil
}

func (s *Service) emit(ctx context.Context, kind events.Kind, acct *account.Account, at time.Time) {
	s.emitter.Emit(ctx, events.Event{
		Kind:       kind,
		Account:    acct.Clone(),
		OccurredAt: at,
	})
}
