package signup

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tendant/simple-signup/pkg/account"
	"github.com/tendant/simple-signup/pkg/notification"
	"github.com/tendant/simple-signup/pkg/validator"
)

// ResendVerification rotates the token of a pending account and mails the new
// link. Unknown and already verified emails get the same Accepted result and
// nothing happens.
func (s *Service) ResendVerification(ctx context.Context, email string) (Result, error) {
	if err := validator.ValidateEmail(email); err != nil {
		return Result{Outcome: ValidationFailed, Reason: err}, nil
	}

	acct, err := s.registry.FindByEmail(ctx, email)
	if err != nil {
		return Result{}, err
	}
	if acct == nil || acct.IsVerified() {
		slog.Debug("Resend skipped", "known", acct != nil)
		return Result{Outcome: Accepted}, nil
	}

	tok, err := s.issueToken()
	if err != nil {
		return Result{}, err
	}
	previous := acct.VerificationToken
	acct.AssignToken(tok)
	if err := s.registry.Save(ctx, acct, previous); err != nil {
		if errors.Is(err, account.ErrStaleToken) {
			// Verified or rotated meanwhile; that request owns the notice.
			return Result{Outcome: Accepted}, nil
		}
		return Result{}, err
	}

	if err := s.notify(ctx, notification.ResendVerificationNotice, acct, tok.Value); err != nil {
		return Result{}, err
	}
	return Result{Outcome: Accepted}, nil
}
