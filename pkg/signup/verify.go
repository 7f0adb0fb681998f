package signup

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tendant/simple-signup/pkg/account"
	"github.com/tendant/simple-signup/pkg/events"
	"github.com/tendant/simple-signup/pkg/token"
)

// VerifyToken redeems a verification token. Tokens are single use: the token
// is cleared whether it verifies the account or turns out to be expired. When
// two requests race on one token only the first write wins; the other sees
// NotFound.
func (s *Service) VerifyToken(ctx context.Context, value string) (Result, error) {
	if !token.Matches(value) {
		return Result{Outcome: NotFound, Reason: ErrTokenNotFound}, nil
	}

	acct, err := s.registry.FindByToken(ctx, value)
	if err != nil {
		return Result{}, err
	}
	if acct == nil {
		return Result{Outcome: NotFound, Reason: ErrTokenNotFound}, nil
	}

	stored := acct.VerificationToken
	now := s.now().UTC()
	if acct.TokenExpired(now) {
		acct.ClearToken()
		if err := s.registry.Save(ctx, acct, stored); err != nil {
			return lostRace(err)
		}
		slog.Info("Verification token expired", "account_id", acct.ID)
		return Result{Outcome: Expired, Reason: ErrTokenExpired, Account: acct}, nil
	}

	acct.MarkVerified(now)
	if err := s.registry.Save(ctx, acct, stored); err != nil {
		return lostRace(err)
	}

	slog.Info("Account verified", "account_id", acct.ID, "identifier", acct.Identifier)
	s.emit(ctx, events.AccountVerified, acct, now)
	return Result{Outcome: Verified, Account: acct}, nil
}

// lostRace turns a stale-token save into NotFound; other errors pass through.
func lostRace(err error) (Result, error) {
	if errors.Is(err, account.ErrStaleToken) {
		return Result{Outcome: NotFound, Reason: ErrTokenNotFound}, nil
	}
	return Result{}, err
}
