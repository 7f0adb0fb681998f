package signup

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tendant/simple-signup/pkg/account"
	signuperrors "github.com/tendant/simple-signup/pkg/errors"
	"github.com/tendant/simple-signup/pkg/events"
	"github.com/tendant/simple-signup/pkg/notification"
	"github.com/tendant/simple-signup/pkg/validator"
)

// Register creates a pending account and sends its verification link.
//
// An email that already belongs to an account creates nothing; the owner is
// told someone tried to register instead. If the confirmation notice fails the
// account stays stored and a NOTIFICATION_FAILURE error is returned.
func (s *Service) Register(ctx context.Context, identifier, email, credential string) (Result, error) {
	if err := validator.ValidateRegistration(identifier, email, credential); err != nil {
		slog.Info("Registration rejected", "identifier", identifier, "reason", err)
		return Result{Outcome: ValidationFailed, Reason: err}, nil
	}

	existing, err := s.registry.FindByIdentifier(ctx, identifier)
	if err != nil {
		return Result{}, err
	}
	if existing != nil {
		return identifierTaken(identifier), nil
	}

	owner, err := s.registry.FindByEmail(ctx, email)
	if err != nil {
		return Result{}, err
	}
	if owner != nil {
		return s.notifyOwner(ctx, owner)
	}

	tok, err := s.issueToken()
	if err != nil {
		return Result{}, err
	}

	acct, err := s.registry.Create(ctx, identifier, email, credential, tok)
	switch {
	case errors.Is(err, account.ErrDuplicateIdentifier):
		return identifierTaken(identifier), nil
	case errors.Is(err, account.ErrDuplicateEmail):
		// Lost a race with a concurrent registration for the same email.
		owner, err := s.registry.FindByEmail(ctx, email)
		if err != nil {
			return Result{}, err
		}
		if owner == nil {
			return Result{}, signuperrors.StorageFailure(account.ErrDuplicateEmail, "create")
		}
		return s.notifyOwner(ctx, owner)
	case err != nil:
		return Result{}, err
	}

	if err := s.notify(ctx, notification.RegistrationConfirmationNotice, acct, acct.VerificationToken); err != nil {
		return Result{}, err
	}

	slog.Info("Account created", "account_id", acct.ID, "identifier", acct.Identifier)
	s.emit(ctx, events.AccountCreated, acct, acct.CreatedAt)
	return Result{Outcome: Created, Account: acct}, nil
}

func identifierTaken(identifier string) Result {
	slog.Info("Registration rejected", "identifier", identifier, "reason", ErrIdentifierTaken)
	return Result{Outcome: IdentifierTaken, Reason: ErrIdentifierTaken}
}

func (s *Service) notifyOwner(ctx context.Context, owner *account.Account) (Result, error) {
	if err := s.notify(ctx, notification.AlreadyRegisteredNotice, owner, ""); err != nil {
		return Result{}, err
	}
	return Result{Outcome: AlreadyRegisteredNotified}, nil
}
