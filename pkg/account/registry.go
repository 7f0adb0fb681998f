package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	signuperrors "github.com/tendant/simple-signup/pkg/errors"
	"github.com/tendant/simple-signup/pkg/token"
)

// Registry applies the signup policy on top of a Repository: lookups report
// absence as a nil account, and adapter failures become storage failures.
type Registry struct {
	repo Repository
	now  func() time.Time
}

type RegistryOption func(*Registry)

func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(repo Repository, opts ...RegistryOption) *Registry {
	r := &Registry{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) FindByIdentifier(ctx context.Context, identifier string) (*Account, error) {
	return r.find(r.repo.FindByIdentifier(ctx, identifier))
}

func (r *Registry) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return r.find(r.repo.FindByEmail(ctx, email))
}

func (r *Registry) FindByToken(ctx context.Context, tok string) (*Account, error) {
	return r.find(r.repo.FindByToken(ctx, tok))
}

func (r *Registry) find(acct Account, err error) (*Account, error) {
	if errors.Is(err, ErrAccountNotFound) {
		return nil, nil
	}
	if err != nil {
		slog.Error("Failed to look up account", "error", err)
		return nil, signuperrors.StorageFailure(err, "lookup")
	}
	return &acct, nil
}

// Create stores a new pending account holding tok. Duplicate identifier and
// email conflicts are returned as ErrDuplicateIdentifier and ErrDuplicateEmail.
func (r *Registry) Create(ctx context.Context, identifier, email, credential string, tok token.Token) (*Account, error) {
	now := r.now().UTC()
	acct := Account{
		ID:         uuid.New(),
		Identifier: identifier,
		Email:      email,
		Credential: credential,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	acct.AssignToken(tok)

	created, err := r.repo.Create(ctx, acct)
	if err != nil {
		if errors.Is(err, ErrDuplicateIdentifier) || errors.Is(err, ErrDuplicateEmail) {
			return nil, err
		}
		slog.Error("Failed to create account", "identifier", identifier, "error", err)
		return nil, signuperrors.StorageFailure(err, "create")
	}
	return &created, nil
}

// Save persists the full state of acct and refreshes it from storage.
// expectedToken is the token acct held when it was read; when storage holds
// a different one by now, Save writes nothing and returns ErrStaleToken
// unwrapped.
func (r *Registry) Save(ctx context.Context, acct *Account, expectedToken string) error {
	acct.UpdatedAt = r.now().UTC()
	saved, err := r.repo.Update(ctx, *acct, expectedToken)
	if errors.Is(err, ErrStaleToken) {
		slog.Info("Account token changed before save", "account_id", acct.ID)
		return err
	}
	if err != nil {
		slog.Error("Failed to save account", "account_id", acct.ID, "error", err)
		return signuperrors.StorageFailure(err, "save")
	}
	*acct = saved
	return nil
}
