package account

import "context"

// Repository is the storage adapter behind the Registry.
//
// Create is an atomic insert-if-absent: when the identifier or email is
// already stored it must fail with ErrDuplicateIdentifier or ErrDuplicateEmail
// without writing anything. Update is a compare-and-swap on the token: it
// writes only while the stored VerificationToken still equals expectedToken
// ("" for none) and fails with ErrStaleToken otherwise. Lookups that match nothing return
// ErrAccountNotFound. Implementations return copies; mutating a returned
// Account has no effect until Update.
type Repository interface {
	FindByIdentifier(ctx context.Context, identifier string) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByToken(ctx context.Context, token string) (Account, error)
	Create(ctx context.Context, acct Account) (Account, error)
	Update(ctx context.Context, acct Account, expectedToken string) (Account, error)
}
